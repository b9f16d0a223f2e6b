package form

import "strings"

// UploadState is the image picker state
type UploadState int

const (
	UploadIdle UploadState = iota
	Uploading
	UploadFailed
)

func (s UploadState) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case Uploading:
		return "uploading"
	case UploadFailed:
		return "error"
	default:
		return "unknown"
	}
}

// Image is the preview shown by the picker
type Image struct {
	Src string
	Alt string
}

// altText is the file name up to its first dot
func altText(name string) string {
	alt, _, _ := strings.Cut(name, ".")
	if strings.TrimSpace(alt) == "" {
		return "New file"
	}
	return alt
}
