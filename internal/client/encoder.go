package client

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"rental-listings/internal/datauri"
)

// DefaultSizeLimit is the largest file the picker accepts
const DefaultSizeLimit int64 = 10 << 20

// DefaultAccept lists the image extensions the picker accepts
var DefaultAccept = []string{".png", ".jpg", ".jpeg", ".gif"}

var (
	ErrNoFile          = errors.New("no file selected")
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("file type not supported")
)

// File is a user selected file
type File interface {
	Name() string
	Size() int64
	Open() (io.ReadCloser, error)
}

type localFile struct {
	path string
	size int64
}

// OpenLocalFile stats path and returns it as a File. The content is not read
// until Open is called.
func OpenLocalFile(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &localFile{path: path, size: info.Size()}, nil
}

func (f *localFile) Name() string                 { return filepath.Base(f.path) }
func (f *localFile) Size() int64                  { return f.size }
func (f *localFile) Open() (io.ReadCloser, error) { return os.Open(f.path) }

// Encoder turns picked files into data URIs
type Encoder struct {
	SizeLimit int64
	Accept    []string
}

func NewEncoder() *Encoder {
	return &Encoder{SizeLimit: DefaultSizeLimit, Accept: DefaultAccept}
}

// Check rejects files over the size limit and files outside the accept list
// without opening them
func (e *Encoder) Check(f File) error {
	if f == nil {
		return ErrNoFile
	}
	if f.Size() > e.limit() {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, f.Name(), f.Size())
	}
	ext := strings.ToLower(filepath.Ext(f.Name()))
	if len(e.Accept) > 0 && !slices.Contains(e.Accept, ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return nil
}

// Encode reads f into a data URI. Files that fail Check are rejected before
// they are opened.
func (e *Encoder) Encode(f File) (string, error) {
	if err := e.Check(f); err != nil {
		return "", err
	}

	limit := e.limit()
	ext := strings.ToLower(filepath.Ext(f.Name()))
	r, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name(), err)
	}
	defer r.Close()

	// the file may have grown since it was picked
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name(), err)
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: %s", ErrFileTooLarge, f.Name())
	}

	return datauri.Encode(mediaType(ext, data), data), nil
}

// Message returns the text shown to the user for an Encode error
func (e *Encoder) Message(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return fmt.Sprintf("File size is exceeding %dMB.", e.limit()>>20)
	case errors.Is(err, ErrUnsupportedType):
		return "File type is not supported."
	case errors.Is(err, ErrNoFile):
		return "No file selected."
	default:
		return "Unable to read file."
	}
}

func (e *Encoder) limit() int64 {
	if e.SizeLimit > 0 {
		return e.SizeLimit
	}
	return DefaultSizeLimit
}

func mediaType(ext string, data []byte) string {
	if t := mime.TypeByExtension(ext); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	mt, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}
