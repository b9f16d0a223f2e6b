// Package datauri encodes and decodes images carried as base64 data URIs
// (data:<media type>;base64,<body>).
package datauri

import (
	"encoding/base64"
	"errors"
	"mime"
	"strings"
)

var (
	// ErrMediaType is returned when no media type can be extracted
	ErrMediaType = errors.New("datauri: missing or malformed media type")
	// ErrBody is returned when the base64 body is missing or undecodable
	ErrBody = errors.New("datauri: missing or malformed base64 body")
)

const (
	scheme = "data:"
	marker = ";base64"
)

// Payload is a decoded data URI
type Payload struct {
	MediaType string
	Data      []byte
}

// Extension returns the file extension implied by the media type, without the
// leading dot: image/png -> png.
func (p *Payload) Extension() string {
	return Extension(p.MediaType)
}

// Encode builds a data URI for data
func Encode(mediaType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(scheme) + len(mediaType) + len(marker) + 1 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString(scheme)
	b.WriteString(mediaType)
	b.WriteString(marker)
	b.WriteByte(',')
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Parse decodes s. Parameters between the media type and the base64 marker
// are accepted and dropped.
func Parse(s string) (*Payload, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), scheme)
	if !ok {
		return nil, ErrMediaType
	}

	header, body, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrBody
	}

	params, ok := strings.CutSuffix(header, marker)
	if !ok {
		return nil, ErrBody
	}

	mediaType, _, err := mime.ParseMediaType(params)
	if err != nil || Extension(mediaType) == "" {
		return nil, ErrMediaType
	}

	data, err := decode(body)
	if err != nil {
		return nil, err
	}

	return &Payload{MediaType: mediaType, Data: data}, nil
}

// Extension returns the subtype of mediaType, or "" when there is none
func Extension(mediaType string) string {
	_, sub, ok := strings.Cut(mediaType, "/")
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(sub))
}

func decode(body string) ([]byte, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrBody
	}

	data, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		// unpadded bodies show up from some encoders
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(body, "="))
		if err != nil {
			return nil, ErrBody
		}
	}
	if len(data) == 0 {
		return nil, ErrBody
	}
	return data, nil
}
