package datauri

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParse_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, size := range []int{1, 2, 3, 4, 57, 1024, 64 * 1024} {
		data := make([]byte, size)
		rng.Read(data)

		p, err := Parse(Encode("image/png", data))
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, "image/png", p.MediaType)
		assert.True(t, bytes.Equal(data, p.Data), "size %d", size)
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", p.MediaType)
	assert.Equal(t, []byte("hello"), p.Data)
	assert.Equal(t, "jpeg", p.Extension())

	p, err = Parse("data:image/png;name=a.png;base64,aGVsbG8")
	require.NoError(t, err, "parameters and unpadded body")
	assert.Equal(t, "image/png", p.MediaType)
	assert.Equal(t, []byte("hello"), p.Data)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrMediaType},
		{"no scheme", "image/png;base64,aGVsbG8=", ErrMediaType},
		{"no media type", "data:;base64,aGVsbG8=", ErrMediaType},
		{"no subtype", "data:image;base64,aGVsbG8=", ErrMediaType},
		{"not base64 encoded", "data:image/png,hello", ErrBody},
		{"no comma", "data:image/png;base64", ErrBody},
		{"empty body", "data:image/png;base64,", ErrBody},
		{"garbage body", "data:image/png;base64,***", ErrBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.input)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "png", Extension("image/png"))
	assert.Equal(t, "gif", Extension("IMAGE/GIF"))
	assert.Equal(t, "svg+xml", Extension("image/svg+xml"))
	assert.Equal(t, "", Extension("image"))
}
