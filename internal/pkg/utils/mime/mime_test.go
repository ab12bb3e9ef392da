package mime

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0x10, 'J', 'F', 'I', 'F', 0}
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
	svgDoc     = []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		content     []byte
		filename    string
		contentType string
		ext         string
		image       bool
	}{
		{name: "png", content: pngHeader, filename: "photo.PNG", contentType: "image/png", ext: ".png", image: true},
		{name: "jpeg keeps matching client extension", content: jpegHeader, filename: "photo.jpeg", contentType: "image/jpeg", ext: ".jpeg", image: true},
		{name: "gif without extension", content: gifHeader, filename: "photo", contentType: "image/gif", ext: ".gif", image: true},
		{name: "html name with png bytes", content: pngHeader, filename: "x.html", contentType: "image/png", ext: ".png", image: true},
		{name: "jpg name with png bytes", content: pngHeader, filename: "x.jpg", contentType: "image/png", ext: ".png", image: true},
		{name: "unknown extension", content: gifHeader, filename: "x.qqq", contentType: "image/gif", ext: ".gif", image: true},
		{name: "odd extension replaced", content: pngHeader, filename: "x.p$g", contentType: "image/png", ext: ".png", image: true},
		{name: "svg is not an image", content: svgDoc, filename: "logo.svg", contentType: "image/svg+xml", ext: ".svg", image: false},
		{name: "xml named svg stays xml", content: []byte(`<?xml version="1.0"?><foo/>`), filename: "logo.svg", image: false},
		{name: "plain text is not an image", content: []byte("hello world"), filename: "notes.jpg", contentType: "text/plain; charset=utf-8", ext: ".txt", image: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := detect(tt.content, tt.filename)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, d.ContentType)
				assert.Equal(t, tt.ext, d.Extension)
			}
			assert.Equal(t, tt.image, d.IsImage())
		})
	}
}

func TestDetectReader(t *testing.T) {
	d, err := DetectReader(bytes.NewReader(pngHeader), "a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", d.ContentType)
	assert.Equal(t, ".png", d.Extension)
}
