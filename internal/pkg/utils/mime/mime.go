package mime

import (
	"io"
	stdmime "mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Scriptable image formats are served from the API origin, so they never
// count as images.
var scriptable = map[string]bool{
	"image/svg+xml": true,
}

// Detected is the result of sniffing an upload.
type Detected struct {
	ContentType string
	Extension   string
}

func (d Detected) IsImage() bool {
	return strings.HasPrefix(d.ContentType, "image/") && !scriptable[d.ContentType]
}

// DetectReader sniffs r and picks a storage extension. The client's extension
// is kept only when it maps to the sniffed type; otherwise the extension comes
// from the content. The reader is consumed up to mimetype's read limit.
func DetectReader(r io.Reader, filename string) (Detected, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return Detected{}, err
	}
	return refine(mt, filename), nil
}

func detect(content []byte, filename string) Detected {
	return refine(mimetype.Detect(content), filename)
}

func refine(mt *mimetype.MIME, filename string) Detected {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extensionMatches(mt, ext) {
		ext = mt.Extension()
	}
	return Detected{ContentType: mt.String(), Extension: ext}
}

// extensionMatches reports whether ext is registered for the sniffed type.
func extensionMatches(mt *mimetype.MIME, ext string) bool {
	if ext == "" || ext == "." {
		return false
	}
	byExt := stdmime.TypeByExtension(ext)
	if byExt == "" {
		return false
	}
	mediaType, _, err := stdmime.ParseMediaType(byExt)
	if err != nil {
		return false
	}
	return mt.Is(mediaType)
}
