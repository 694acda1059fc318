package imagefield

import (
	"encoding/base64"
	"errors"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxImageSize = 10 * 1024 * 1024 // 10 MB

var ErrInvalidImage = errors.New("upload a valid image: the file is either not an image or corrupted")

var dataURIRe = regexp.MustCompile(`^data:(image/([a-z]+));base64,([A-Za-z0-9+/]+={0,2})$`)

// AllowedMimeTypes: форматы, которые принимаем для изображений рецептов.
var AllowedMimeTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Image is a decoded data-URI payload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Decode parses data:image/<ext>;base64,<payload>.
// The declared type must match the sniffed content.
func Decode(raw string) (*Image, error) {
	m := dataURIRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return nil, ErrInvalidImage
	}
	if base64.StdEncoding.DecodedLen(len(m[3])) > MaxImageSize {
		return nil, ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(m[3])
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidImage
	}

	detected := mimetype.Detect(data)
	ext, ok := AllowedMimeTypes[detected.String()]
	if !ok {
		return nil, ErrInvalidImage
	}

	return &Image{Data: data, ContentType: detected.String(), Ext: ext}, nil
}
