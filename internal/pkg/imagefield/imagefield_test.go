package imagefield

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG
const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecode_PNG(t *testing.T) {
	img, err := Decode("data:image/png;base64," + pngBase64)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, "png", img.Ext)
	assert.NotEmpty(t, img.Data)
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"no prefix":      pngBase64,
		"not image type": "data:text/plain;base64," + pngBase64,
		"bad base64":     "data:image/png;base64,@@@@",
		"not an image":   "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")),
		"empty":          "",
	}
	for name, raw := range cases {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrInvalidImage, name)
	}
}
