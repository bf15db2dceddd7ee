package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
)

func TestValidateAsset(t *testing.T) {
	assert.NoError(t, validateAsset(FilePayload{Name: "a.png", Data: pngBytes()}))

	cases := map[string]FilePayload{
		"missing name": {Name: "", Data: pngBytes()},
		"missing data": {Name: "a.png", Data: nil},
		"text file":    {Name: "a.txt", Data: []byte("just text content")},
		"oversized":    {Name: "a.png", Data: append(pngBytes(), make([]byte, maxAssetSize)...)},
	}
	for name, f := range cases {
		err := validateAsset(f)
		assert.Error(t, err, name)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), name)
	}
}

func TestValidateLogoImageOnly(t *testing.T) {
	assert.NoError(t, validateLogo(FilePayload{Name: "logo.png", Data: pngBytes()}))

	// Videos pass asset validation but are not acceptable logos.
	mp4 := []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00,
		'i', 's', 'o', 'm', 'i', 's', 'o', '2',
	}
	assert.NoError(t, validateAsset(FilePayload{Name: "clip.mp4", Data: mp4}))
	err := validateLogo(FilePayload{Name: "clip.mp4", Data: mp4})
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	err = validateLogo(FilePayload{Name: "logo.png", Data: append(pngBytes(), make([]byte, maxLogoSize)...)})
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}
