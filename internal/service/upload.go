package service

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/zinhocoder/Aproovi-Back-end/internal/apperr"
)

const (
	// maxAssetSize caps creative uploads at 50MB per file.
	maxAssetSize = 50 * 1024 * 1024
	// maxLogoSize caps company logo uploads at 5MB.
	maxLogoSize = 5 * 1024 * 1024
	// maxCarouselFiles caps a multi-asset upload at 10 files.
	maxCarouselFiles = 10
)

// FilePayload is an already-read upload: the client-side filename and the
// raw bytes. Handlers build these from multipart parts; services validate
// and push them to the object store.
type FilePayload struct {
	Name string
	Data []byte
}

// validateAsset checks a creative asset: present, within the size cap and an
// image or video. Validation of every file happens before any store call.
func validateAsset(f FilePayload) error {
	if f.Name == "" || len(f.Data) == 0 {
		return apperr.Validation("incomplete upload data", "file name or content is missing")
	}
	if len(f.Data) > maxAssetSize {
		return apperr.Validation("file too large", "file "+f.Name+" exceeds the 50MB limit")
	}
	mime := mimetype.Detect(f.Data)
	if !strings.HasPrefix(mime.String(), "image/") && !strings.HasPrefix(mime.String(), "video/") {
		return apperr.Validation("invalid file type", "only image and video files are allowed")
	}
	return nil
}

// validateLogo checks a company logo: image only, 5MB cap.
func validateLogo(f FilePayload) error {
	if f.Name == "" || len(f.Data) == 0 {
		return apperr.Validation("incomplete upload data", "file name or content is missing")
	}
	if len(f.Data) > maxLogoSize {
		return apperr.Validation("file too large", "logo exceeds the 5MB limit")
	}
	if !strings.HasPrefix(mimetype.Detect(f.Data).String(), "image/") {
		return apperr.Validation("invalid file type", "only image files are allowed for logos")
	}
	return nil
}
