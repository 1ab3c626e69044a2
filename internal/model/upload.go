package model

import "errors"

// Upload folder names under the storage root. Paths built from these are used
// directly as public URLs.
const (
	AvatarFolder = "avatars"
	VideoFolder  = "videos"
)

const (
	MaxAvatarSizeBytes = 5 * 1024 * 1024
	MaxVideoSizeBytes  = 200 * 1024 * 1024

	AvatarWidth  = 200
	AvatarHeight = 200
	AvatarExt    = ".jpg"
)

// Supported image content types for avatar and thumbnail validation.
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// StoredFile is the result of persisting an upload: URL is the public-facing
// location, Key is the path inside the storage backend (useful for deletes).
type StoredFile struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the provided content type is supported.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
