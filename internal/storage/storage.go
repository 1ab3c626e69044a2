// Package storage persists uploaded files and returns their public locations.
// Two backends exist: local disk (the default) and an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"spongetube/internal/model"
)

// Store saves a binary blob under folder and returns where it ended up. The
// returned URL is usable directly by pages and players.
type Store interface {
	Save(ctx context.Context, folder, filename, contentType string, data []byte) (*model.StoredFile, error)
}

// ReadUpload loads a multipart file into memory with a size check.
func ReadUpload(file multipart.File, header *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if header.Size > maxSize {
		return nil, model.ErrFileTooLarge
	}

	limitedReader := io.LimitReader(file, maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, model.ErrFileTooLarge
	}

	return data, nil
}

// ValidateImage checks the declared (or sniffed) content type against the
// supported image formats and returns the effective type.
func ValidateImage(data []byte, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(contentType) {
		return "", model.ErrInvalidImageType
	}
	return contentType, nil
}

// NormalizeAvatar centers/crops the image to the avatar dimensions and
// encodes it as JPEG.
func NormalizeAvatar(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, model.AvatarWidth, model.AvatarHeight, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}
