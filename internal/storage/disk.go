package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"spongetube/internal/model"
)

// DiskStore writes uploads under a root directory (uploads/ by default) and
// builds public URLs relative to a base path served as static files.
type DiskStore struct {
	root       string
	publicBase string
}

func NewDiskStore(root, publicBase string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{
		root:       root,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// Save writes the blob to root/folder/<uuid>-<filename> and returns its
// public path. The uuid prefix keeps repeated uploads of the same filename
// from clobbering each other.
func (s *DiskStore) Save(ctx context.Context, folder, filename, contentType string, data []byte) (*model.StoredFile, error) {
	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", folder, err)
	}

	name := uuid.NewString() + "-" + sanitizeFilename(filename)
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	key := folder + "/" + name
	return &model.StoredFile{
		URL: s.publicBase + "/" + key,
		Key: key,
	}, nil
}

// sanitizeFilename strips path separators and spaces so the original filename
// can be embedded in the stored name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "-")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	return name
}
