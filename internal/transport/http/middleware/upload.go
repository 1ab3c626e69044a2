package middleware

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"spongetube/internal/model"
	"spongetube/internal/storage"
)

const uploadsKey contextKey = "uploads"

// FileField describes one multipart file field a route accepts: where the
// bytes go and how they are validated before storage.
type FileField struct {
	Name    string
	Folder  string
	MaxSize int64
	// Image uploads are type-checked; Avatar additionally normalizes to a
	// square JPEG.
	Image  bool
	Avatar bool
}

// Uploads carries the results of the upload middleware to the handler. A
// missing field is not an error here; handlers decide whether it was
// required. A storage or validation failure is recorded so the handler can
// re-render its form with the message.
type Uploads struct {
	files map[string]*model.StoredFile
	err   error
}

// File returns the stored location of the named field, if it was uploaded.
func (u *Uploads) File(name string) (*model.StoredFile, bool) {
	if u == nil {
		return nil, false
	}
	f, ok := u.files[name]
	return f, ok
}

// Err reports a validation or storage failure for any of the fields.
func (u *Uploads) Err() error {
	if u == nil {
		return nil
	}
	return u.err
}

// Files intercepts multipart requests, persists the configured file fields
// via the store, and exposes the stored paths (or the failure) to the
// handler through the request context. Non-file form values remain available
// via r.FormValue as usual.
func Files(store storage.Store, fields ...FileField) func(http.Handler) http.Handler {
	var maxTotal int64 = 1024 * 1024 // form value overhead
	for _, f := range fields {
		maxTotal += f.MaxSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uploads := &Uploads{files: make(map[string]*model.StoredFile, len(fields))}

			r.Body = http.MaxBytesReader(w, r.Body, maxTotal)
			if err := r.ParseMultipartForm(maxTotal); err != nil {
				var maxBytesErr *http.MaxBytesError
				if errors.As(err, &maxBytesErr) {
					uploads.err = model.ErrFileTooLarge
				} else {
					uploads.err = err
				}
				next.ServeHTTP(w, r.WithContext(withUploads(r.Context(), uploads)))
				return
			}

			for _, field := range fields {
				file, header, err := r.FormFile(field.Name)
				if errors.Is(err, http.ErrMissingFile) {
					continue
				}
				if err != nil {
					uploads.err = err
					break
				}

				stored, err := saveField(r.Context(), store, field, file, header)
				file.Close()
				if err != nil {
					uploads.err = err
					break
				}
				uploads.files[field.Name] = stored
			}

			next.ServeHTTP(w, r.WithContext(withUploads(r.Context(), uploads)))
		})
	}
}

// saveField validates one uploaded file and hands it to the store.
func saveField(ctx context.Context, store storage.Store, field FileField, file multipart.File, header *multipart.FileHeader) (*model.StoredFile, error) {
	data, err := storage.ReadUpload(file, header, field.MaxSize)
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	filename := header.Filename

	if field.Image {
		contentType, err = storage.ValidateImage(data, header)
		if err != nil {
			return nil, err
		}
	}

	if field.Avatar {
		data, err = storage.NormalizeAvatar(data)
		if err != nil {
			return nil, err
		}
		contentType = model.ContentTypeJPEG
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + model.AvatarExt
	}

	return store.Save(ctx, field.Folder, filename, contentType, data)
}

// FilesFromContext returns the upload results, or nil when no upload
// middleware ran for the route.
func FilesFromContext(ctx context.Context) *Uploads {
	u, _ := ctx.Value(uploadsKey).(*Uploads)
	return u
}

func withUploads(ctx context.Context, u *Uploads) context.Context {
	return context.WithValue(ctx, uploadsKey, u)
}
