package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spongetube/internal/model"
)

// fakeStore records what the middleware hands it.
type fakeStore struct {
	saved []fakeSave
}

type fakeSave struct {
	Folder      string
	Filename    string
	ContentType string
	Data        []byte
}

func (s *fakeStore) Save(ctx context.Context, folder, filename, contentType string, data []byte) (*model.StoredFile, error) {
	s.saved = append(s.saved, fakeSave{Folder: folder, Filename: filename, ContentType: contentType, Data: data})
	key := folder + "/" + filename
	return &model.StoredFile{URL: "/uploads/" + key, Key: key}, nil
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for name, data := range files {
		part, err := w.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader(data))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func runUpload(store *fakeStore, req *http.Request, fields ...FileField) (*Uploads, *httptest.ResponseRecorder) {
	var got *Uploads
	handler := Files(store, fields...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FilesFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return got, rec
}

func TestFiles_SavesUpload(t *testing.T) {
	store := &fakeStore{}
	req := multipartRequest(t,
		map[string]string{"title": "First dive"},
		map[string][]byte{"video": []byte("fake video bytes")},
	)

	uploads, _ := runUpload(store, req, FileField{Name: "video", Folder: model.VideoFolder, MaxSize: 1024})

	require.NoError(t, uploads.Err())
	stored, ok := uploads.File("video")
	require.True(t, ok, "video file should be stored")
	assert.Equal(t, "/uploads/"+stored.Key, stored.URL)

	require.Len(t, store.saved, 1)
	assert.Equal(t, model.VideoFolder, store.saved[0].Folder)
	assert.Equal(t, []byte("fake video bytes"), store.saved[0].Data)
}

func TestFiles_FormValuesSurviveAndMissingFileIsNotAnError(t *testing.T) {
	store := &fakeStore{}
	req := multipartRequest(t, map[string]string{"name": "SpongeBob"}, nil)

	var formName string
	handler := Files(store, FileField{Name: "avatar", Folder: model.AvatarFolder, MaxSize: 1024})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			formName = r.FormValue("name")
			uploads := FilesFromContext(r.Context())
			assert.NoError(t, uploads.Err())
			_, ok := uploads.File("avatar")
			assert.False(t, ok, "no avatar was uploaded")
		}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "SpongeBob", formName)
	assert.Empty(t, store.saved)
}

func TestFiles_FieldOverSizeLimit(t *testing.T) {
	store := &fakeStore{}
	req := multipartRequest(t, nil, map[string][]byte{"video": bytes.Repeat([]byte("a"), 64)})

	uploads, _ := runUpload(store, req, FileField{Name: "video", Folder: model.VideoFolder, MaxSize: 10})

	assert.True(t, errors.Is(uploads.Err(), model.ErrFileTooLarge))
	assert.Empty(t, store.saved)
}

func TestFiles_BodyOverTotalLimit(t *testing.T) {
	// The request body exceeds the total budget (form overhead plus field
	// sizes), so parsing trips http.MaxBytesReader before any field is read.
	store := &fakeStore{}
	req := multipartRequest(t, nil, map[string][]byte{"video": bytes.Repeat([]byte("a"), 2<<20)})

	uploads, _ := runUpload(store, req, FileField{Name: "video", Folder: model.VideoFolder, MaxSize: 10})

	assert.True(t, errors.Is(uploads.Err(), model.ErrFileTooLarge))
	assert.Empty(t, store.saved)
}
