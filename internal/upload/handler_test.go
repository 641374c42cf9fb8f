package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*chi.Mux, *fakeStorage) {
	store := newFakeStorage()
	h := NewHandler(NewService(store))

	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Post("/upload-multiple", h.UploadMultiple)
	r.Get("/images", h.ListImages)
	r.Get("/file/{filename}", h.ServeFile)
	r.Delete("/images/{id}", h.Delete)
	return r, store
}

// multipartBody builds a multipart body with one part per file under field.
func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, data := range files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, field, name))
		hdr.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUploadHandler_Success(t *testing.T) {
	t.Parallel()

	router, store := newTestRouter()

	body, contentType := multipartBody(t, "image", map[string][]byte{"cat.png": []byte("png bytes")})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got StoredObject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, got.ID+".png", got.Filename)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, int64(len("png bytes")), got.Size)
	assert.Equal(t, store.PublicURL(got.Filename), got.URL)
}

func TestUploadHandler_NoFile(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()

	body, contentType := multipartBody(t, "wrong-field", map[string][]byte{"cat.png": []byte("x")})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_UnsupportedType(t *testing.T) {
	t.Parallel()

	router, store := newTestRouter()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="evil.exe"`)
	hdr.Set("Content-Type", "application/octet-stream")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.count())
}

func TestUploadMultipleHandler(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()

	body, contentType := multipartBody(t, "images", map[string][]byte{
		"a.png": []byte("aa"),
		"b.png": []byte("bb"),
	})
	req := httptest.NewRequest(http.MethodPost, "/upload-multiple", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Files []Entry `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Files, 2)
}

func TestUploadMultipleHandler_TooMany(t *testing.T) {
	t.Parallel()

	router, store := newTestRouter()

	files := make(map[string][]byte)
	for i := 0; i < MaxBatchFiles+1; i++ {
		files[fmt.Sprintf("img-%d.png", i)] = []byte("x")
	}
	body, contentType := multipartBody(t, "images", files)
	req := httptest.NewRequest(http.MethodPost, "/upload-multiple", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, store.count(), "rejected batch must not persist anything")
}

func TestServeFileHandler(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()

	// Seed through the public upload path so the key is realistic.
	body, contentType := multipartBody(t, "image", map[string][]byte{"cat.png": []byte("png bytes")})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded StoredObject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	req = httptest.NewRequest(http.MethodGet, "/file/"+uploaded.Filename, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "max-age")

	served, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), served)
}

func TestServeFileHandler_NotFound(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/file/missing.png", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteHandler(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()

	body, contentType := multipartBody(t, "image", map[string][]byte{"cat.png": []byte("x")})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var uploaded StoredObject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploaded))

	req = httptest.NewRequest(http.MethodDelete, "/images/"+uploaded.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, uploaded.ID, deleted["id"])
	assert.Equal(t, uploaded.Filename, deleted["filename"])

	// Second delete of the same id is a 404.
	req = httptest.NewRequest(http.MethodDelete, "/images/"+uploaded.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListImagesHandler(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter()

	for _, name := range []string{"a.png", "b.png"} {
		body, contentType := multipartBody(t, "image", map[string][]byte{name: []byte("x")})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/images", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}
