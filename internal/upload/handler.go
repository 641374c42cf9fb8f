package upload

import (
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imagedrop/service/internal/response"
)

// multipartOverhead is extra body allowance for multipart boundaries and headers.
const multipartOverhead = 1 << 20

// Handler holds HTTP handlers for upload and image endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new upload Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Upload handles POST /upload: stores a single image from the multipart
// field "image".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize+multipartOverhead)

	file, header, err := r.FormFile("image")
	if err != nil {
		if isBodyTooLarge(err) {
			response.BadRequest(w, ErrTooLarge.Error())
			return
		}
		response.BadRequest(w, "no file uploaded: expected multipart field \"image\"")
		return
	}
	defer file.Close()

	obj, err := h.svc.Store(r.Context(), File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	response.OK(w, obj)
}

// UploadMultiple handles POST /upload-multiple: stores up to MaxBatchFiles
// images from the multipart field "images", all-or-nothing.
func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBatchFiles*MaxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		if isBodyTooLarge(err) {
			response.BadRequest(w, ErrTooLarge.Error())
			return
		}
		response.BadRequest(w, "invalid multipart body")
		return
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		response.BadRequest(w, "no files uploaded: expected multipart field \"images\"")
		return
	}
	if len(headers) > MaxBatchFiles {
		response.BadRequest(w, ErrTooManyFiles.Error())
		return
	}

	files := make([]File, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			response.InternalError(w)
			return
		}
		opened = append(opened, f)
		files = append(files, File{
			Name:        hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Reader:      f,
		})
	}

	objs, err := h.svc.StoreBatch(r.Context(), files)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	entries := make([]Entry, len(objs))
	for i, obj := range objs {
		entries[i] = Entry{ID: obj.ID, Filename: obj.Filename, URL: obj.URL}
	}
	response.OK(w, map[string]interface{}{"files": entries})
}

// ListImages handles GET /images: lists stored images, newest-first.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), 0)
	if err != nil {
		log.Printf("upload: list images: %v", err)
		response.InternalError(w)
		return
	}
	response.OK(w, entries)
}

// ServeFile handles GET /file/{filename}: streams the stored object with
// its content type and a long-lived cache header (stored objects are
// immutable).
func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		response.BadRequest(w, "filename is required")
		return
	}

	obj, err := h.svc.Fetch(r.Context(), filename)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "file not found")
			return
		}
		log.Printf("upload: serve file %q: %v", filename, err)
		response.InternalError(w)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.Info.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj.Body)
}

// Delete handles DELETE /images/{id}: resolves the short id to its full
// key and removes the object.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "image id is required")
		return
	}

	entry, err := h.svc.ResolveAndDelete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "image not found")
			return
		}
		log.Printf("upload: delete %q: %v", id, err)
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{
		"message":  "image deleted",
		"id":       entry.ID,
		"filename": entry.Filename,
	})
}

// writeStoreError maps pipeline errors to client responses. Validation
// failures return their own message; storage failures stay generic.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedType), errors.Is(err, ErrTooLarge), errors.Is(err, ErrTooManyFiles):
		response.BadRequest(w, err.Error())
	default:
		log.Printf("upload: store failed: %v", err)
		response.InternalError(w)
	}
}

// isBodyTooLarge reports whether err came from http.MaxBytesReader.
func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
