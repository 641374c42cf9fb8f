// Package upload implements the image upload pipeline: validation,
// storage-key naming, and orchestration against the object store.
package upload

import (
	"errors"
	"path"
	"strings"
)

// MaxUploadSize is the per-file payload ceiling.
const MaxUploadSize = 10 << 20 // 10 MiB

// ErrUnsupportedType is returned when the extension or declared content
// type is not an allowed image format, or when the pair is mismatched.
var ErrUnsupportedType = errors.New("unsupported file type: only jpg, jpeg, png, gif, webp images are allowed")

// ErrTooLarge is returned when the payload exceeds MaxUploadSize.
var ErrTooLarge = errors.New("file too large: maximum size is 10 MiB")

// allowedTypes maps each allowed extension (without dot, lowercase) to the
// content type it must be declared with.
var allowedTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Validate decides accept/reject for a candidate file based on its declared
// name, content type, and size. Both the extension and the content type must
// name the same allowed image format.
func Validate(filename, contentType string, size int64) error {
	if size > MaxUploadSize {
		return ErrTooLarge
	}

	ext := strings.TrimPrefix(path.Ext(filename), ".")
	want, ok := allowedTypes[strings.ToLower(ext)]
	if !ok {
		return ErrUnsupportedType
	}

	// Ignore media-type parameters like "; charset=binary".
	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if declared != want {
		return ErrUnsupportedType
	}
	return nil
}
