package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/imagedrop/service/internal/storage"
)

// MaxBatchFiles caps the number of files in one batch upload.
const MaxBatchFiles = 10

// ErrTooManyFiles is returned when a batch exceeds MaxBatchFiles.
var ErrTooManyFiles = fmt.Errorf("too many files: maximum is %d per batch", MaxBatchFiles)

// ErrNotFound is returned when no stored object matches the requested id.
var ErrNotFound = errors.New("image not found")

// File is a candidate upload: declared metadata plus the content stream.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// StoredObject is the result of a successful upload. Immutable once created.
type StoredObject struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimetype"`
}

// Entry is a listing item for a stored image.
type Entry struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Service orchestrates the upload pipeline: validate, name, store.
type Service struct {
	store storage.Storage
}

// NewService creates an upload Service backed by the given storage.
func NewService(store storage.Storage) *Service {
	return &Service{store: store}
}

// Store validates the file, derives a storage key, and writes it to the
// object store. Validation failures never touch storage; storage failures
// are surfaced as-is, not retried.
func (s *Service) Store(ctx context.Context, f File) (*StoredObject, error) {
	if err := Validate(f.Name, f.ContentType, f.Size); err != nil {
		return nil, err
	}

	key := NewKey(f.Name)
	if err := s.store.Put(ctx, key, f.Reader, f.Size, f.ContentType); err != nil {
		return nil, fmt.Errorf("store %q: %w", key, err)
	}

	return &StoredObject{
		ID:       IDFromKey(key),
		Filename: key,
		URL:      s.store.PublicURL(key),
		Size:     f.Size,
		MimeType: f.ContentType,
	}, nil
}

// StoreBatch uploads up to MaxBatchFiles files concurrently. The response
// is all-or-nothing: every file is validated up front, so a batch with any
// invalid member fails before a single byte reaches storage. Once the
// fan-out starts, a storage failure fails the batch but does not cancel
// in-flight siblings; their results are discarded, and already-written
// objects are not rolled back.
func (s *Service) StoreBatch(ctx context.Context, files []File) ([]*StoredObject, error) {
	if len(files) > MaxBatchFiles {
		return nil, ErrTooManyFiles
	}

	for _, f := range files {
		if err := Validate(f.Name, f.ContentType, f.Size); err != nil {
			return nil, err
		}
	}

	results := make([]*StoredObject, len(files))
	var g errgroup.Group
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			obj, err := s.Store(ctx, f)
			if err != nil {
				return err
			}
			results[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Fetch returns the stored object under the given full key. The caller
// must close the returned body.
func (s *Service) Fetch(ctx context.Context, key string) (*storage.Object, error) {
	obj, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetch %q: %w", key, err)
	}
	return obj, nil
}

// List returns up to limit stored images, newest-first. Non-image keys in
// the bucket are skipped.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	infos, err := s.store.List(ctx, "", limit)
	if err != nil {
		return nil, fmt.Errorf("list objects: %w", err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		ext := strings.ToLower(strings.TrimPrefix(path.Ext(info.Key), "."))
		if _, ok := allowedTypes[ext]; !ok {
			continue
		}
		entries = append(entries, Entry{
			ID:       IDFromKey(info.Key),
			Filename: info.Key,
			URL:      s.store.PublicURL(info.Key),
		})
	}
	return entries, nil
}

// ResolveAndDelete finds the stored object whose key starts with
// id + "." and removes it. The first exact-prefix match wins.
func (s *Service) ResolveAndDelete(ctx context.Context, id string) (*Entry, error) {
	infos, err := s.store.List(ctx, id, 0)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", id, err)
	}

	var key string
	for _, info := range infos {
		if strings.HasPrefix(info.Key, id+".") {
			key = info.Key
			break
		}
	}
	if key == "" {
		return nil, ErrNotFound
	}

	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete %q: %w", key, err)
	}

	return &Entry{
		ID:       id,
		Filename: key,
		URL:      s.store.PublicURL(key),
	}, nil
}
