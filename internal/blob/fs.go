package blob

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps blobs on the local filesystem under a base directory.
// Keys are slash-separated opaque strings; the content type is kept in
// a sidecar file next to the data so formats the sniffer cannot detect
// (heic) survive a round trip.
type FSStore struct {
	base string
}

func NewFSStore(base string) (*FSStore, error) {
	if err := os.MkdirAll(base, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create blob dir: %w", err)
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Get(ctx context.Context, key string) (*Object, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path is confined to the base dir by resolve
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}

	contentType := ""
	if meta, err := os.ReadFile(path + ".ctype"); err == nil { // #nosec G304
		contentType = strings.TrimSpace(string(meta))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &Object{Data: data, ContentType: contentType}, nil
}

func (s *FSStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create blob subdir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write blob %s: %w", key, err)
	}
	if contentType != "" {
		if err := os.WriteFile(path+".ctype", []byte(contentType), 0o640); err != nil {
			return fmt.Errorf("failed to write blob metadata %s: %w", key, err)
		}
	}
	return nil
}

func (s *FSStore) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid blob key: %q", key)
	}
	return filepath.Join(s.base, clean), nil
}
