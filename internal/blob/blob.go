package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

// Object is a stored blob with the content type recorded at upload time.
type Object struct {
	Data        []byte
	ContentType string
}

type Store interface {
	Get(ctx context.Context, key string) (*Object, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
