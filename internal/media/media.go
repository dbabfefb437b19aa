// Package media stores campground photos in S3-compatible object storage.
// Handlers only ever see the Store interface.
package media

import (
	"context"
	"io"
)

// Object is a stored photo: the public URL pages embed and the storage key
// deletes are issued against.
type Object struct {
	URL string
	Key string
}

type Store interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
}
