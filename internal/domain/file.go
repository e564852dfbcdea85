package domain

import (
	"context"
)

// ImageStore keeps gym images in object storage
type ImageStore interface {
	// Upload saves an image under key and returns its public URL
	Upload(ctx context.Context, data []byte, key string, contentType string) (string, error)
	// Delete removes the object behind a URL previously returned by Upload
	Delete(ctx context.Context, url string) error
}
