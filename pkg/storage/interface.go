package storage

import (
	"context"
	"time"
)

// ImageStore resolves stored image object keys into URLs clients can fetch.
// Keys that are already absolute URLs are passed through unchanged.
type ImageStore interface {
	// URL returns a fetchable URL for the given object key.
	// For local storage, this joins the key onto a static base URL.
	// For S3, this returns a presigned URL valid for the specified duration.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)
}
