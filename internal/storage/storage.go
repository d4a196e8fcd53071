package storage

import (
	"context"
)

// Client abstracts the subset of object storage operations the tool needs.
type Client interface {
	UploadManifest(ctx context.Context, key string, body []byte) error
	FetchManifest(ctx context.Context, key string) ([]byte, error)
}

var (
	defaultClient Client
)

// SetDefaultClient sets the global storage client used by the application.
func SetDefaultClient(c Client) {
	defaultClient = c
}

// DefaultClient returns the global storage client if one has been configured.
func DefaultClient() Client {
	return defaultClient
}
