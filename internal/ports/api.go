package ports

import "context"

// APIClient is the transport surface the resource services consume.
// internal/api.Client is the production implementation.
type APIClient interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}
