package mcpservice

import (
	"context"

	"github.com/ggoodman/candidate-mcp-server/mcp"
)

// ReadFunc produces the contents of a resource at read time.
type ReadFunc func(ctx context.Context, uri string) ([]mcp.ResourceContents, error)

// StaticResource pairs a resource descriptor with the callback that reads it.
type StaticResource struct {
	Descriptor mcp.Resource
	Read       ReadFunc
}

// ResourceOption configures TextResource.
type ResourceOption func(*mcp.Resource)

// WithName sets the display name of the resource.
func WithName(name string) ResourceOption {
	return func(r *mcp.Resource) { r.Name = name }
}

// WithDescription sets the description of the resource.
func WithDescription(desc string) ResourceOption {
	return func(r *mcp.Resource) { r.Description = desc }
}

// WithMimeType overrides the text/plain default.
func WithMimeType(mime string) ResourceOption {
	return func(r *mcp.Resource) { r.MimeType = mime }
}

// TextResource builds a single-part text resource whose body is produced by
// text on every read. Nothing is cached.
func TextResource(uri string, text func() string, opts ...ResourceOption) StaticResource {
	desc := mcp.Resource{URI: uri, Name: uri, MimeType: mcp.MimeTypeText}
	for _, opt := range opts {
		opt(&desc)
	}
	mime := desc.MimeType
	return StaticResource{
		Descriptor: desc,
		Read: func(_ context.Context, _ string) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{{URI: uri, MimeType: mime, Text: text()}}, nil
		},
	}
}
