package mcpservice

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ggoodman/candidate-mcp-server/mcp"
)

// Catalog is an in-memory Registrar. It keeps descriptors in registration
// order and dispatches calls straight to their handlers, which makes it the
// reference registrar for snapshot tests and for inspecting a configuration
// without starting a transport.
//
// Catalog is safe for concurrent use.
type Catalog struct {
	mu sync.RWMutex

	tools     []mcp.Tool
	resources []mcp.Resource
	prompts   []mcp.Prompt

	toolHandlers   map[string]ToolHandler
	readers        map[string]ReadFunc
	promptHandlers map[string]PromptHandler
}

var _ Registrar = (*Catalog)(nil)

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		toolHandlers:   make(map[string]ToolHandler),
		readers:        make(map[string]ReadFunc),
		promptHandlers: make(map[string]PromptHandler),
	}
}

// RegisterTool implements Registrar.
func (c *Catalog) RegisterTool(t StaticTool) error {
	if err := ValidateTool(t); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	name := t.Descriptor.Name
	if _, exists := c.toolHandlers[name]; exists {
		return fmt.Errorf("%w: tool %q", ErrDuplicate, name)
	}
	c.tools = append(c.tools, t.Descriptor)
	c.toolHandlers[name] = t.Handler
	return nil
}

// RegisterResource implements Registrar.
func (c *Catalog) RegisterResource(r StaticResource) error {
	if err := ValidateResource(r); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	uri := r.Descriptor.URI
	if _, exists := c.readers[uri]; exists {
		return fmt.Errorf("%w: resource %q", ErrDuplicate, uri)
	}
	c.resources = append(c.resources, r.Descriptor)
	c.readers[uri] = r.Read
	return nil
}

// RegisterPrompt implements Registrar.
func (c *Catalog) RegisterPrompt(p StaticPrompt) error {
	if err := ValidatePrompt(p); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	name := p.Descriptor.Name
	if _, exists := c.promptHandlers[name]; exists {
		return fmt.Errorf("%w: prompt %q", ErrDuplicate, name)
	}
	c.prompts = append(c.prompts, p.Descriptor)
	c.promptHandlers[name] = p.Handler
	return nil
}

// Tools returns a copy of the tool descriptors in registration order.
func (c *Catalog) Tools() []mcp.Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]mcp.Tool, len(c.tools))
	copy(out, c.tools)
	return out
}

// Resources returns a copy of the resource descriptors in registration order.
func (c *Catalog) Resources() []mcp.Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]mcp.Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// Prompts returns a copy of the prompt descriptors in registration order.
func (c *Catalog) Prompts() []mcp.Prompt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]mcp.Prompt, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// CallTool dispatches to the named tool. An unregistered name is an
// ErrNotFound error rather than a tool result.
func (c *Catalog) CallTool(ctx context.Context, name string, args json.RawMessage) (*mcp.CallToolResult, error) {
	c.mu.RLock()
	h := c.toolHandlers[name]
	c.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("%w: tool %q", ErrNotFound, name)
	}
	return h(ctx, &ToolCall{Name: name, Arguments: args}), nil
}

// ReadResource reads the resource registered under uri.
func (c *Catalog) ReadResource(ctx context.Context, uri string) ([]mcp.ResourceContents, error) {
	c.mu.RLock()
	read := c.readers[uri]
	c.mu.RUnlock()
	if read == nil {
		return nil, fmt.Errorf("%w: resource %q", ErrNotFound, uri)
	}
	return read(ctx, uri)
}

// GetPrompt materializes the named prompt.
func (c *Catalog) GetPrompt(ctx context.Context, name string, args map[string]string) (*mcp.GetPromptResult, error) {
	c.mu.RLock()
	h := c.promptHandlers[name]
	c.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("%w: prompt %q", ErrNotFound, name)
	}
	return h(ctx, args)
}
