package mcpservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/invopop/jsonschema"
)

// ToolHandler is the function signature used to handle a tool invocation.
// Handlers report every outcome, failures included, as a result; there is no
// error return to escape to the transport.
type ToolHandler func(ctx context.Context, call *ToolCall) *mcp.CallToolResult

// ToolCall carries the name and raw JSON arguments of a tool invocation.
type ToolCall struct {
	Name      string
	Arguments json.RawMessage
}

// StaticTool pairs an MCP tool descriptor with its handler.
type StaticTool struct {
	Descriptor mcp.Tool
	Handler    ToolHandler
}

// ToolRequest is the container for tool call input and request metadata.
// It is generic over the typed argument struct A.
type ToolRequest[A any] struct {
	name string
	raw  json.RawMessage
	args A
}

func (r *ToolRequest[A]) Name() string                  { return r.name }
func (r *ToolRequest[A]) RawArguments() json.RawMessage { return r.raw }
func (r *ToolRequest[A]) Args() A                       { return r.args }

// ToolOption configures NewTool behavior.
type ToolOption func(*toolConfig)

type toolConfig struct {
	description string
}

// WithToolDescription sets the tool description used in listings.
func WithToolDescription(desc string) ToolOption {
	return func(c *toolConfig) { c.description = desc }
}

// NewTool constructs a StaticTool from a typed args struct A. It:
//   - Reflects a JSON Schema from A using invopop/jsonschema
//   - Down-converts it to the simplified mcp.ToolInputSchema
//   - Wraps fn with argument checks against that schema (required properties
//     and enumerations) and strict JSON decoding
//
// Arguments that fail any check produce an IsError result and fn is not called.
func NewTool[A any](name string, fn func(ctx context.Context, r *ToolRequest[A]) *mcp.CallToolResult, opts ...ToolOption) StaticTool {
	cfg := toolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	input := reflectInputSchema[A]()
	desc := mcp.Tool{
		Name:        name,
		Description: cfg.description,
		InputSchema: input,
	}

	handler := func(ctx context.Context, call *ToolCall) *mcp.CallToolResult {
		raw := call.Arguments
		if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			raw = json.RawMessage("{}")
		}
		if err := checkArguments(input, raw); err != nil {
			return Errorf("invalid arguments: %v", err)
		}
		var a A
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&a); err != nil {
			return Errorf("invalid arguments: %v", err)
		}
		return fn(ctx, &ToolRequest[A]{name: call.Name, raw: raw, args: a})
	}

	return StaticTool{Descriptor: desc, Handler: handler}
}

// checkArguments enforces the parts of the input schema that JSON decoding
// into a Go struct cannot: presence of required properties and membership of
// enumerated values.
func checkArguments(schema mcp.ToolInputSchema, raw json.RawMessage) error {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	for _, req := range schema.Required {
		if _, ok := args[req]; !ok {
			return fmt.Errorf("missing required argument %q", req)
		}
	}
	for key, val := range args {
		prop, ok := schema.Properties[key]
		if !ok || len(prop.Enum) == 0 {
			continue
		}
		if !enumContains(prop.Enum, val) {
			return fmt.Errorf("argument %q must be one of %v, got %v", key, prop.Enum, val)
		}
	}
	return nil
}

func enumContains(enum []any, v any) bool {
	switch v.(type) {
	case string, float64, bool:
		return slices.Contains(enum, v)
	default:
		return false
	}
}

// reflectInputSchema reflects a Go type A into a jsonschema.Schema, and
// converts it to the simplified mcp.ToolInputSchema. Unknown fields are
// never allowed.
func reflectInputSchema[A any]() mcp.ToolInputSchema {
	r := &jsonschema.Reflector{
		DoNotReference: true, // inline defs
		ExpandedStruct: true, // put struct at root
	}
	s := r.Reflect(new(A))

	// Only object schemas map cleanly to MCP ToolInputSchema.
	props := make(map[string]mcp.SchemaProperty)
	if s == nil || s.Type != "object" {
		return mcp.ToolInputSchema{Type: "object", Properties: props}
	}
	if s.Properties != nil {
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			props[el.Key] = toSchemaProperty(el.Value)
		}
	}
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: props,
		Required:   slices.Clone(s.Required),
	}
}

// toSchemaProperty recursively maps a jsonschema.Schema to the simplified SchemaProperty.
func toSchemaProperty(s *jsonschema.Schema) mcp.SchemaProperty {
	if s == nil {
		return mcp.SchemaProperty{}
	}
	p := mcp.SchemaProperty{
		Type:        s.Type,
		Description: s.Description,
	}
	if len(s.Enum) > 0 {
		p.Enum = slices.Clone(s.Enum)
	}
	if s.Type == "array" && s.Items != nil {
		item := toSchemaProperty(s.Items)
		p.Items = &item
	}
	if s.Type == "object" && s.Properties != nil {
		m := make(map[string]mcp.SchemaProperty, s.Properties.Len())
		for el := s.Properties.Oldest(); el != nil; el = el.Next() {
			m[el.Key] = toSchemaProperty(el.Value)
		}
		p.Properties = m
	}
	return p
}

// TextResult is a small helper to build a text CallToolResult.
func TextResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.ContentBlock{mcp.Text(s)}}
}

// Errorf returns an error CallToolResult with a single text block and IsError=true.
func Errorf(format string, a ...any) *mcp.CallToolResult {
	msg := fmt.Sprintf(format, a...)
	return &mcp.CallToolResult{Content: []mcp.ContentBlock{mcp.Text(msg)}, IsError: true}
}
