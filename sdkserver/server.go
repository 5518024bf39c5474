package sdkserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/internal/logctx"
	"github.com/ggoodman/candidate-mcp-server/internal/metrics"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
	"github.com/google/uuid"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server binds capability descriptors to an official SDK server. It is the
// transport-side Registrar: each accepted descriptor becomes one SDK
// registration whose lifetime is that of the Server.
type Server struct {
	srv     *sdk.Server
	log     *slog.Logger
	metrics *metrics.Recorder

	mu        sync.Mutex
	tools     map[string]struct{}
	resources map[string]struct{}
	prompts   map[string]struct{}
}

var _ mcpservice.Registrar = (*Server)(nil)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for invocation records.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithMetrics records every invocation on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Server) { s.metrics = m }
}

// New constructs an empty server advertising the name and version from
// settings.
func New(settings candidate.Settings, opts ...Option) *Server {
	s := &Server{
		log:       slog.Default(),
		tools:     make(map[string]struct{}),
		resources: make(map[string]struct{}),
		prompts:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = sdk.NewServer(&sdk.Implementation{
		Name:    settings.ServerName(),
		Version: settings.ServerVersion(),
	}, nil)
	s.srv.AddReceivingMiddleware(s.observe)
	return s
}

// SDK returns the underlying SDK server for attaching transports.
func (s *Server) SDK() *sdk.Server { return s.srv }

// claim records id in set, failing if it is already present. The SDK itself
// replaces registrations with the same identifier, so duplicates are caught
// here.
func (s *Server) claim(set map[string]struct{}, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := set[id]; exists {
		return fmt.Errorf("%w: %s %q", mcpservice.ErrDuplicate, kind, id)
	}
	set[id] = struct{}{}
	return nil
}

// RegisterTool implements mcpservice.Registrar.
func (s *Server) RegisterTool(t mcpservice.StaticTool) error {
	if err := mcpservice.ValidateTool(t); err != nil {
		return err
	}
	schema, err := json.Marshal(t.Descriptor.InputSchema)
	if err != nil {
		return fmt.Errorf("%w: tool %q schema: %w", mcpservice.ErrInvalidDescriptor, t.Descriptor.Name, err)
	}
	if err := s.claim(s.tools, "tool", t.Descriptor.Name); err != nil {
		return err
	}

	name, handler := t.Descriptor.Name, t.Handler
	s.srv.AddTool(&sdk.Tool{
		Name:        name,
		Description: t.Descriptor.Description,
		InputSchema: json.RawMessage(schema),
	}, func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		var args json.RawMessage
		if req.Params != nil {
			args = req.Params.Arguments
		}
		return toolResult(s.callTool(ctx, handler, name, args)), nil
	})
	return nil
}

// callTool runs h and turns a panic into an error result so that nothing
// escapes to the transport.
func (s *Server) callTool(ctx context.Context, h mcpservice.ToolHandler, name string, args json.RawMessage) (res *mcp.CallToolResult) {
	defer func() {
		if v := recover(); v != nil {
			s.log.ErrorContext(ctx, "tool handler panicked", slog.String("tool", name), slog.Any("panic", v))
			res = mcpservice.Errorf("tool %s failed: %v", name, v)
		}
	}()
	res = h(ctx, &mcpservice.ToolCall{Name: name, Arguments: args})
	if res == nil {
		res = mcpservice.Errorf("tool %s produced no result", name)
	}
	return res
}

func toolResult(r *mcp.CallToolResult) *sdk.CallToolResult {
	out := &sdk.CallToolResult{IsError: r.IsError}
	for _, c := range r.Content {
		out.Content = append(out.Content, &sdk.TextContent{Text: c.Text})
	}
	return out
}

// RegisterResource implements mcpservice.Registrar.
func (s *Server) RegisterResource(r mcpservice.StaticResource) error {
	if err := mcpservice.ValidateResource(r); err != nil {
		return err
	}
	if err := s.claim(s.resources, "resource", r.Descriptor.URI); err != nil {
		return err
	}

	read := r.Read
	s.srv.AddResource(&sdk.Resource{
		URI:         r.Descriptor.URI,
		Name:        r.Descriptor.Name,
		Description: r.Descriptor.Description,
		MIMEType:    r.Descriptor.MimeType,
	}, func(ctx context.Context, req *sdk.ReadResourceRequest) (*sdk.ReadResourceResult, error) {
		contents, err := read(ctx, req.Params.URI)
		if err != nil {
			return nil, err
		}
		out := &sdk.ReadResourceResult{}
		for _, c := range contents {
			out.Contents = append(out.Contents, &sdk.ResourceContents{URI: c.URI, MIMEType: c.MimeType, Text: c.Text})
		}
		return out, nil
	})
	return nil
}

// RegisterPrompt implements mcpservice.Registrar.
func (s *Server) RegisterPrompt(p mcpservice.StaticPrompt) error {
	if err := mcpservice.ValidatePrompt(p); err != nil {
		return err
	}
	if err := s.claim(s.prompts, "prompt", p.Descriptor.Name); err != nil {
		return err
	}

	desc := &sdk.Prompt{Name: p.Descriptor.Name, Description: p.Descriptor.Description}
	for _, a := range p.Descriptor.Arguments {
		desc.Arguments = append(desc.Arguments, &sdk.PromptArgument{
			Name:        a.Name,
			Description: a.Description,
			Required:    a.Required,
		})
	}
	handler := p.Handler
	s.srv.AddPrompt(desc, func(ctx context.Context, req *sdk.GetPromptRequest) (*sdk.GetPromptResult, error) {
		res, err := handler(ctx, req.Params.Arguments)
		if err != nil {
			return nil, err
		}
		out := &sdk.GetPromptResult{Description: res.Description}
		for _, m := range res.Messages {
			out.Messages = append(out.Messages, &sdk.PromptMessage{
				Role:    sdk.Role(m.Role),
				Content: &sdk.TextContent{Text: m.Content.Text},
			})
		}
		return out, nil
	})
	return nil
}

// observe is receiving middleware that tags capability invocations with an
// ID, logs them and records metrics. Other methods pass straight through.
func (s *Server) observe(next sdk.MethodHandler) sdk.MethodHandler {
	return func(ctx context.Context, method string, req sdk.Request) (sdk.Result, error) {
		kind, name, ok := classify(req)
		if !ok {
			return next(ctx, method, req)
		}
		inv := &logctx.InvocationData{ID: uuid.NewString(), Kind: kind, Name: name}
		ctx = logctx.WithInvocationData(ctx, inv)

		start := time.Now()
		res, err := next(ctx, method, req)
		elapsed := time.Since(start)

		outcome := metrics.OutcomeOK
		if tr, isTool := res.(*sdk.CallToolResult); err != nil || (isTool && tr != nil && tr.IsError) {
			outcome = metrics.OutcomeError
		}
		s.metrics.Observe(kind, s.metricName(kind, name), outcome, elapsed)

		if err != nil {
			s.log.WarnContext(ctx, "invocation failed", slog.String("method", method), slog.String("err", err.Error()))
		} else {
			s.log.DebugContext(ctx, "invocation", slog.String("method", method), slog.String("outcome", outcome), slog.Duration("duration", elapsed))
		}
		return res, err
	}
}

// unknownName labels invocations of capabilities that were never
// registered, so client-chosen names cannot create new series.
const unknownName = "unknown"

func (s *Server) metricName(kind, name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var set map[string]struct{}
	switch kind {
	case "tool":
		set = s.tools
	case "resource":
		set = s.resources
	case "prompt":
		set = s.prompts
	}
	if _, ok := set[name]; ok {
		return name
	}
	return unknownName
}

func classify(req sdk.Request) (kind, name string, ok bool) {
	if req == nil {
		return "", "", false
	}
	switch p := req.GetParams().(type) {
	case *sdk.CallToolParamsRaw:
		if p != nil {
			return "tool", p.Name, true
		}
	case *sdk.ReadResourceParams:
		if p != nil {
			return "resource", p.URI, true
		}
	case *sdk.GetPromptParams:
		if p != nil {
			return "prompt", p.Name, true
		}
	}
	return "", "", false
}
