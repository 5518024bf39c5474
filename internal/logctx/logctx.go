package logctx

import (
	"context"
	"log/slog"
)

// Handler decorates records with request and invocation details carried in
// the context.
type Handler struct {
	slog.Handler
}

// Wrap returns h decorated with context attributes.
func Wrap(h slog.Handler) Handler { return Handler{Handler: h} }

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		r.AddAttrs(slog.Group("req",
			slog.String("id", rd.RequestID),
			slog.String("method", rd.Method),
			slog.String("user_agent", rd.UserAgent),
			slog.String("remote_addr", rd.RemoteAddr),
			slog.String("path", rd.Path),
		))
	}

	if id, ok := ctx.Value(invocationDataKey{}).(*InvocationData); ok {
		r.AddAttrs(slog.Group("invocation",
			slog.String("id", id.ID),
			slog.String("kind", id.Kind),
			slog.String("name", id.Name),
		))
	}

	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type requestDataKey struct{}

type RequestData struct {
	RequestID  string
	Method     string
	UserAgent  string
	RemoteAddr string
	Path       string
}

func WithRequestData(ctx context.Context, data *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, data)
}

type invocationDataKey struct{}

// InvocationData identifies one capability invocation.
type InvocationData struct {
	ID   string
	Kind string // tool, resource or prompt
	Name string
}

func WithInvocationData(ctx context.Context, data *InvocationData) context.Context {
	return context.WithValue(ctx, invocationDataKey{}, data)
}

// Invocation returns the invocation data in ctx, if any.
func Invocation(ctx context.Context) (*InvocationData, bool) {
	id, ok := ctx.Value(invocationDataKey{}).(*InvocationData)
	return id, ok
}
