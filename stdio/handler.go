package stdio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler serves one MCP client over a pair of byte streams, by default
// os.Stdin and os.Stdout. Messages are newline-delimited JSON-RPC.
//
// The handler is transport-only; tools, resources and prompts live on the
// server it was constructed with.
type Handler struct {
	srv *sdk.Server

	r io.Reader
	w io.Writer
	l *slog.Logger

	userProvider UserProvider
}

// NewHandler constructs a stdio Handler with defaults and applies options.
func NewHandler(srv *sdk.Server, opts ...Option) *Handler {
	h := &Handler{
		srv:          srv,
		r:            os.Stdin,
		w:            os.Stdout,
		l:            slog.Default(),
		userProvider: OSUserProvider{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve runs the session until the peer closes its input or ctx is
// canceled. A clean end of input is not an error.
func (h *Handler) Serve(ctx context.Context) error {
	peer, err := h.userProvider.CurrentUserID()
	if err != nil {
		h.l.WarnContext(ctx, "stdio.peer.unknown", slog.String("err", err.Error()))
		peer = "unknown"
	}
	h.l.InfoContext(ctx, "stdio.serve.start", slog.String("peer", peer))

	err = h.srv.Run(ctx, h.transport())
	switch {
	case err == nil, errors.Is(err, io.EOF):
		h.l.InfoContext(ctx, "stdio.serve.eof")
		return nil
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		h.l.InfoContext(ctx, "stdio.serve.canceled")
		return nil
	default:
		return err
	}
}

func (h *Handler) transport() sdk.Transport {
	if h.r == os.Stdin && h.w == os.Stdout {
		return &sdk.StdioTransport{}
	}
	return &sdk.IOTransport{Reader: readCloser(h.r), Writer: writeCloser(h.w)}
}

func readCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func writeCloser(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{w}
}
