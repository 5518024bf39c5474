package streaminghttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	"github.com/ggoodman/candidate-mcp-server/auth"
	"github.com/ggoodman/candidate-mcp-server/internal/logctx"
	"github.com/ggoodman/candidate-mcp-server/internal/wellknown"
	"github.com/google/uuid"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

var _ http.Handler = (*StreamingHTTPHandler)(nil)

var jsonMediaType = contenttype.NewMediaType("application/json")

const (
	authorizationHeader   = "Authorization"
	wwwAuthenticateHeader = "WWW-Authenticate"

	// DefaultEndpoint is the MCP path used when no public endpoint is set.
	DefaultEndpoint = "http://localhost/mcp"
)

// writeJSONError emits a minimal JSON body for HTTP-layer rejections made
// before any JSON-RPC exchange. Shape: {"error":{"code":<status>,"message":"<reason>"}}
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", jsonMediaType.String())
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": msg}})
}

// Option configures the StreamingHTTPHandler.
type Option func(*newConfig)

type newConfig struct {
	publicEndpoint string
	serverName     string
	logger         *slog.Logger
	authenticator  auth.Authenticator
	metrics        http.Handler
	realm          string
	stateless      bool
}

// WithPublicEndpoint sets the externally visible URL of the MCP endpoint.
// Its path is where the endpoint is mounted and its full form is the
// resource identifier advertised in protected resource metadata.
func WithPublicEndpoint(u string) Option {
	return func(c *newConfig) { c.publicEndpoint = u }
}

// WithServerName sets a human-readable name surfaced in protected resource
// metadata.
func WithServerName(name string) Option {
	return func(c *newConfig) { c.serverName = name }
}

// WithLogger sets the logger used by the handler.
func WithLogger(l *slog.Logger) Option {
	return func(c *newConfig) { c.logger = l }
}

// WithAuthenticator requires a valid bearer token on every MCP request and
// publishes protected resource metadata. Without it the endpoint is open.
func WithAuthenticator(a auth.Authenticator) Option {
	return func(c *newConfig) { c.authenticator = a }
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *newConfig) { c.metrics = h }
}

// WithRealm sets the realm advertised in WWW-Authenticate challenges. Empty
// omits the attribute.
func WithRealm(realm string) Option {
	return func(c *newConfig) { c.realm = strings.TrimSpace(realm) }
}

// WithStateless serves every request without a session. The server never
// initiates requests to the client, so nothing is lost.
func WithStateless(stateless bool) Option {
	return func(c *newConfig) { c.stateless = stateless }
}

// buildBearerChallenge builds a WWW-Authenticate header value:
//
//	Bearer realm="<realm>", resource_metadata="<url>", error="...", error_description="..."
//
// Empty attributes are omitted.
func buildBearerChallenge(realm, resourceMetadata, errCode, errDesc string) string {
	esc := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace
	var pieces []string
	for _, kv := range [][2]string{
		{"realm", realm},
		{"resource_metadata", resourceMetadata},
		{"error", errCode},
		{"error_description", errDesc},
	} {
		if kv[1] != "" {
			pieces = append(pieces, fmt.Sprintf(`%s="%s"`, kv[0], esc(kv[1])))
		}
	}
	if len(pieces) == 0 {
		return "Bearer"
	}
	return "Bearer " + strings.Join(pieces, ", ")
}

// StreamingHTTPHandler serves the MCP streamable HTTP transport along with
// health, metrics and OAuth discovery endpoints.
type StreamingHTTPHandler struct {
	mux  *http.ServeMux
	log  *slog.Logger
	auth auth.Authenticator

	prmDocument    wellknown.ProtectedResourceMetadata
	prmDocumentURL *url.URL
	realm          string
}

// New constructs a handler serving server. Routes:
//
//	POST|GET|DELETE <endpoint path>   MCP streamable HTTP
//	GET /healthz                      liveness
//	GET /metrics                      when WithMetricsHandler is set
//	GET /.well-known/oauth-protected-resource<endpoint path>
//	                                  when WithAuthenticator is set
func New(server *sdk.Server, opts ...Option) (*StreamingHTTPHandler, error) {
	if server == nil {
		return nil, errors.New("server is required")
	}
	cfg := &newConfig{publicEndpoint: DefaultEndpoint, logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	mcpURL, err := url.Parse(cfg.publicEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid public endpoint %q: %w", cfg.publicEndpoint, err)
	}
	if mcpURL.Scheme != "https" && mcpURL.Scheme != "http" {
		return nil, fmt.Errorf("public endpoint must use HTTP or HTTPS scheme, got %q", mcpURL.Scheme)
	}

	lh := cfg.logger.Handler()
	if _, wrapped := lh.(logctx.Handler); !wrapped {
		lh = logctx.Wrap(lh)
	}
	h := &StreamingHTTPHandler{
		log:   slog.New(lh),
		auth:  cfg.authenticator,
		realm: cfg.realm,
	}

	mcpHandler := sdk.NewStreamableHTTPHandler(func(*http.Request) *sdk.Server {
		return server
	}, &sdk.StreamableHTTPOptions{Stateless: cfg.stateless})

	mux := http.NewServeMux()
	path := pathOnly(mcpURL)
	mux.Handle("POST "+path, h.requireJSON(h.authenticate(mcpHandler)))
	mux.Handle("GET "+path, h.authenticate(mcpHandler))
	mux.Handle("DELETE "+path, h.authenticate(mcpHandler))
	mux.HandleFunc("GET /healthz", h.handleHealthz)
	if cfg.metrics != nil {
		mux.Handle("GET /metrics", cfg.metrics)
	}

	if h.auth != nil {
		h.prmDocumentURL = &url.URL{Scheme: mcpURL.Scheme, Host: mcpURL.Host, Path: "/.well-known/oauth-protected-resource" + strings.TrimSuffix(path, "/")}
		h.prmDocument = wellknown.ProtectedResourceMetadata{
			Resource:               mcpURL.String(),
			BearerMethodsSupported: []string{"header"},
			ResourceName:           cfg.serverName,
		}
		if sd, ok := h.auth.(auth.SecurityDescriptor); ok {
			sec := sd.Security()
			h.prmDocument.AuthorizationServers = []string{sec.Issuer}
			h.prmDocument.ScopesSupported = sec.ScopesSupported
			h.prmDocument.ResourceDocumentation = sec.ServiceDocumentation
		}
		prmPath := h.prmDocumentURL.Path
		mux.HandleFunc("GET "+prmPath, h.handleGetProtectedResourceMetadata)
		mux.HandleFunc("OPTIONS "+prmPath, h.handleOptionsProtectedResourceMetadata)
	}

	h.mux = mux
	return h, nil
}

// pathOnly returns just the URL path or "/" if empty.
func pathOnly(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// ResourceMetadataURL returns the protected resource metadata location, or
// nil when the endpoint is unauthenticated.
func (h *StreamingHTTPHandler) ResourceMetadataURL() *url.URL {
	return h.prmDocumentURL
}

func (h *StreamingHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := logctx.WithRequestData(r.Context(), &logctx.RequestData{
		RequestID:  uuid.NewString(),
		Method:     r.Method,
		UserAgent:  r.UserAgent(),
		RemoteAddr: r.RemoteAddr,
		Path:       r.URL.Path,
	})
	h.mux.ServeHTTP(w, r.WithContext(ctx))
	h.log.DebugContext(ctx, "http.request.end", slog.Duration("dur", time.Since(start)))
}

func (h *StreamingHTTPHandler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

// requireJSON rejects POST bodies that are not application/json.
func (h *StreamingHTTPHandler) requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctype, err := contenttype.GetMediaType(r)
		if err != nil || !ctype.Matches(jsonMediaType) {
			h.log.WarnContext(r.Context(), "content_type.unsupported", slog.String("content_type", r.Header.Get("Content-Type")))
			writeJSONError(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate enforces bearer authentication when an authenticator is
// configured.
func (h *StreamingHTTPHandler) authenticate(next http.Handler) http.Handler {
	if h.auth == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userInfo := h.checkAuthentication(ctx, r, w)
		if userInfo == nil {
			return
		}
		h.log.DebugContext(ctx, "auth.ok", slog.String("user", userInfo.UserID()))
		next.ServeHTTP(w, r)
	})
}

func (h *StreamingHTTPHandler) checkAuthentication(ctx context.Context, r *http.Request, w http.ResponseWriter) auth.UserInfo {
	prm := h.prmDocumentURL.String()
	challenge := func(status int, code, desc string) {
		w.Header().Add(wwwAuthenticateHeader, buildBearerChallenge(h.realm, prm, code, desc))
		writeJSONError(w, status, http.StatusText(status))
	}

	authHeader := r.Header.Get(authorizationHeader)
	if authHeader == "" {
		// RFC 6750 section 3.1: no error code when no credentials were sent.
		h.log.InfoContext(ctx, "auth.check.missing")
		challenge(http.StatusUnauthorized, "", "")
		return nil
	}

	scheme, tok, ok := strings.Cut(authHeader, " ")
	tok = strings.TrimSpace(tok)
	if !ok || !strings.EqualFold(scheme, "Bearer") || tok == "" {
		h.log.InfoContext(ctx, "auth.check.invalid", slog.String("err", "malformed bearer authorization header"))
		challenge(http.StatusBadRequest, "invalid_request", "malformed bearer authorization header")
		return nil
	}

	userInfo, err := h.auth.CheckAuthentication(ctx, tok)
	switch {
	case err == nil:
		return userInfo
	case errors.Is(err, auth.ErrInsufficientScope):
		h.log.InfoContext(ctx, "auth.check.fail", slog.String("err", err.Error()))
		challenge(http.StatusForbidden, "insufficient_scope", "token lacks a required scope")
	case errors.Is(err, auth.ErrUnauthorized):
		h.log.InfoContext(ctx, "auth.check.fail", slog.String("err", err.Error()))
		challenge(http.StatusUnauthorized, "invalid_token", "token validation failed")
	default:
		h.log.ErrorContext(ctx, "auth.check.err", slog.String("err", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "authentication unavailable")
	}
	return nil
}

func (h *StreamingHTTPHandler) handleOptionsProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")
	w.Header().Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusNoContent)
}

// handleGetProtectedResourceMetadata serves the OAuth 2.0 Protected Resource
// Metadata document (RFC 9728).
func (h *StreamingHTTPHandler) handleGetProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Vary", "Origin")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.prmDocument); err != nil {
		h.log.ErrorContext(r.Context(), "prm.encode.fail", slog.String("err", err.Error()))
	}
}
