package auth

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/ggoodman/candidate-mcp-server/internal/jwtauth"
)

// AccessTokenAuthOption configures optional aspects of the JWT access token
// authenticator.
type AccessTokenAuthOption func(*jwtauth.Config)

// WithRequiredScopes requires all of the provided scopes to be present in the
// space-delimited "scope" claim.
func WithRequiredScopes(scopes ...string) AccessTokenAuthOption {
	return func(c *jwtauth.Config) {
		c.RequiredScopes = slices.Clone(scopes)
		c.ScopeModeAny = false
	}
}

// WithAnyRequiredScope requires at least one of the provided scopes.
func WithAnyRequiredScope(scopes ...string) AccessTokenAuthOption {
	return func(c *jwtauth.Config) {
		c.RequiredScopes = slices.Clone(scopes)
		c.ScopeModeAny = true
	}
}

// WithAllowedAlgs restricts allowed JWS algorithms. Defaults to ["RS256"].
func WithAllowedAlgs(algs ...string) AccessTokenAuthOption {
	return func(c *jwtauth.Config) { c.AllowedAlgs = slices.Clone(algs) }
}

// WithLeeway sets clock skew tolerance for time-based claims.
func WithLeeway(d time.Duration) AccessTokenAuthOption {
	return func(c *jwtauth.Config) { c.Leeway = d }
}

// WithAccessTokenType rejects tokens whose typ header is not "at+jwt".
func WithAccessTokenType() AccessTokenAuthOption {
	return func(c *jwtauth.Config) { c.RequireAccessTokenType = true }
}

// Provider authenticates JWT access tokens for one issuer and audience.
type Provider struct {
	v   *jwtauth.Validator
	sec Security
}

var (
	_ Authenticator      = (*Provider)(nil)
	_ SecurityDescriptor = (*Provider)(nil)
)

// NewFromDiscovery returns a Provider whose issuer metadata and signing keys
// are found through OpenID Connect discovery. Keys refresh in the background
// until ctx ends.
//
// audience is the expected "aud" claim, typically the public MCP endpoint URL.
func NewFromDiscovery(ctx context.Context, issuer, audience string, opts ...AccessTokenAuthOption) (*Provider, error) {
	meta, err := jwtauth.Discover(ctx, issuer)
	if err != nil {
		return nil, err
	}
	p, err := newProvider(ctx, meta.Issuer, audience, meta.JWKSURI, opts)
	if err != nil {
		return nil, err
	}
	p.sec.ScopesSupported = slices.Clone(meta.ScopesSupported)
	p.sec.ServiceDocumentation = meta.ServiceDocumentation
	return p, nil
}

// NewStatic returns a Provider for an issuer whose JWKS location is known, so
// no discovery request is made.
func NewStatic(ctx context.Context, issuer, audience, jwksURI string, opts ...AccessTokenAuthOption) (*Provider, error) {
	if jwksURI == "" {
		return nil, errors.New("auth: jwks uri is required")
	}
	return newProvider(ctx, issuer, audience, jwksURI, opts)
}

func newProvider(ctx context.Context, issuer, audience, jwksURI string, opts []AccessTokenAuthOption) (*Provider, error) {
	if audience == "" {
		return nil, errors.New("auth: audience is required")
	}
	cfg := jwtauth.DefaultConfig()
	cfg.Issuer = issuer
	cfg.Audiences = []string{audience}
	for _, opt := range opts {
		opt(&cfg)
	}
	keys, err := jwtauth.RemoteKeys(ctx, jwksURI, cfg.AllowedAlgs)
	if err != nil {
		return nil, err
	}
	v, err := jwtauth.NewValidator(cfg, keys)
	if err != nil {
		return nil, err
	}
	return &Provider{v: v, sec: Security{Issuer: issuer}}, nil
}

// CheckAuthentication implements Authenticator.
func (p *Provider) CheckAuthentication(ctx context.Context, tok string) (UserInfo, error) {
	principal, err := p.v.Validate(tok)
	if err != nil {
		if errors.Is(err, jwtauth.ErrInsufficientScope) {
			return nil, errors.Join(ErrInsufficientScope, err)
		}
		return nil, errors.Join(ErrUnauthorized, err)
	}
	return userInfo{p: principal}, nil
}

// Security implements SecurityDescriptor.
func (p *Provider) Security() Security {
	sec := p.sec
	sec.ScopesSupported = slices.Clone(p.sec.ScopesSupported)
	return sec
}

type userInfo struct{ p *jwtauth.Principal }

func (u userInfo) UserID() string       { return u.p.Subject }
func (u userInfo) Claims(ref any) error { return u.p.Claims(ref) }
