// Package jwtauth verifies JWT bearer access tokens against an issuer's
// published signing keys.
package jwtauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnauthorized means the token failed signature, issuer, audience or
	// time validation.
	ErrUnauthorized = errors.New("jwtauth: unauthorized")

	// ErrInsufficientScope means the token is valid but lacks a required
	// scope.
	ErrInsufficientScope = errors.New("jwtauth: insufficient_scope")
)

// Config controls token validation.
type Config struct {
	Issuer string
	// Audiences accepted in the aud claim. A token must name at least one.
	Audiences      []string
	RequiredScopes []string
	ScopeModeAny   bool // any of RequiredScopes suffices; otherwise all are needed
	AllowedAlgs    []string
	Leeway         time.Duration
	// RequireAccessTokenType enforces the RFC 9068 typ header "at+jwt".
	RequireAccessTokenType bool
}

// DefaultConfig returns RS256-only validation with a minute of clock skew.
func DefaultConfig() Config {
	return Config{
		AllowedAlgs: []string{"RS256"},
		Leeway:      60 * time.Second,
	}
}

// Principal is the authenticated subject of a valid token.
type Principal struct {
	Subject string
	Scopes  []string
	claims  jwt.MapClaims
}

// Claims decodes the raw token claims into ref.
func (p *Principal) Claims(ref any) error {
	b, err := json.Marshal(p.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, ref)
}

// Validator checks tokens with a fixed Config and key source.
type Validator struct {
	cfg    Config
	keys   jwt.Keyfunc
	parser *jwt.Parser
}

// NewValidator returns a Validator resolving signing keys through keys.
func NewValidator(cfg Config, keys jwt.Keyfunc) (*Validator, error) {
	if cfg.Issuer == "" {
		return nil, errors.New("jwtauth: issuer is required")
	}
	if len(cfg.Audiences) == 0 {
		return nil, errors.New("jwtauth: at least one audience is required")
	}
	if keys == nil {
		return nil, errors.New("jwtauth: key source is required")
	}
	if len(cfg.AllowedAlgs) == 0 {
		cfg.AllowedAlgs = DefaultConfig().AllowedAlgs
	}
	return &Validator{
		cfg:  cfg,
		keys: keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods(cfg.AllowedAlgs),
			jwt.WithExpirationRequired(),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithLeeway(cfg.Leeway),
		),
	}, nil
}

// Validate parses and verifies tok.
func (v *Validator) Validate(tok string) (*Principal, error) {
	if tok == "" {
		return nil, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}
	parsed, err := v.parser.Parse(tok, v.keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if v.cfg.RequireAccessTokenType {
		if typ, _ := parsed.Header["typ"].(string); typ != "at+jwt" && typ != "application/at+jwt" {
			return nil, fmt.Errorf("%w: invalid typ; want at+jwt", ErrUnauthorized)
		}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrUnauthorized)
	}
	aud, err := claims.GetAudience()
	if err != nil || !slices.ContainsFunc(aud, func(a string) bool { return slices.Contains(v.cfg.Audiences, a) }) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrUnauthorized)
	}
	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, fmt.Errorf("%w: missing sub", ErrUnauthorized)
	}

	scopeClaim, _ := claims["scope"].(string)
	scopes := strings.Fields(scopeClaim)
	if !v.scopesSatisfied(scopes) {
		return nil, fmt.Errorf("%w: want %s", ErrInsufficientScope, strings.Join(v.cfg.RequiredScopes, " "))
	}
	return &Principal{Subject: sub, Scopes: scopes, claims: claims}, nil
}

func (v *Validator) scopesSatisfied(have []string) bool {
	if len(v.cfg.RequiredScopes) == 0 {
		return true
	}
	if v.cfg.ScopeModeAny {
		return slices.ContainsFunc(v.cfg.RequiredScopes, func(s string) bool { return slices.Contains(have, s) })
	}
	for _, want := range v.cfg.RequiredScopes {
		if !slices.Contains(have, want) {
			return false
		}
	}
	return true
}
