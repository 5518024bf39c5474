package jwtauth

import (
	"context"
	"fmt"
	"slices"
	"strings"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
)

// Metadata is the subset of an issuer's OpenID configuration needed to
// validate tokens and advertise the issuer to clients.
type Metadata struct {
	Issuer                string   `json:"issuer"`
	JWKSURI               string   `json:"jwks_uri"`
	AuthorizationEndpoint string   `json:"authorization_endpoint"`
	TokenEndpoint         string   `json:"token_endpoint"`
	ResponseTypes         []string `json:"response_types_supported"`
	ScopesSupported       []string `json:"scopes_supported"`
	ServiceDocumentation  string   `json:"service_documentation"`
}

// Discover fetches the OpenID configuration of issuer. It fails when the
// document lacks a JWKS location or the endpoints a client needs to obtain a
// token.
func Discover(ctx context.Context, issuer string) (Metadata, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return Metadata{}, fmt.Errorf("oidc discovery failed: %w", err)
	}
	var meta Metadata
	if err := provider.Claims(&meta); err != nil {
		return Metadata{}, fmt.Errorf("invalid discovery metadata: %w", err)
	}

	var missing []string
	if meta.JWKSURI == "" {
		missing = append(missing, "jwks_uri")
	}
	if meta.AuthorizationEndpoint == "" {
		missing = append(missing, "authorization_endpoint")
	}
	if meta.TokenEndpoint == "" {
		missing = append(missing, "token_endpoint")
	}
	if len(meta.ResponseTypes) == 0 {
		missing = append(missing, "response_types_supported")
	}
	if len(missing) > 0 {
		return Metadata{}, fmt.Errorf("discovery incomplete: missing %s", strings.Join(missing, ", "))
	}
	return meta, nil
}

// RemoteKeys returns a key source backed by the JWKS at jwksURI, refreshed in
// the background until ctx ends. Keys whose algorithm is not in allowed are
// refused before lookup.
func RemoteKeys(ctx context.Context, jwksURI string, allowed []string) (jwt.Keyfunc, error) {
	kf, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURI})
	if err != nil {
		return nil, fmt.Errorf("jwks init failed: %w", err)
	}
	return func(t *jwt.Token) (any, error) {
		if alg := t.Method.Alg(); !slices.Contains(allowed, alg) {
			return nil, fmt.Errorf("disallowed alg: %s", alg)
		}
		return kf.Keyfunc(t)
	}, nil
}
