// Package auth verifies bearer tokens for the HTTP transport. The server
// delegates authorization to an external OAuth 2.0 / OpenID Connect
// authorization server and only checks the JWT access tokens it issues.
//
// An Authenticator validates a token string and returns a UserInfo. The
// transport extracts the token from the request and maps the sentinel errors
// to HTTP challenges:
//
//	authn, err := auth.NewFromDiscovery(ctx, "https://issuer.example", "https://candidate.example/mcp",
//	    auth.WithRequiredScopes("candidate:read"),
//	)
//	if err != nil { return err }
//
//	ui, err := authn.CheckAuthentication(r.Context(), bearerToken)
//	if errors.Is(err, auth.ErrUnauthorized) { /* 401 invalid_token */ }
//	if errors.Is(err, auth.ErrInsufficientScope) { /* 403 insufficient_scope */ }
//
// NewStatic skips discovery when the JWKS URL is configured directly.
//
// By default only RS256 is accepted and a minute of clock skew is tolerated;
// WithAllowedAlgs and WithLeeway change that.
package auth
