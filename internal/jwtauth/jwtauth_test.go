package jwtauth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

const testAudience = "https://candidate.example.com/mcp"

type mockOIDC struct {
	srv       *httptest.Server
	issuer    string
	metaExtra map[string]any
}

func newMockOIDC(t *testing.T, keysJSON []byte, metaExtra map[string]any) *mockOIDC {
	t.Helper()
	m := &mockOIDC{metaExtra: metaExtra}
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		meta := map[string]any{
			"issuer":                   m.issuer,
			"jwks_uri":                 m.issuer + "/keys",
			"authorization_endpoint":   m.issuer + "/oauth2/auth",
			"token_endpoint":           m.issuer + "/oauth2/token",
			"response_types_supported": []string{"code"},
			"scopes_supported":         []string{"candidate:read"},
		}
		for k, v := range m.metaExtra {
			meta[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(meta)
	})
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(keysJSON)
	})
	m.srv = httptest.NewServer(mux)
	m.issuer = m.srv.URL
	t.Cleanup(m.srv.Close)
	return m
}

func genRSA(t *testing.T) (*rsa.PrivateKey, string, []byte) {
	t.Helper()
	pk, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("gen key: %v", err)
	}
	kid := "test-key"
	set := struct {
		Keys []jose.JSONWebKey `json:"keys"`
	}{Keys: []jose.JSONWebKey{{Key: &pk.PublicKey, KeyID: kid, Algorithm: "RS256", Use: "sig"}}}
	b, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal jwks: %v", err)
	}
	return pk, kid, b
}

func signToken(t *testing.T, pk *rsa.PrivateKey, kid, typ string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	if typ != "" {
		tok.Header["typ"] = typ
	}
	s, err := tok.SignedString(pk)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

// newValidator discovers the mock issuer and builds a validator for it.
func newValidator(t *testing.T, m *mockOIDC, mutate func(*Config)) *Validator {
	t.Helper()
	meta, err := Discover(t.Context(), m.issuer)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	cfg := DefaultConfig()
	cfg.Issuer = meta.Issuer
	cfg.Audiences = []string{testAudience}
	cfg.Leeway = 0
	if mutate != nil {
		mutate(&cfg)
	}
	keys, err := RemoteKeys(t.Context(), meta.JWKSURI, cfg.AllowedAlgs)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	v, err := NewValidator(cfg, keys)
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	return v
}

func claimsFor(issuer string, aud any) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":   issuer,
		"sub":   "recruiter-1",
		"aud":   aud,
		"exp":   now.Add(time.Hour).Unix(),
		"iat":   now.Unix(),
		"scope": "candidate:read profile",
	}
}

func TestValidator_HappyPath(t *testing.T) {
	t.Parallel()

	pk, kid, jwks := genRSA(t)
	m := newMockOIDC(t, jwks, nil)
	v := newValidator(t, m, nil)

	p, err := v.Validate(signToken(t, pk, kid, "at+jwt", claimsFor(m.issuer, testAudience)))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if p.Subject != "recruiter-1" {
		t.Fatalf("want sub recruiter-1, got %s", p.Subject)
	}
	var out struct {
		Scope string `json:"scope"`
	}
	if err := p.Claims(&out); err != nil {
		t.Fatalf("claims: %v", err)
	}
	if out.Scope != "candidate:read profile" {
		t.Fatalf("scope roundtrip mismatch: %q", out.Scope)
	}
}

func TestValidator_AudienceArray(t *testing.T) {
	t.Parallel()

	pk, kid, jwks := genRSA(t)
	m := newMockOIDC(t, jwks, nil)
	v := newValidator(t, m, nil)

	tok := signToken(t, pk, kid, "", claimsFor(m.issuer, []string{"https://other", testAudience}))
	if _, err := v.Validate(tok); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidator_Rejections(t *testing.T) {
	t.Parallel()

	pk, kid, jwks := genRSA(t)
	m := newMockOIDC(t, jwks, nil)
	v := newValidator(t, m, nil)

	expired := claimsFor(m.issuer, testAudience)
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	noSub := claimsFor(m.issuer, testAudience)
	delete(noSub, "sub")
	noExp := claimsFor(m.issuer, testAudience)
	delete(noExp, "exp")

	other, _, _ := genRSA(t)

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-jwt",
		"wrong audience": signToken(t, pk, kid, "", claimsFor(m.issuer, "https://elsewhere")),
		"wrong issuer":   signToken(t, pk, kid, "", claimsFor("https://evil.example", testAudience)),
		"expired":        signToken(t, pk, kid, "", expired),
		"missing exp":    signToken(t, pk, kid, "", noExp),
		"missing sub":    signToken(t, pk, kid, "", noSub),
		"wrong key":      signToken(t, other, kid, "", claimsFor(m.issuer, testAudience)),
	}
	for name, tok := range cases {
		if _, err := v.Validate(tok); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s: want ErrUnauthorized, got %v", name, err)
		}
	}
}

func TestValidator_AccessTokenType(t *testing.T) {
	t.Parallel()

	pk, kid, jwks := genRSA(t)
	m := newMockOIDC(t, jwks, nil)
	v := newValidator(t, m, func(c *Config) { c.RequireAccessTokenType = true })

	if _, err := v.Validate(signToken(t, pk, kid, "JWT", claimsFor(m.issuer, testAudience))); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized for typ JWT, got %v", err)
	}
	if _, err := v.Validate(signToken(t, pk, kid, "at+jwt", claimsFor(m.issuer, testAudience))); err != nil {
		t.Fatalf("want at+jwt accepted, got %v", err)
	}
}

func TestValidator_Scopes(t *testing.T) {
	t.Parallel()

	pk, kid, jwks := genRSA(t)
	m := newMockOIDC(t, jwks, nil)
	tok := signToken(t, pk, kid, "", claimsFor(m.issuer, testAudience))

	all := newValidator(t, m, func(c *Config) { c.RequiredScopes = []string{"candidate:read", "candidate:contact"} })
	if _, err := all.Validate(tok); !errors.Is(err, ErrInsufficientScope) {
		t.Fatalf("want ErrInsufficientScope, got %v", err)
	}

	anyOf := newValidator(t, m, func(c *Config) {
		c.RequiredScopes = []string{"candidate:read", "candidate:contact"}
		c.ScopeModeAny = true
	})
	p, err := anyOf.Validate(tok)
	if err != nil {
		t.Fatalf("want any-of scope accepted, got %v", err)
	}
	if len(p.Scopes) != 2 {
		t.Fatalf("want 2 scopes, got %v", p.Scopes)
	}
}

func TestDiscover_MissingRequired(t *testing.T) {
	t.Parallel()

	_, _, jwks := genRSA(t)
	m := newMockOIDC(t, jwks, map[string]any{"token_endpoint": ""})
	if _, err := Discover(t.Context(), m.issuer); err == nil {
		t.Fatalf("want error for missing token_endpoint")
	}
}

func TestNewValidator_RequiresFields(t *testing.T) {
	t.Parallel()

	keys := func(*jwt.Token) (any, error) { return nil, nil }
	if _, err := NewValidator(Config{Audiences: []string{"a"}}, keys); err == nil {
		t.Fatalf("want error for missing issuer")
	}
	if _, err := NewValidator(Config{Issuer: "https://issuer"}, keys); err == nil {
		t.Fatalf("want error for missing audience")
	}
	if _, err := NewValidator(Config{Issuer: "https://issuer", Audiences: []string{"a"}}, nil); err == nil {
		t.Fatalf("want error for missing key source")
	}
}
