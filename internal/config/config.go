// Package config loads the server configuration from a TOML file and the
// process environment. Environment values override the file; empty values
// count as absent.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/joeshaw/envdecode"
	"github.com/pelletier/go-toml/v2"
)

var (
	ErrInvalid          = errors.New("config: invalid")
	ErrReadField        = errors.New("config: cannot read file-backed field")
	ErrConflictingField = errors.New("config: field given both inline and as a file")
	ErrUnknownTransport = errors.New("config: unknown transport")
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	DefaultListen    = ":8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config is the whole configuration document.
type Config struct {
	Server    Server    `toml:"server"`
	Candidate Candidate `toml:"candidate"`
	Contact   Contact   `toml:"contact"`
	HTTP      HTTP      `toml:"http"`
	Auth      Auth      `toml:"auth"`
	Log       Log       `toml:"log"`

	// dir anchors relative *_file paths; it is the config file's directory.
	dir string
	// files records the resolved path of each file-backed field.
	files map[candidate.Field]string
}

type Server struct {
	Name      string `toml:"name" env:"MCP_SERVER_NAME"`
	Version   string `toml:"version" env:"MCP_SERVER_VERSION"`
	Transport string `toml:"transport" env:"MCP_TRANSPORT"`
}

type Candidate struct {
	Name            string `toml:"name" env:"CANDIDATE_NAME"`
	ResumeText      string `toml:"resume_text" env:"CANDIDATE_RESUME_TEXT"`
	ResumeTextFile  string `toml:"resume_text_file" env:"CANDIDATE_RESUME_TEXT_FILE"`
	ResumeURL       string `toml:"resume_url" env:"CANDIDATE_RESUME_URL"`
	LinkedInURL     string `toml:"linkedin_url" env:"CANDIDATE_LINKEDIN_URL"`
	GitHubURL       string `toml:"github_url" env:"CANDIDATE_GITHUB_URL"`
	WebsiteURL      string `toml:"website_url" env:"CANDIDATE_WEBSITE_URL"`
	WebsiteText     string `toml:"website_text" env:"CANDIDATE_WEBSITE_TEXT"`
	WebsiteTextFile string `toml:"website_text_file" env:"CANDIDATE_WEBSITE_TEXT_FILE"`
}

type Contact struct {
	Email          string `toml:"email" env:"CONTACT_EMAIL"`
	MailgunDomain  string `toml:"mailgun_domain" env:"MAILGUN_DOMAIN"`
	MailgunAPIKey  string `toml:"mailgun_api_key" env:"MAILGUN_API_KEY"`
	MailgunAPIBase string `toml:"mailgun_api_base" env:"MAILGUN_API_BASE"`
}

// Partial reports whether some but not all contact settings are present.
func (c Contact) Partial() bool {
	n := 0
	for _, v := range []string{c.Email, c.MailgunDomain, c.MailgunAPIKey} {
		if v != "" {
			n++
		}
	}
	return n > 0 && n < 3
}

type HTTP struct {
	Listen    string `toml:"listen" env:"MCP_HTTP_LISTEN"`
	PublicURL string `toml:"public_url" env:"MCP_PUBLIC_URL"`
	Metrics   bool   `toml:"metrics" env:"MCP_HTTP_METRICS"`
	Stateless bool   `toml:"stateless" env:"MCP_HTTP_STATELESS"`
}

// Auth enables bearer authentication on the HTTP transport when Issuer is
// set. A JWKSURL skips OpenID discovery.
type Auth struct {
	Issuer         string   `toml:"issuer" env:"MCP_AUTH_ISSUER"`
	Audience       string   `toml:"audience" env:"MCP_AUTH_AUDIENCE"`
	JWKSURL        string   `toml:"jwks_url" env:"MCP_AUTH_JWKS_URL"`
	RequiredScopes []string `toml:"required_scopes" env:"MCP_AUTH_REQUIRED_SCOPES"`
	Realm          string   `toml:"realm" env:"MCP_AUTH_REALM"`
}

// Enabled reports whether an issuer is configured.
func (a Auth) Enabled() bool { return a.Issuer != "" }

type Log struct {
	Level  string `toml:"level" env:"LOG_LEVEL"`
	Format string `toml:"format" env:"LOG_FORMAT"`
}

// Load reads path, if not empty, then overlays the environment, resolves
// file-backed fields and validates the result.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := Parse(data, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		c.dir = filepath.Dir(path)
	}
	if err := envdecode.Decode(c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	c.applyDefaults()
	if err := c.resolveFiles(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes a TOML document into c. Unknown keys are an error.
func Parse(data []byte, c *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

func (c *Config) applyDefaults() {
	if c.Server.Transport == "" {
		c.Server.Transport = TransportStdio
	}
	if c.HTTP.Listen == "" {
		c.HTTP.Listen = DefaultListen
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Auth.Audience == "" {
		c.Auth.Audience = c.HTTP.PublicURL
	}
}

// resolveFiles loads file-backed candidate fields into their inline
// counterparts.
func (c *Config) resolveFiles() error {
	c.files = make(map[candidate.Field]string)
	var errs []error
	for _, ff := range []struct {
		field  candidate.Field
		path   string
		inline *string
	}{
		{candidate.FieldResumeText, c.Candidate.ResumeTextFile, &c.Candidate.ResumeText},
		{candidate.FieldWebsiteText, c.Candidate.WebsiteTextFile, &c.Candidate.WebsiteText},
	} {
		if ff.path == "" {
			continue
		}
		if *ff.inline != "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrConflictingField, ff.field))
			continue
		}
		p := c.resolvePath(ff.path)
		text, err := ReadField(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %s: %w", ErrReadField, ff.field, err))
			continue
		}
		*ff.inline = text
		c.files[ff.field] = p
	}
	return errors.Join(errs...)
}

func (c *Config) resolvePath(p string) string {
	if filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

// ReadField reads a file-backed field. Surrounding whitespace is trimmed, so
// a file holding only a newline leaves the field absent.
func ReadField(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("%w %q (want stdio or http)", ErrUnknownTransport, c.Server.Transport))
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level))
	}
	if !slices.Contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format))
	}
	if c.HTTP.PublicURL != "" {
		if u, err := url.Parse(c.HTTP.PublicURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: public_url %q must be an absolute http(s) URL", ErrInvalid, c.HTTP.PublicURL))
		}
	}
	if c.Auth.Enabled() && c.Auth.Audience == "" {
		errs = append(errs, fmt.Errorf("%w: auth needs an audience or http.public_url", ErrInvalid))
	}
	return errors.Join(errs...)
}

// Profile builds the candidate profile. Values are trimmed the same way as
// file-backed fields, so whitespace-only means absent wherever it was set.
func (c *Config) Profile() *candidate.Profile {
	cc := c.Candidate
	field := func(f candidate.Field, v string) candidate.ProfileOption {
		return candidate.WithField(f, strings.TrimSpace(v))
	}
	return candidate.NewProfile(strings.TrimSpace(cc.Name),
		field(candidate.FieldResumeText, cc.ResumeText),
		field(candidate.FieldResumeURL, cc.ResumeURL),
		field(candidate.FieldLinkedInURL, cc.LinkedInURL),
		field(candidate.FieldGitHubURL, cc.GitHubURL),
		field(candidate.FieldWebsiteURL, cc.WebsiteURL),
		field(candidate.FieldWebsiteText, cc.WebsiteText),
	)
}

// Settings builds the server settings.
func (c *Config) Settings() candidate.Settings {
	return candidate.Settings{
		Name:    c.Server.Name,
		Version: c.Server.Version,
		Contact: candidate.Contact{
			Email:       c.Contact.Email,
			RelayDomain: c.Contact.MailgunDomain,
			RelayAPIKey: c.Contact.MailgunAPIKey,
		},
	}
}

// Files returns the resolved path of each file-backed field.
func (c *Config) Files() map[candidate.Field]string {
	out := make(map[candidate.Field]string, len(c.files))
	for f, p := range c.files {
		out[f] = p
	}
	return out
}
