package candidate

import (
	"fmt"
	"log/slog"
)

const (
	DefaultServerName    = "Candidate MCP Server"
	DefaultServerVersion = "1.0.0"
)

// Settings describes the server itself. The zero value is usable; empty name
// and version fall back to the defaults through ServerName and ServerVersion.
type Settings struct {
	Name    string
	Version string
	Contact Contact
}

// ServerName returns the configured name or DefaultServerName.
func (s Settings) ServerName() string {
	if s.Name == "" {
		return DefaultServerName
	}
	return s.Name
}

// ServerVersion returns the configured version or DefaultServerVersion.
func (s Settings) ServerVersion() string {
	if s.Version == "" {
		return DefaultServerVersion
	}
	return s.Version
}

// Contact configures outbound email to the candidate through a mail relay.
type Contact struct {
	Email       string
	RelayDomain string
	RelayAPIKey string
}

// Complete reports whether all three contact fields are set. Partial
// configuration means the contact capability is not offered at all.
func (c Contact) Complete() bool {
	return c.Email != "" && c.RelayDomain != "" && c.RelayAPIKey != ""
}

// Sender is the from address used for relayed messages.
func (c Contact) Sender() string {
	return fmt.Sprintf("AI Assistant <ai-assistant@%s>", c.RelayDomain)
}

func (c Contact) redactedKey() string {
	if c.RelayAPIKey == "" {
		return ""
	}
	return "[redacted]"
}

func (c Contact) String() string {
	return fmt.Sprintf("Contact{Email:%q RelayDomain:%q RelayAPIKey:%q}", c.Email, c.RelayDomain, c.redactedKey())
}

// LogValue keeps the relay credential out of structured logs.
func (c Contact) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", c.Email),
		slog.String("relay_domain", c.RelayDomain),
		slog.String("relay_api_key", c.redactedKey()),
		slog.Bool("complete", c.Complete()),
	)
}
