package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailgun relays messages through the Mailgun HTTP API.
type Mailgun struct {
	mg  *mailgun.MailgunImpl
	log *slog.Logger
}

// Option configures a Mailgun sender.
type Option func(*Mailgun)

// WithAPIBase points the client at a different API base, such as
// mailgun.APIBaseEU or a test server. The address must include the /v3 suffix.
func WithAPIBase(base string) Option {
	return func(m *Mailgun) { m.mg.SetAPIBase(base) }
}

// WithHTTPClient replaces the HTTP client used for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Mailgun) { m.mg.SetClient(c) }
}

// WithLogger sets the logger used to record deliveries.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mailgun) { m.log = l }
}

// NewMailgun constructs a sender for the given sending domain. The API key is
// held by the client and never logged.
func NewMailgun(domain, apiKey string, opts ...Option) (*Mailgun, error) {
	if domain == "" {
		return nil, errors.New("mailgun domain is required")
	}
	if apiKey == "" {
		return nil, errors.New("mailgun api key is required")
	}
	m := &Mailgun{mg: mailgun.NewMailgun(domain, apiKey), log: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Send implements Sender.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	out := m.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	if msg.ReplyTo != "" {
		out.SetReplyTo(msg.ReplyTo)
	}
	_, id, err := m.mg.Send(ctx, out)
	if err != nil {
		return fmt.Errorf("mailgun: %w", err)
	}
	m.log.DebugContext(ctx, "mail relayed", slog.String("domain", m.mg.Domain()), slog.String("id", id))
	return nil
}

var _ Sender = (*Mailgun)(nil)
