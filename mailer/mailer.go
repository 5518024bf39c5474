// Package mailer delivers the single kind of outbound message the server
// sends: a note from a client, relayed to the candidate.
package mailer

import (
	"context"
	"errors"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	ReplyTo string
}

// Validate reports missing addressing fields.
func (m Message) Validate() error {
	var errs []error
	if m.From == "" {
		errs = append(errs, errors.New("from address is required"))
	}
	if m.To == "" {
		errs = append(errs, errors.New("to address is required"))
	}
	return errors.Join(errs...)
}

// Sender performs one delivery attempt.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, m Message) error

func (f SenderFunc) Send(ctx context.Context, m Message) error { return f(ctx, m) }
