package compose

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/catalog"
	"github.com/ggoodman/candidate-mcp-server/mailer"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
)

var (
	// ErrPairing indicates a data tool bound without its resource, or the
	// reverse.
	ErrPairing = errors.New("compose: tool/resource pairing violated")

	// ErrNoSender indicates a complete contact configuration with no mail
	// sender to deliver through.
	ErrNoSender = errors.New("compose: contact configured without a mail sender")
)

// Plan is the decision of which conditional capabilities to activate.
type Plan struct {
	Fields  []candidate.Field
	Contact bool
}

// NewPlan inspects p and s. Fields holds every populated field in canonical
// order; Contact is set only when all three contact settings are present.
func NewPlan(p *candidate.Profile, s candidate.Settings) Plan {
	return Plan{Fields: p.Present(), Contact: s.Contact.Complete()}
}

// Manifest lists what Bind registered, in registration order.
type Manifest struct {
	Tools     []string
	Resources []string
	Prompts   []string
}

// Option configures Bind.
type Option func(*options)

type options struct {
	sender mailer.Sender
	log    *slog.Logger
}

// WithSender sets the mail sender used by the contact tool.
func WithSender(s mailer.Sender) Option {
	return func(o *options) { o.sender = s }
}

// WithLogger sets the logger used while binding and by the contact tool.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Bind decides the active capability set for p and s and registers it with
// reg. Registration order is fixed:
//
//  1. for each populated field, in canonical order, its resource then its data tool
//  2. contact_candidate, when the contact settings are complete
//  3. the seven prompts
//  4. the two interview tools
//
// The first registration error aborts binding. Errors are construction
// defects and the caller should not start serving.
func Bind(reg mcpservice.Registrar, p *candidate.Profile, s candidate.Settings, opts ...Option) (Manifest, error) {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	plan := NewPlan(p, s)
	if plan.Contact && o.sender == nil {
		return Manifest{}, ErrNoSender
	}

	b := binder{reg: reg}
	for _, f := range plan.Fields {
		b.resource(catalog.Resource(p, f))
		b.tool(catalog.DataTool(p, f))
	}
	if plan.Contact {
		b.tool(catalog.ContactTool(p, s.Contact, o.sender, o.log))
	}
	for _, pr := range catalog.Prompts(p) {
		b.prompt(pr)
	}
	for _, t := range catalog.InterviewTools(p) {
		b.tool(t)
	}
	if b.err != nil {
		return Manifest{}, b.err
	}
	if err := b.m.CheckPairing(); err != nil {
		return Manifest{}, err
	}

	o.log.Debug("capabilities bound",
		slog.Int("tools", len(b.m.Tools)),
		slog.Int("resources", len(b.m.Resources)),
		slog.Int("prompts", len(b.m.Prompts)),
		slog.Bool("contact", plan.Contact),
	)
	return b.m, nil
}

// binder records registrations until the first failure.
type binder struct {
	reg mcpservice.Registrar
	m   Manifest
	err error
}

func (b *binder) tool(t mcpservice.StaticTool) {
	if b.err != nil {
		return
	}
	if err := b.reg.RegisterTool(t); err != nil {
		b.err = fmt.Errorf("binding tool %q: %w", t.Descriptor.Name, err)
		return
	}
	b.m.Tools = append(b.m.Tools, t.Descriptor.Name)
}

func (b *binder) resource(r mcpservice.StaticResource) {
	if b.err != nil {
		return
	}
	if err := b.reg.RegisterResource(r); err != nil {
		b.err = fmt.Errorf("binding resource %q: %w", r.Descriptor.URI, err)
		return
	}
	b.m.Resources = append(b.m.Resources, r.Descriptor.URI)
}

func (b *binder) prompt(p mcpservice.StaticPrompt) {
	if b.err != nil {
		return
	}
	if err := b.reg.RegisterPrompt(p); err != nil {
		b.err = fmt.Errorf("binding prompt %q: %w", p.Descriptor.Name, err)
		return
	}
	b.m.Prompts = append(b.m.Prompts, p.Descriptor.Name)
}

// CheckPairing verifies that every profile field is bound either as both a
// data tool and a resource, or as neither.
func (m Manifest) CheckPairing() error {
	var errs []error
	for _, f := range candidate.Fields() {
		hasTool := slices.Contains(m.Tools, f.ToolName())
		hasResource := slices.Contains(m.Resources, f.ResourceURI())
		switch {
		case hasTool && !hasResource:
			errs = append(errs, fmt.Errorf("%w: tool %q bound without resource %q", ErrPairing, f.ToolName(), f.ResourceURI()))
		case hasResource && !hasTool:
			errs = append(errs, fmt.Errorf("%w: resource %q bound without tool %q", ErrPairing, f.ResourceURI(), f.ToolName()))
		}
	}
	return errors.Join(errs...)
}

// Capabilities reports which capability families the manifest exposes.
func (m Manifest) Capabilities() mcp.ServerCapabilities {
	var caps mcp.ServerCapabilities
	if len(m.Tools) > 0 {
		caps.Tools = &struct{}{}
	}
	if len(m.Resources) > 0 {
		caps.Resources = &struct{}{}
	}
	if len(m.Prompts) > 0 {
		caps.Prompts = &struct{}{}
	}
	return caps
}
