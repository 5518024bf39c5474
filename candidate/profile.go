package candidate

import (
	"fmt"
	"strings"
	"sync"
)

// DefaultName is the display name used when none is configured.
const DefaultName = "Candidate"

// ResourceScheme prefixes every readable profile field identifier.
const ResourceScheme = "candidate-info"

// Field identifies one of the optional content fields of a Profile.
type Field int

const (
	FieldResumeText Field = iota
	FieldResumeURL
	FieldLinkedInURL
	FieldGitHubURL
	FieldWebsiteURL
	FieldWebsiteText
)

type fieldInfo struct {
	slug  string
	label string
	title string
}

// fieldTable is indexed by Field and holds the canonical order.
var fieldTable = [...]fieldInfo{
	FieldResumeText:  {slug: "resume-text", label: "resume text", title: "Resume Text"},
	FieldResumeURL:   {slug: "resume-url", label: "resume URL", title: "Resume URL"},
	FieldLinkedInURL: {slug: "linkedin-url", label: "LinkedIn URL", title: "LinkedIn Profile URL"},
	FieldGitHubURL:   {slug: "github-url", label: "GitHub URL", title: "GitHub Profile URL"},
	FieldWebsiteURL:  {slug: "website-url", label: "website URL", title: "Website URL"},
	FieldWebsiteText: {slug: "website-text", label: "website text", title: "Website Text"},
}

// Fields returns every optional field in canonical order.
func Fields() []Field {
	out := make([]Field, len(fieldTable))
	for i := range fieldTable {
		out[i] = Field(i)
	}
	return out
}

// ParseField returns the field whose slug is s.
func ParseField(s string) (Field, bool) {
	for i, fi := range fieldTable {
		if fi.slug == s {
			return Field(i), true
		}
	}
	return 0, false
}

func (f Field) valid() bool { return f >= 0 && int(f) < len(fieldTable) }

func (f Field) info() fieldInfo {
	if !f.valid() {
		return fieldInfo{slug: fmt.Sprintf("field-%d", int(f))}
	}
	return fieldTable[f]
}

// Slug is the canonical kebab-case name of the field. Tool names and resource
// URIs are both derived from it.
func (f Field) Slug() string { return f.info().slug }

// Label is the lower-case human name used in descriptions.
func (f Field) Label() string { return f.info().label }

// Title is the title-case name used for resource names.
func (f Field) Title() string { return f.info().title }

func (f Field) String() string { return f.Slug() }

// ToolName returns the identifier of the data tool that exposes f.
func (f Field) ToolName() string {
	return "get_" + strings.ReplaceAll(f.Slug(), "-", "_")
}

// ResourceURI returns the identifier of the readable resource that exposes f.
func (f Field) ResourceURI() string {
	return ResourceScheme + "://" + f.Slug()
}

// Unavailable is the text returned when a field is read while empty.
func (f Field) Unavailable() string {
	label := f.Label()
	if label == "" {
		return "Not available"
	}
	return strings.ToUpper(label[:1]) + label[1:] + " not available"
}

// Profile describes the candidate being represented. A Profile is shared by
// pointer between the capabilities bound for it, so values written with Set
// are visible to the next read. It is safe for concurrent use.
type Profile struct {
	mu     sync.RWMutex
	name   string
	fields [len(fieldTable)]string
}

// ProfileOption configures a Profile at construction.
type ProfileOption func(*Profile)

// WithField sets the initial value of f.
func WithField(f Field, v string) ProfileOption {
	return func(p *Profile) {
		if f.valid() {
			p.fields[f] = v
		}
	}
}

// NewProfile constructs a profile for the named candidate. A blank name falls
// back to DefaultName.
func NewProfile(name string, opts ...ProfileOption) *Profile {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	p := &Profile{name: name}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the candidate display name.
func (p *Profile) Name() string { return p.name }

// Get returns the current value of f, or "" when absent.
func (p *Profile) Get(f Field) string {
	if !f.valid() {
		return ""
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fields[f]
}

// Has reports whether f currently holds a non-empty value.
func (p *Profile) Has(f Field) bool { return p.Get(f) != "" }

// Set replaces the value of f. Setting "" makes the field absent.
func (p *Profile) Set(f Field, v string) {
	if !f.valid() {
		return
	}
	p.mu.Lock()
	p.fields[f] = v
	p.mu.Unlock()
}

// Present returns the fields that currently hold a value, in canonical order.
func (p *Profile) Present() []Field {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []Field
	for i, v := range p.fields {
		if v != "" {
			out = append(out, Field(i))
		}
	}
	return out
}
