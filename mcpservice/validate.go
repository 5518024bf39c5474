package mcpservice

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateTool reports every problem with a tool descriptor, joined.
func ValidateTool(t StaticTool) error {
	var errs []error
	d := t.Descriptor
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("tool name is empty"))
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, fmt.Errorf("tool %q has no description", d.Name))
	}
	if t.Handler == nil {
		errs = append(errs, fmt.Errorf("tool %q has no handler", d.Name))
	}
	if d.InputSchema.Type != "object" {
		errs = append(errs, fmt.Errorf("tool %q input schema must have type \"object\", got %q", d.Name, d.InputSchema.Type))
	}
	for _, req := range d.InputSchema.Required {
		if _, ok := d.InputSchema.Properties[req]; !ok {
			errs = append(errs, fmt.Errorf("tool %q requires undeclared property %q", d.Name, req))
		}
	}
	return wrapInvalid(errs)
}

// ValidateResource reports every problem with a resource descriptor, joined.
func ValidateResource(r StaticResource) error {
	var errs []error
	d := r.Descriptor
	if d.URI == "" {
		errs = append(errs, errors.New("resource uri is empty"))
	} else if u, err := url.Parse(d.URI); err != nil {
		errs = append(errs, fmt.Errorf("resource uri %q: %w", d.URI, err))
	} else if u.Scheme == "" {
		errs = append(errs, fmt.Errorf("resource uri %q has no scheme", d.URI))
	}
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, fmt.Errorf("resource %q has no name", d.URI))
	}
	if r.Read == nil {
		errs = append(errs, fmt.Errorf("resource %q has no read callback", d.URI))
	}
	return wrapInvalid(errs)
}

// ValidatePrompt reports every problem with a prompt descriptor, joined.
func ValidatePrompt(p StaticPrompt) error {
	var errs []error
	d := p.Descriptor
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("prompt name is empty"))
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, fmt.Errorf("prompt %q has no description", d.Name))
	}
	if p.Handler == nil {
		errs = append(errs, fmt.Errorf("prompt %q has no handler", d.Name))
	}
	seen := make(map[string]struct{}, len(d.Arguments))
	for _, arg := range d.Arguments {
		if arg.Name == "" {
			errs = append(errs, fmt.Errorf("prompt %q has an unnamed argument", d.Name))
			continue
		}
		if _, dup := seen[arg.Name]; dup {
			errs = append(errs, fmt.Errorf("prompt %q declares argument %q twice", d.Name, arg.Name))
		}
		seen[arg.Name] = struct{}{}
	}
	return wrapInvalid(errs)
}

func wrapInvalid(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDescriptor, errors.Join(errs...))
}
