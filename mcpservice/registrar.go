package mcpservice

import "errors"

var (
	// ErrInvalidDescriptor indicates a capability descriptor that cannot be
	// served: missing identifier or handler, or a malformed schema.
	ErrInvalidDescriptor = errors.New("mcpservice: invalid descriptor")

	// ErrDuplicate indicates a second registration under an identifier that is
	// already bound.
	ErrDuplicate = errors.New("mcpservice: duplicate identifier")

	// ErrNotFound indicates a call for a capability that was never registered.
	ErrNotFound = errors.New("mcpservice: not found")

	// ErrMissingArgument indicates a prompt request without one of its
	// required arguments.
	ErrMissingArgument = errors.New("mcpservice: missing required argument")
)

// Registrar is the inbound surface a transport offers to whoever assembles the
// capability catalog. Each method binds exactly one capability and must reject
// malformed descriptors and duplicate identifiers with an error.
type Registrar interface {
	RegisterTool(StaticTool) error
	RegisterResource(StaticResource) error
	RegisterPrompt(StaticPrompt) error
}
