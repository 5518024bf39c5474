package mcpservice

import (
	"context"
	"fmt"

	"github.com/ggoodman/candidate-mcp-server/mcp"
)

// PromptHandler materializes a prompt from its string arguments.
type PromptHandler func(ctx context.Context, args map[string]string) (*mcp.GetPromptResult, error)

// StaticPrompt pairs a prompt descriptor with a handler that can materialize it.
type StaticPrompt struct {
	Descriptor mcp.Prompt
	Handler    PromptHandler
}

// PromptArgs is a read view over the arguments of a prompt request.
type PromptArgs map[string]string

// Get returns the argument or "".
func (a PromptArgs) Get(name string) string { return a[name] }

// GetOr returns the argument, or def when it is absent or empty.
func (a PromptArgs) GetOr(name, def string) string {
	if v := a[name]; v != "" {
		return v
	}
	return def
}

// UserPrompt builds a prompt that renders to a single user-role text message.
// Required arguments are checked before render is called.
func UserPrompt(desc mcp.Prompt, render func(args PromptArgs) string) StaticPrompt {
	return StaticPrompt{
		Descriptor: desc,
		Handler: func(_ context.Context, args map[string]string) (*mcp.GetPromptResult, error) {
			for _, arg := range desc.Arguments {
				if arg.Required && args[arg.Name] == "" {
					return nil, fmt.Errorf("%w: %q", ErrMissingArgument, arg.Name)
				}
			}
			return &mcp.GetPromptResult{
				Description: desc.Description,
				Messages: []mcp.PromptMessage{
					{Role: mcp.RoleUser, Content: mcp.Text(render(PromptArgs(args)))},
				},
			}, nil
		},
	}
}
