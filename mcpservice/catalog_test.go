package mcpservice

import (
	"context"
	"errors"
	"testing"

	"github.com/ggoodman/candidate-mcp-server/mcp"
)

func TestCatalog_OrderAndDispatch(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	if err := c.RegisterTool(newGreetTool()); err != nil {
		t.Fatalf("register greet: %v", err)
	}
	ping := NewTool[noArgs]("ping", func(context.Context, *ToolRequest[noArgs]) *mcp.CallToolResult {
		return TextResult("pong")
	}, WithToolDescription("Ping"))
	if err := c.RegisterTool(ping); err != nil {
		t.Fatalf("register ping: %v", err)
	}
	if err := c.RegisterResource(TextResource("demo://a", func() string { return "A" })); err != nil {
		t.Fatalf("register resource: %v", err)
	}
	hello := UserPrompt(mcp.Prompt{Name: "hello", Description: "Say hello"}, func(PromptArgs) string { return "hi" })
	if err := c.RegisterPrompt(hello); err != nil {
		t.Fatalf("register prompt: %v", err)
	}

	tools := c.Tools()
	if len(tools) != 2 || tools[0].Name != "greet" || tools[1].Name != "ping" {
		t.Fatalf("unexpected tool order: %#v", tools)
	}

	res, err := c.CallTool(t.Context(), "ping", nil)
	if err != nil || res.Content[0].Text != "pong" {
		t.Fatalf("call ping: %v %#v", err, res)
	}
	if _, err := c.CallTool(t.Context(), "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown tool, got %v", err)
	}

	contents, err := c.ReadResource(t.Context(), "demo://a")
	if err != nil || contents[0].Text != "A" {
		t.Fatalf("read: %v %#v", err, contents)
	}
	if _, err := c.ReadResource(t.Context(), "demo://b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound for unknown resource, got %v", err)
	}

	pr, err := c.GetPrompt(t.Context(), "hello", nil)
	if err != nil || pr.Messages[0].Content.Text != "hi" {
		t.Fatalf("get prompt: %v %#v", err, pr)
	}
}

func TestCatalog_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	if err := c.RegisterTool(newGreetTool()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := c.RegisterTool(newGreetTool()); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	r := TextResource("demo://a", func() string { return "" })
	_ = c.RegisterResource(r)
	if err := c.RegisterResource(r); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate for resource, got %v", err)
	}
	if got := len(c.Tools()); got != 1 {
		t.Fatalf("duplicate must not be listed, have %d tools", got)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	okHandler := func(context.Context, *ToolCall) *mcp.CallToolResult { return TextResult("") }
	cases := []struct {
		name string
		err  error
	}{
		{"tool without name", ValidateTool(StaticTool{
			Descriptor: mcp.Tool{Description: "x", InputSchema: mcp.ToolInputSchema{Type: "object"}},
			Handler:    okHandler,
		})},
		{"tool without handler", ValidateTool(StaticTool{
			Descriptor: mcp.Tool{Name: "t", Description: "x", InputSchema: mcp.ToolInputSchema{Type: "object"}},
		})},
		{"tool with non-object schema", ValidateTool(StaticTool{
			Descriptor: mcp.Tool{Name: "t", Description: "x", InputSchema: mcp.ToolInputSchema{Type: "string"}},
			Handler:    okHandler,
		})},
		{"tool requiring undeclared property", ValidateTool(StaticTool{
			Descriptor: mcp.Tool{Name: "t", Description: "x", InputSchema: mcp.ToolInputSchema{Type: "object", Required: []string{"q"}}},
			Handler:    okHandler,
		})},
		{"resource without scheme", ValidateResource(TextResource("just-a-path", func() string { return "" }))},
		{"resource without reader", ValidateResource(StaticResource{Descriptor: mcp.Resource{URI: "demo://x", Name: "x"}})},
		{"prompt with duplicate argument", ValidatePrompt(UserPrompt(mcp.Prompt{
			Name:        "p",
			Description: "x",
			Arguments:   []mcp.PromptArgument{{Name: "a"}, {Name: "a"}},
		}, func(PromptArgs) string { return "" }))},
		{"prompt without description", ValidatePrompt(UserPrompt(mcp.Prompt{Name: "p"}, func(PromptArgs) string { return "" }))},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, ErrInvalidDescriptor) {
			t.Errorf("%s: want ErrInvalidDescriptor, got %v", tc.name, tc.err)
		}
	}

	if err := ValidateTool(newGreetTool()); err != nil {
		t.Fatalf("well-formed tool rejected: %v", err)
	}
}
