package sdkserver

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/catalog"
	"github.com/ggoodman/candidate-mcp-server/compose"
	"github.com/ggoodman/candidate-mcp-server/internal/metrics"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// connect starts srv over an in-memory transport and returns a client
// session bound to it.
func connect(t *testing.T, srv *Server) *sdk.ClientSession {
	t.Helper()

	ctx := t.Context()
	ct, st := sdk.NewInMemoryTransports()
	ss, err := srv.SDK().Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = ss.Close() })

	client := sdk.NewClient(&sdk.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func boundServer(t *testing.T, opts ...Option) *Server {
	t.Helper()

	p := candidate.NewProfile("Ada Lovelace",
		candidate.WithField(candidate.FieldResumeText, "Analytical engines."),
		candidate.WithField(candidate.FieldGitHubURL, "https://github.com/ada"),
	)
	settings := candidate.Settings{}
	srv := New(settings, opts...)
	if _, err := compose.Bind(srv, p, settings); err != nil {
		t.Fatalf("bind: %v", err)
	}
	return srv
}

func textOf(t *testing.T, res *sdk.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("want 1 content block, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*sdk.TextContent)
	if !ok {
		t.Fatalf("want text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()

	cs := connect(t, boundServer(t))
	info := cs.InitializeResult()
	if info == nil || info.ServerInfo == nil {
		t.Fatalf("missing initialize result")
	}
	if info.ServerInfo.Name != candidate.DefaultServerName || info.ServerInfo.Version != candidate.DefaultServerVersion {
		t.Fatalf("unexpected server info: %+v", info.ServerInfo)
	}
	caps := info.Capabilities
	if caps == nil || caps.Tools == nil || caps.Resources == nil || caps.Prompts == nil {
		t.Fatalf("want tools, resources and prompts capabilities, got %+v", caps)
	}
}

func TestServer_ListsBoundCapabilities(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cs := connect(t, boundServer(t))

	tools, err := cs.ListTools(ctx, &sdk.ListToolsParams{})
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	got := map[string]*sdk.Tool{}
	for _, tool := range tools.Tools {
		got[tool.Name] = tool
	}
	for _, want := range []string{"get_resume_text", "get_github_url", catalog.GenerateInterviewQuestionsTool, catalog.AssessRoleFitTool} {
		if got[want] == nil {
			t.Fatalf("tool %q not listed; have %v", want, got)
		}
	}
	if len(got) != 4 {
		t.Fatalf("want 4 tools, got %d", len(got))
	}
	if _, ok := got[catalog.ContactCandidateTool]; ok {
		t.Fatalf("contact tool listed without contact settings")
	}
	if d := got["get_github_url"].Description; d != "Get the GitHub URL of the candidate Ada Lovelace" {
		t.Fatalf("unexpected description %q", d)
	}

	resources, err := cs.ListResources(ctx, &sdk.ListResourcesParams{})
	if err != nil {
		t.Fatalf("list resources: %v", err)
	}
	if len(resources.Resources) != 2 {
		t.Fatalf("want 2 resources, got %d", len(resources.Resources))
	}
	for _, r := range resources.Resources {
		if r.MIMEType != mcp.MimeTypeText {
			t.Fatalf("resource %s: want mime %q, got %q", r.URI, mcp.MimeTypeText, r.MIMEType)
		}
	}

	prompts, err := cs.ListPrompts(ctx, &sdk.ListPromptsParams{})
	if err != nil {
		t.Fatalf("list prompts: %v", err)
	}
	if len(prompts.Prompts) != 7 {
		t.Fatalf("want 7 prompts, got %d", len(prompts.Prompts))
	}
}

func TestServer_CallTool(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cs := connect(t, boundServer(t))

	res, err := cs.CallTool(ctx, &sdk.CallToolParams{Name: "get_resume_text", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res)
	}
	if got := textOf(t, res); got != "Analytical engines." {
		t.Fatalf("want resume text, got %q", got)
	}

	res, err = cs.CallTool(ctx, &sdk.CallToolParams{
		Name:      catalog.GenerateInterviewQuestionsTool,
		Arguments: map[string]any{"interview_type": "technical", "focus_areas": "Go", "difficulty": "senior"},
	})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", textOf(t, res))
	}
	if got := textOf(t, res); !strings.HasPrefix(got, "Here are tailored technical interview questions for Ada Lovelace focusing on Go at senior level:") {
		t.Fatalf("unexpected question set %q", got)
	}
}

func TestServer_CallToolInvalidArguments(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cs := connect(t, boundServer(t))

	res, err := cs.CallTool(ctx, &sdk.CallToolParams{
		Name:      catalog.GenerateInterviewQuestionsTool,
		Arguments: map[string]any{"interview_type": "whiteboard", "focus_areas": "Go", "difficulty": "mid"},
	})
	if err != nil {
		t.Fatalf("want tool error result, got protocol error %v", err)
	}
	if !res.IsError {
		t.Fatalf("want IsError for enum violation")
	}
}

func TestServer_UnknownToolIsProtocolError(t *testing.T) {
	t.Parallel()

	cs := connect(t, boundServer(t))
	if _, err := cs.CallTool(t.Context(), &sdk.CallToolParams{Name: "get_website_url", Arguments: map[string]any{}}); err == nil {
		t.Fatalf("want error for unbound tool")
	}
}

func TestServer_ReadResource(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cs := connect(t, boundServer(t))

	res, err := cs.ReadResource(ctx, &sdk.ReadResourceParams{URI: "candidate-info://github-url"})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(res.Contents) != 1 {
		t.Fatalf("want 1 content, got %d", len(res.Contents))
	}
	c := res.Contents[0]
	if c.URI != "candidate-info://github-url" || c.MIMEType != mcp.MimeTypeText || c.Text != "https://github.com/ada" {
		t.Fatalf("unexpected contents %+v", c)
	}

	if _, err := cs.ReadResource(ctx, &sdk.ReadResourceParams{URI: "candidate-info://website-url"}); err == nil {
		t.Fatalf("want error for unbound resource")
	}
}

func TestServer_GetPrompt(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	cs := connect(t, boundServer(t))

	res, err := cs.GetPrompt(ctx, &sdk.GetPromptParams{
		Name:      catalog.TechProficiencyPrompt,
		Arguments: map[string]string{"technologies": "Go, Rust"},
	})
	if err != nil {
		t.Fatalf("get prompt: %v", err)
	}
	if len(res.Messages) != 1 || res.Messages[0].Role != "user" {
		t.Fatalf("want one user message, got %+v", res.Messages)
	}
	tc, ok := res.Messages[0].Content.(*sdk.TextContent)
	if !ok {
		t.Fatalf("want text content, got %T", res.Messages[0].Content)
	}
	if !strings.Contains(tc.Text, "Go, Rust") {
		t.Fatalf("prompt text missing technologies: %q", tc.Text)
	}

	if _, err := cs.GetPrompt(ctx, &sdk.GetPromptParams{Name: catalog.TechProficiencyPrompt}); err == nil {
		t.Fatalf("want error for missing required argument")
	}
}

func TestServer_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	srv := New(candidate.Settings{})
	p := candidate.NewProfile("Ada", candidate.WithField(candidate.FieldResumeURL, "https://ada.dev/cv"))

	tool := catalog.DataTool(p, candidate.FieldResumeURL)
	if err := srv.RegisterTool(tool); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := srv.RegisterTool(tool); !errors.Is(err, mcpservice.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	res := catalog.Resource(p, candidate.FieldResumeURL)
	if err := srv.RegisterResource(res); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := srv.RegisterResource(res); !errors.Is(err, mcpservice.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}

	pr := catalog.Prompts(p)[0]
	if err := srv.RegisterPrompt(pr); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := srv.RegisterPrompt(pr); !errors.Is(err, mcpservice.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestServer_RejectsMalformedDescriptors(t *testing.T) {
	t.Parallel()

	srv := New(candidate.Settings{})
	handler := func(context.Context, *mcpservice.ToolCall) *mcp.CallToolResult { return mcpservice.TextResult("x") }

	cases := map[string]mcpservice.StaticTool{
		"no schema type": {
			Descriptor: mcp.Tool{Name: "bad", Description: "bad tool"},
			Handler:    handler,
		},
		"no name": {
			Descriptor: mcp.Tool{Description: "nameless", InputSchema: mcp.ToolInputSchema{Type: "object"}},
			Handler:    handler,
		},
		"no handler": {
			Descriptor: mcp.Tool{Name: "idle", Description: "idle", InputSchema: mcp.ToolInputSchema{Type: "object"}},
		},
	}
	for name, tool := range cases {
		if err := srv.RegisterTool(tool); !errors.Is(err, mcpservice.ErrInvalidDescriptor) {
			t.Fatalf("%s: want ErrInvalidDescriptor, got %v", name, err)
		}
	}

	bad := mcpservice.TextResource("no-scheme", func() string { return "" }, mcpservice.WithName("x"))
	if err := srv.RegisterResource(bad); !errors.Is(err, mcpservice.ErrInvalidDescriptor) {
		t.Fatalf("want ErrInvalidDescriptor for schemeless URI, got %v", err)
	}
}

func TestServer_RecoversToolPanic(t *testing.T) {
	t.Parallel()

	srv := New(candidate.Settings{}, WithLogger(slog.New(slog.DiscardHandler)))
	err := srv.RegisterTool(mcpservice.StaticTool{
		Descriptor: mcp.Tool{Name: "explode", Description: "always panics", InputSchema: mcp.ToolInputSchema{Type: "object"}},
		Handler: func(context.Context, *mcpservice.ToolCall) *mcp.CallToolResult {
			panic("boom")
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	cs := connect(t, srv)
	res, err := cs.CallTool(t.Context(), &sdk.CallToolParams{Name: "explode", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("want error result, got protocol error %v", err)
	}
	if !res.IsError || !strings.Contains(textOf(t, res), "boom") {
		t.Fatalf("want recovered error result, got %+v", res)
	}
}

func TestServer_ObservesInvocations(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := metrics.New(nil)
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cs := connect(t, boundServer(t, WithLogger(log), WithMetrics(rec)))

	ctx := t.Context()
	for range 2 {
		if _, err := cs.CallTool(ctx, &sdk.CallToolParams{Name: "get_resume_text", Arguments: map[string]any{}}); err != nil {
			t.Fatalf("call: %v", err)
		}
	}
	if _, err := cs.CallTool(ctx, &sdk.CallToolParams{
		Name:      catalog.GenerateInterviewQuestionsTool,
		Arguments: map[string]any{"interview_type": "nope"},
	}); err != nil {
		t.Fatalf("call: %v", err)
	}

	if got := testutil.ToFloat64(rec.Count("tool", "get_resume_text", metrics.OutcomeOK)); got != 2 {
		t.Fatalf("want 2 ok invocations, got %v", got)
	}
	if got := testutil.ToFloat64(rec.Count("tool", catalog.GenerateInterviewQuestionsTool, metrics.OutcomeError)); got != 1 {
		t.Fatalf("want 1 failed invocation, got %v", got)
	}
	if !strings.Contains(buf.String(), `"msg":"invocation"`) {
		t.Fatalf("want invocation log records, got:\n%s", buf.String())
	}

	for _, name := range []string{"made_up_1", "made_up_2"} {
		if _, err := cs.CallTool(ctx, &sdk.CallToolParams{Name: name, Arguments: map[string]any{}}); err == nil {
			t.Fatalf("call %s: want protocol error", name)
		}
	}
	if got := testutil.ToFloat64(rec.Count("tool", unknownName, metrics.OutcomeError)); got != 2 {
		t.Fatalf("want 2 unknown invocations, got %v", got)
	}
	if got := testutil.CollectAndCount(rec.Invocations(), "candidate_mcp_invocations_total"); got != 3 {
		t.Fatalf("want 3 invocation series, got %d", got)
	}
}
