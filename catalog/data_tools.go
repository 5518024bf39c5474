package catalog

import (
	"context"
	"fmt"

	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
)

type noArgs struct{}

// DataTools returns one data tool per optional profile field, in canonical
// field order, regardless of which fields hold a value.
func DataTools(p *candidate.Profile) []mcpservice.StaticTool {
	fields := candidate.Fields()
	tools := make([]mcpservice.StaticTool, 0, len(fields))
	for _, f := range fields {
		tools = append(tools, DataTool(p, f))
	}
	return tools
}

// DataTool returns the tool that reads field f of p.
func DataTool(p *candidate.Profile, f candidate.Field) mcpservice.StaticTool {
	return mcpservice.NewTool[noArgs](f.ToolName(),
		func(ctx context.Context, _ *mcpservice.ToolRequest[noArgs]) *mcp.CallToolResult {
			return mcpservice.TextResult(readField(p, f))
		},
		mcpservice.WithToolDescription(fmt.Sprintf("Get the %s of the candidate %s", f.Label(), p.Name())),
	)
}

func readField(p *candidate.Profile, f candidate.Field) string {
	if v := p.Get(f); v != "" {
		return v
	}
	return f.Unavailable()
}
