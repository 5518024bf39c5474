// Package mcpservice provides the capability descriptor records a server is
// assembled from, plus helpers to build them.
//
// A capability is data: a descriptor (name, description, input shape) paired
// with a handler closure. Tools are StaticTool values, readable documents are
// StaticResource values and conversation templates are StaticPrompt values.
// Descriptors are handed to a Registrar, which is the only thing that knows
// about a transport.
//
// Quick start:
//
//	type EchoArgs struct {
//	    Message string `json:"message" jsonschema:"description=Text to echo"`
//	}
//	echo := mcpservice.NewTool[EchoArgs]("echo",
//	    func(ctx context.Context, r *mcpservice.ToolRequest[EchoArgs]) *mcp.CallToolResult {
//	        return mcpservice.TextResult("you said: " + r.Args().Message)
//	    },
//	    mcpservice.WithToolDescription("Echo a message back to the caller"),
//	)
//
//	cat := mcpservice.NewCatalog()
//	if err := cat.RegisterTool(echo); err != nil {
//	    return err
//	}
//
// NewTool reflects the input schema from the argument struct with
// invopop/jsonschema and decodes calls strictly: unknown fields, missing
// required fields and values outside an enumeration all produce an IsError
// result without reaching the handler.
package mcpservice
