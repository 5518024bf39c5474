// Package mcp contains the protocol data shapes that capability descriptors
// are written in. It mirrors the wire representation of the Model Context
// Protocol while staying free of transport logic: the sdkserver package
// translates these values to the official SDK's types when binding, and the
// in-memory mcpservice.Catalog uses them directly.
//
// Example (tool result construction):
//
//	res := &mcp.CallToolResult{
//	    Content: []mcp.ContentBlock{{Type: mcp.ContentTypeText, Text: "hello"}},
//	}
package mcp
