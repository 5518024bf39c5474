package catalog

import (
	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
)

// Resources returns one plain-text resource per optional profile field, in
// canonical field order.
func Resources(p *candidate.Profile) []mcpservice.StaticResource {
	fields := candidate.Fields()
	out := make([]mcpservice.StaticResource, 0, len(fields))
	for _, f := range fields {
		out = append(out, Resource(p, f))
	}
	return out
}

// Resource returns the readable counterpart of DataTool(p, f). Every read
// consults the live profile.
func Resource(p *candidate.Profile, f candidate.Field) mcpservice.StaticResource {
	return mcpservice.TextResource(f.ResourceURI(),
		func() string { return readField(p, f) },
		mcpservice.WithName(p.Name()+" "+f.Title()),
	)
}
