// Package streaminghttp serves the MCP streamable HTTP transport. It mounts
// as a standard net/http handler; the protocol itself is handled by the
// official SDK and this package adds the surrounding HTTP surface:
//
//   - bearer authentication (pluggable auth.Authenticator) with RFC 6750
//     WWW-Authenticate challenges
//   - OAuth 2.0 Protected Resource Metadata so clients can find the
//     authorization server without out-of-band configuration
//   - a liveness probe at /healthz and optional Prometheus metrics
//   - per-request log context (request ID, method, path)
//
// Construction
//
//	h, err := streaminghttp.New(srv.SDK(),
//	    streaminghttp.WithPublicEndpoint("https://candidate.example/mcp"),
//	    streaminghttp.WithAuthenticator(authn),
//	)
//	if err != nil { return err }
//	http.ListenAndServe(":8080", h)
//
// Without WithAuthenticator the endpoint is open and no metadata is served.
package streaminghttp
