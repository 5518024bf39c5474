// Package stdio serves a single MCP client over stdin and stdout. It suits
// desktop assistants that launch the server as a subprocess.
//
//	Connection model : 1 process <-> 1 client
//	Auth             : none; the OS user labels log records
//	Framing          : newline-delimited JSON-RPC
//
// Options allow supplying alternate streams, which tests use with io.Pipe:
//
//	srv := sdkserver.New(settings)
//	if _, err := compose.Bind(srv, profile, settings); err != nil {
//	    return err
//	}
//	return stdio.NewHandler(srv.SDK()).Serve(ctx)
//
// Only protocol messages are written to the output stream; logs must go to
// stderr.
package stdio
