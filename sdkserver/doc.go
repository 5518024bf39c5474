// Package sdkserver adapts capability descriptors to the official Model
// Context Protocol Go SDK.
//
// A Server implements mcpservice.Registrar. It checks each descriptor before
// handing it to the SDK, because the SDK panics on malformed tool schemas and
// silently replaces registrations that reuse an identifier; both are returned
// here as errors instead. Attach transports to SDK():
//
//	srv := sdkserver.New(settings, sdkserver.WithLogger(log))
//	if _, err := compose.Bind(srv, profile, settings); err != nil {
//	    return err
//	}
//	return stdio.NewHandler(srv.SDK()).Serve(ctx)
package sdkserver
