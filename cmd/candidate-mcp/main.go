// Command candidate-mcp serves a candidate profile to MCP clients.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "candidate-mcp",
		Version: Version,
		Usage:   "Serve a candidate profile over the Model Context Protocol",
		Commands: []*cli.Command{
			serveCmd,
			catalogCmd,
			versionCmd,
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
