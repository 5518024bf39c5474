package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ggoodman/candidate-mcp-server/compose"
	"github.com/ggoodman/candidate-mcp-server/internal/config"
	"github.com/ggoodman/candidate-mcp-server/mailer"
	"github.com/ggoodman/candidate-mcp-server/mcp"
	"github.com/ggoodman/candidate-mcp-server/mcpservice"
	"github.com/urfave/cli/v3"
)

var catalogCmd = &cli.Command{
	Name:  "catalog",
	Usage: "Print the capabilities a configuration would serve",
	Flags: []cli.Flag{
		configFlag,
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the catalog as JSON",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
		}
		cat, manifest, err := bindCatalog(cfg)
		if err != nil {
			return cli.Exit(err, 1)
		}
		out := cmd.Root().Writer
		settings := cfg.Settings()
		if cmd.Bool("json") {
			return printJSON(out, settings.ServerName(), settings.ServerVersion(), cat, manifest)
		}
		printText(out, settings.ServerName(), settings.ServerVersion(), cat)
		return nil
	},
}

// bindCatalog composes cfg into an in-memory catalog. Mail is never sent
// from here, so a complete contact configuration gets a sender that
// refuses.
func bindCatalog(cfg *config.Config) (*mcpservice.Catalog, compose.Manifest, error) {
	cat := mcpservice.NewCatalog()
	refuse := mailer.SenderFunc(func(context.Context, mailer.Message) error {
		return fmt.Errorf("mail is not sent from the catalog command")
	})
	manifest, err := compose.Bind(cat, cfg.Profile(), cfg.Settings(),
		compose.WithSender(refuse),
		compose.WithLogger(slog.New(slog.DiscardHandler)),
	)
	if err != nil {
		return nil, compose.Manifest{}, fmt.Errorf("failed to bind capabilities: %w", err)
	}
	return cat, manifest, nil
}

type catalogDocument struct {
	Server       mcp.ImplementationInfo `json:"server"`
	Capabilities mcp.ServerCapabilities `json:"capabilities"`
	Tools        []mcp.Tool             `json:"tools"`
	Resources    []mcp.Resource         `json:"resources"`
	Prompts      []mcp.Prompt           `json:"prompts"`
}

func printJSON(w io.Writer, name, version string, cat *mcpservice.Catalog, m compose.Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(catalogDocument{
		Server:       mcp.ImplementationInfo{Name: name, Version: version},
		Capabilities: m.Capabilities(),
		Tools:        cat.Tools(),
		Resources:    cat.Resources(),
		Prompts:      cat.Prompts(),
	})
}

func printText(w io.Writer, name, version string, cat *mcpservice.Catalog) {
	fmt.Fprintf(w, "%s v%s\n", name, version)
	fmt.Fprintln(w, "\ntools:")
	for _, t := range cat.Tools() {
		fmt.Fprintf(w, "  %s\n", t.Name)
	}
	fmt.Fprintln(w, "\nresources:")
	for _, r := range cat.Resources() {
		fmt.Fprintf(w, "  %s\n", r.URI)
	}
	fmt.Fprintln(w, "\nprompts:")
	for _, p := range cat.Prompts() {
		fmt.Fprintf(w, "  %s\n", p.Name)
	}
}
