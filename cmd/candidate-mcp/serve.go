package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ggoodman/candidate-mcp-server/auth"
	"github.com/ggoodman/candidate-mcp-server/candidate"
	"github.com/ggoodman/candidate-mcp-server/compose"
	"github.com/ggoodman/candidate-mcp-server/internal/config"
	"github.com/ggoodman/candidate-mcp-server/internal/logging"
	"github.com/ggoodman/candidate-mcp-server/internal/metrics"
	"github.com/ggoodman/candidate-mcp-server/internal/watch"
	"github.com/ggoodman/candidate-mcp-server/mailer"
	"github.com/ggoodman/candidate-mcp-server/sdkserver"
	"github.com/ggoodman/candidate-mcp-server/stdio"
	"github.com/ggoodman/candidate-mcp-server/streaminghttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var configFlag = &cli.StringFlag{
	Name:    "config",
	Usage:   "Path to TOML configuration file",
	Aliases: []string{"c"},
	Sources: cli.EnvVars("CANDIDATE_MCP_CONFIG"),
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Start the MCP server",
	Flags: []cli.Flag{
		configFlag,
		&cli.StringFlag{
			Name:  "transport",
			Usage: "Transport to serve on: stdio or http",
		},
		&cli.StringFlag{
			Name:    "listen",
			Usage:   "Address to bind the HTTP transport",
			Aliases: []string{"l"},
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Reload file-backed candidate fields when their files change",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "trace, debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "text or json",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return cli.Exit(fmt.Errorf("failed to load config: %w", err), 1)
		}
		if v := cmd.String("transport"); v != "" {
			cfg.Server.Transport = v
		}
		if v := cmd.String("listen"); v != "" {
			cfg.HTTP.Listen = v
		}
		if v := cmd.String("log-level"); v != "" {
			cfg.Log.Level = v
		}
		if v := cmd.String("log-format"); v != "" {
			cfg.Log.Format = v
		}
		if err := cfg.Validate(); err != nil {
			return cli.Exit(fmt.Errorf("invalid configuration: %w", err), 1)
		}

		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
		if err != nil {
			return cli.Exit(err, 1)
		}
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := serve(ctx, cfg, cmd.Bool("watch"), logger); err != nil {
			return cli.Exit(err, 1)
		}
		logger.Info("Server shutdown complete")
		return nil
	},
}

// assemble builds the profile and binds its capabilities to a new SDK
// server. Nothing is served until it returns.
func assemble(cfg *config.Config, rec *metrics.Recorder, logger *slog.Logger) (*sdkserver.Server, *candidate.Profile, error) {
	profile := cfg.Profile()
	settings := cfg.Settings()

	opts := []compose.Option{compose.WithLogger(logger.With("component", "compose"))}
	if settings.Contact.Complete() {
		sender, err := newSender(cfg.Contact, logger)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, compose.WithSender(sender))
	} else if cfg.Contact.Partial() {
		logger.Warn("contact settings incomplete, contact_candidate disabled")
	}

	srv := sdkserver.New(settings,
		sdkserver.WithLogger(logger.With("component", "sdkserver")),
		sdkserver.WithMetrics(rec),
	)
	if _, err := compose.Bind(srv, profile, settings, opts...); err != nil {
		return nil, nil, fmt.Errorf("failed to bind capabilities: %w", err)
	}
	return srv, profile, nil
}

func newSender(c config.Contact, logger *slog.Logger) (mailer.Sender, error) {
	opts := []mailer.Option{mailer.WithLogger(logger.With("component", "mailer"))}
	if c.MailgunAPIBase != "" {
		opts = append(opts, mailer.WithAPIBase(c.MailgunAPIBase))
	}
	mg, err := mailer.NewMailgun(c.MailgunDomain, c.MailgunAPIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail sender: %w", err)
	}
	return mg, nil
}

func serve(ctx context.Context, cfg *config.Config, watchFiles bool, logger *slog.Logger) error {
	settings := cfg.Settings()
	logger.Info(fmt.Sprintf("Starting MCP server: %s v%s", settings.ServerName(), settings.ServerVersion()))

	var rec *metrics.Recorder
	if cfg.Server.Transport == config.TransportHTTP && cfg.HTTP.Metrics {
		rec = metrics.New(prometheus.Labels{"server": settings.ServerName()})
	}
	srv, profile, err := assemble(cfg, rec, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if files := cfg.Files(); watchFiles && len(files) > 0 {
		w, err := watch.New(profile, files, logger.With("component", "watch"))
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	switch cfg.Server.Transport {
	case config.TransportStdio:
		h := stdio.NewHandler(srv.SDK(), stdio.WithLogger(logger.With("component", "stdio")))
		g.Go(func() error {
			// The session ending on EOF ends the process.
			defer cancel()
			return h.Serve(ctx)
		})
	case config.TransportHTTP:
		handler, err := newHTTPHandler(ctx, cfg, srv, rec, logger)
		if err != nil {
			return err
		}
		hs := &http.Server{
			Addr:              cfg.HTTP.Listen,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("http.listen", slog.String("addr", hs.Addr))
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer scancel()
			return hs.Shutdown(sctx)
		})
	}

	return g.Wait()
}

func newHTTPHandler(ctx context.Context, cfg *config.Config, srv *sdkserver.Server, rec *metrics.Recorder, logger *slog.Logger) (http.Handler, error) {
	opts := []streaminghttp.Option{
		streaminghttp.WithServerName(cfg.Settings().ServerName()),
		streaminghttp.WithLogger(logger.With("component", "streaminghttp")),
		streaminghttp.WithStateless(cfg.HTTP.Stateless),
	}
	if cfg.HTTP.PublicURL != "" {
		opts = append(opts, streaminghttp.WithPublicEndpoint(cfg.HTTP.PublicURL))
	}
	if rec != nil {
		opts = append(opts, streaminghttp.WithMetricsHandler(rec.Handler()))
	}
	if cfg.Auth.Enabled() {
		authenticator, err := newAuthenticator(ctx, cfg.Auth)
		if err != nil {
			return nil, fmt.Errorf("failed to configure authentication: %w", err)
		}
		opts = append(opts, streaminghttp.WithAuthenticator(authenticator))
		if cfg.Auth.Realm != "" {
			opts = append(opts, streaminghttp.WithRealm(cfg.Auth.Realm))
		}
	}
	return streaminghttp.New(srv.SDK(), opts...)
}

func newAuthenticator(ctx context.Context, a config.Auth) (*auth.Provider, error) {
	var opts []auth.AccessTokenAuthOption
	if len(a.RequiredScopes) > 0 {
		opts = append(opts, auth.WithRequiredScopes(a.RequiredScopes...))
	}
	if a.JWKSURL != "" {
		return auth.NewStatic(ctx, a.Issuer, a.Audience, a.JWKSURL, opts...)
	}
	return auth.NewFromDiscovery(ctx, a.Issuer, a.Audience, opts...)
}
