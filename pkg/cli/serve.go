package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-ohira/custodian/pkg/cli/config"
	controller "github.com/m-ohira/custodian/pkg/controller/http"
	mcpcontroller "github.com/m-ohira/custodian/pkg/controller/mcp"
	githubinfra "github.com/m-ohira/custodian/pkg/infra/github"
	jirainfra "github.com/m-ohira/custodian/pkg/infra/jira"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		jiraCfg   config.Jira

		useHTTP bool
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, jiraCfg.Flags()...)
	flags = append(flags, &cli.BoolFlag{
		Name:        "http",
		Usage:       "Serve the MCP tools over HTTP instead of stdio",
		Destination: &useHTTP,
		Sources:     cli.EnvVars("CUSTODIAN_HTTP"),
	})

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Expose the audit actions as MCP tools",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			store, err := jirainfra.NewClient(
				jiraCfg.BaseURL, jiraCfg.Email, jiraCfg.APIToken,
				jirainfra.WithIssueType(jiraCfg.IssueType),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create ticket store")
			}

			lister := githubinfra.NewClient(githubCfg.Token)
			mcpServer := mcpcontroller.NewServer(lister, store, store, jiraCfg.Project)

			if !useHTTP {
				logger.Info("Starting MCP server over stdio")
				return mcpServer.Run(ctx)
			}

			logger.Info("Starting custodian server",
				slog.String("addr", serverCfg.Addr),
			)

			server, err := controller.NewServer(
				ctx,
				mcpServer.Handler(),
				controller.WithAddr(serverCfg.Addr),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
