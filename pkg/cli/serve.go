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
	"github.com/m-mizutani/herald/pkg/cli/config"
	controller "github.com/m-mizutani/herald/pkg/controller/http"
	"github.com/m-mizutani/herald/pkg/infra/builder"
	githubinfra "github.com/m-mizutani/herald/pkg/infra/github"
	"github.com/m-mizutani/herald/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		githubCfg config.GitHub
		siteCfg   config.Site
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, siteCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the webhook server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := siteCfg.Load(); err != nil {
				return err
			}
			if err := siteCfg.Validate(); err != nil {
				return err
			}

			logger.Info("Starting herald server",
				slog.String("addr", serverCfg.Addr),
				slog.String("repository", siteCfg.Repository),
				slog.String("publish_branch", siteCfg.PublishBranch),
				slog.String("deploy_branch", siteCfg.DeployBranch),
			)

			privateKey, err := githubCfg.LoadPrivateKey()
			if err != nil {
				return err
			}

			githubClient, err := githubinfra.NewClient(githubCfg.AppID, githubCfg.InstallationID, privateKey)
			if err != nil {
				return goerr.Wrap(err, "failed to create GitHub client")
			}

			siteBuilder, err := builder.NewRunner(siteCfg.BuildCommand, siteCfg.OutputDir)
			if err != nil {
				return err
			}

			// Create use cases
			publishUC := usecase.NewPublish(githubClient, siteBuilder)
			triggerUC := usecase.NewTrigger(siteCfg.Rules(), publishUC)

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				triggerUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
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
