// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/gatekeeper/cmd/app/commands"
	"github.com/allisson/gatekeeper/internal/app"
	authzService "github.com/allisson/gatekeeper/internal/authz/service"
	"github.com/allisson/gatekeeper/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "gatekeeper",
		Usage:   "HTTP authorization service",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-policy",
				Usage: "Create a new authorization policy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Unique policy name",
					},
					&cli.StringFlag{
						Name:     "requirements",
						Aliases:  []string{"r"},
						Required: true,
						Usage:    "JSON array of requirement specs (e.g., '[{\"kind\":\"role\",\"roles\":[\"admin\"]}]')",
					},
					&cli.StringFlag{
						Name:    "schemes",
						Aliases: []string{"s"},
						Usage:   "Comma-separated list of authentication schemes",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer func() {
						if err := container.Shutdown(ctx); err != nil {
							logger.Error("failed to shutdown container", slog.Any("error", err))
						}
					}()

					policyUseCase, err := container.PolicyUseCase()
					if err != nil {
						return err
					}

					return commands.RunCreatePolicy(
						ctx,
						policyUseCase,
						logger,
						cmd.String("name"),
						cmd.String("requirements"),
						cmd.String("schemes"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "delete-policy",
				Usage: "Delete a stored authorization policy",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Policy name",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()
					defer func() {
						if err := container.Shutdown(ctx); err != nil {
							logger.Error("failed to shutdown container", slog.Any("error", err))
						}
					}()

					policyUseCase, err := container.PolicyUseCase()
					if err != nil {
						return err
					}

					return commands.RunDeletePolicy(
						ctx,
						policyUseCase,
						logger,
						cmd.String("name"),
						commands.DefaultIO(),
					)
				},
			},
			{
				Name:  "generate-api-key",
				Usage: "Generate a new API key and its configuration entry",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable key name",
					},
					&cli.StringFlag{
						Name:    "roles",
						Aliases: []string{"r"},
						Usage:   "Comma-separated list of roles granted to the key",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					logger := container.Logger()

					return commands.RunGenerateAPIKey(
						authzService.NewAPIKeyGenerator(),
						logger,
						cmd.String("name"),
						cmd.String("roles"),
						cmd.String("format"),
						commands.DefaultIO(),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
