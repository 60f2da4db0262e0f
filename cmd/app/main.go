// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/chatapi/cmd/app/commands"
	"github.com/allisson/chatapi/internal/config"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "chatapi",
		Usage:   "Secure AI chat API",
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
					cfg := config.Load()
					logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
					return commands.RunMigrations(logger, cfg.DBDriver, cfg.DBConnectionString)
				},
			},
			{
				Name:  "hash-password",
				Usage: "Generate the Argon2id hash for AUTH_PASSWORD_HASH",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Plaintext password to hash",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunHashPassword(os.Stdout, cmd.String("password"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
