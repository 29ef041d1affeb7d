package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/folio/internal"
	pkgconfig "github.com/starford/folio/pkg/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func inspect(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	req := internal.InspectRequest{
		Version:  cmd.String("version"),
		Locale:   cmd.String("locale"),
		Slug:     cmd.String("slug"),
		HTML:     cmd.Bool("html"),
		Markdown: cmd.Bool("markdown"),
	}
	return internal.Inspect(ctx, os.Stdout, req, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "folio",
		Usage:  "Versioned, localized documentation server with MDX component extraction",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API (default)",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the docs to an MCP client over stdio",
				Action: mcp,
			},
			{
				Name:   "inspect",
				Usage:  "Print the transformed view of one page",
				Action: inspect,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "version", Usage: "Docs version (default: latest)"},
					&cli.StringFlag{Name: "locale", Usage: "Locale (default: content.default_locale)"},
					&cli.StringFlag{Name: "slug", Usage: "Page slug, e.g. guides/setup (default: the version's landing page)"},
					&cli.BoolFlag{Name: "html", Usage: "Include rendered HTML per segment"},
					&cli.BoolFlag{Name: "markdown", Usage: "Print flattened Markdown instead of JSON"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
