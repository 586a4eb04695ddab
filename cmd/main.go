package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"supermarket/internal/app"
	"supermarket/internal/config"
	"supermarket/internal/menu"
)

func main() {
	cliApp := &cli.App{
		Name:  config.ServiceName,
		Usage: "supermarket inventory and point of sale",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "export-dir", Usage: "directory for inventory and receipt exports", EnvVars: []string{"EXPORT_DIR"}},
			&cli.StringFlag{Name: "journal", Usage: "sqlite journal path, empty disables it", EnvVars: []string{"JOURNAL_PATH"}},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", EnvVars: []string{"LOG_LEVEL"}},
		},
		Action: runConsole,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "start the console menu (default)",
				Action: runConsole,
			},
			{
				Name:  "serve",
				Usage: "serve the same operations over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address", EnvVars: []string{"HTTP_ADDR"}},
				},
				Action: serve,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runConsole(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	a, err := app.New(c.Context, cfg)
	if err != nil {
		return err
	}
	runErr := a.RunConsole(c.Context, os.Stdin, os.Stdout, menu.IsTerminal(os.Stdin))
	if err := a.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	a, err := app.New(c.Context, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := a.Serve(ctx)
	if err := a.Close(); err != nil && serveErr == nil {
		return err
	}
	return serveErr
}

// loadConfig .env и окружение, поверх них флаги командной строки
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("export-dir") {
		cfg.ExportDir = c.String("export-dir")
	}
	if c.IsSet("journal") {
		cfg.JournalPath = c.String("journal")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("addr") {
		cfg.HTTPAddr = c.String("addr")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

