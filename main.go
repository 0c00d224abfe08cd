package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"lexbot/internal/config"
	"lexbot/internal/session"
	"lexbot/sdk/backend"
)

func main() {
	app := &cli.App{
		Name:  "lexbot",
		Usage: "Terminal client for the Colombian legal assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Backend base URL (overrides config and LEXBOT_API_URL)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error, off",
			},
		},
		Commands: []*cli.Command{
			chatCommand(),
			askCommand(),
			healthCommand(),
			mockCommand(),
		},
		Action: runChat,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// env is what every command needs: the resolved config, the logger and a
// client built from both.
type env struct {
	cfg     *config.Config
	logger  *backend.Logger
	client  *backend.Client
	closeFn func()
}

func (e *env) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

// newSession builds a session over the env's client.
func (e *env) newSession() *session.Session {
	return session.New(e.client,
		session.WithLogger(e.logger),
		session.WithRevertDelay(e.cfg.Session.HappyDuration.Std()),
	)
}

// setup resolves config (file, env, then flags) and builds the logger and
// client.
func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if u := c.String("backend"); u != "" {
		cfg.Backend.URL = strings.TrimSpace(u)
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{cfg: cfg}

	out := os.Stderr
	if cfg.Logging.File != "" && cfg.LogLevel() != backend.LevelOff {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		e.closeFn = func() { f.Close() }
	}
	e.logger = backend.NewLogger(cfg.LogLevel(), out)
	backend.SetLogger(e.logger)

	prev := e.closeFn
	e.closeFn = func() {
		e.logger.Sync()
		if prev != nil {
			prev()
		}
	}

	e.client = backend.NewClient(cfg.Backend.URL,
		backend.WithHealthTimeout(cfg.Backend.HealthTimeout.Std()),
		backend.WithQueryTimeout(cfg.Backend.QueryTimeout.Std()),
		backend.WithLogger(e.logger),
	)
	e.logger.Debug("configured", "backend", e.client.BaseURL())
	return e, nil
}
