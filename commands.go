package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"lexbot/internal/app"
	"lexbot/internal/mock"
	"lexbot/internal/render"
	"lexbot/internal/session"
)

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:   "chat",
		Usage:  "Open the interactive chat (default)",
		Action: runChat,
	}
}

func runChat(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.Close()

	sess := e.newSession()
	defer sess.Close()

	model := app.New(sess, app.Options{
		ExcerptLimit: e.cfg.UI.ExcerptLimit,
		PollInterval: e.cfg.UI.HealthPollInterval.Std(),
	})

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if e.cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)
	model.SetProgram(p)

	_, err = p.Run()
	return err
}

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask one question and print the answer",
		ArgsUsage: "<question>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "all-sources",
				Aliases: []string{"a"},
				Usage:   "Show every source instead of only the first",
			},
		},
		Action: func(c *cli.Context) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return cli.Exit("a question is required", 2)
			}

			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess := e.newSession()
			defer sess.Close()
			sess.Subscribe(printErrorNotices)

			if err := sess.Start(ctx); err != nil {
				return cli.Exit(fmt.Sprintf("backend unavailable at %s: %v", e.client.BaseURL(), err), 1)
			}
			if err := sess.Submit(ctx, question); err != nil {
				return cli.Exit("", 1)
			}

			answer, ok := sess.Snapshot().LastAssistant()
			if !ok {
				return cli.Exit("no answer received", 1)
			}
			return render.Answer(os.Stdout, answer, render.Options{
				Markdown:     render.IsTerminal(os.Stdout),
				AllSources:   c.Bool("all-sources"),
				ExcerptLimit: e.cfg.UI.ExcerptLimit,
			})
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check the backend and list its documents",
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			sess := e.newSession()
			defer sess.Close()
			sess.Subscribe(printErrorNotices)

			if err := sess.Retry(c.Context); err != nil {
				return cli.Exit(fmt.Sprintf("%s: offline", e.client.BaseURL()), 1)
			}

			st := sess.Snapshot()
			fmt.Printf("%s: online (%d documentos)\n", e.client.BaseURL(), st.DocumentsCount)
			for _, d := range st.Documents {
				fmt.Printf("  📄 %s\n", d)
			}
			return nil
		},
	}
}

func mockCommand() *cli.Command {
	return &cli.Command{
		Name:  "mock",
		Usage: "Run a mock backend for local development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: ":8000",
				Usage: "Listen address",
			},
			&cli.DurationFlag{
				Name:  "latency",
				Usage: "Delay added to every /query response",
			},
			&cli.Float64Flag{
				Name:  "fail-rate",
				Usage: "Fraction of /query calls answered with a 500 (0-1)",
			},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := mock.NewServer(c.String("addr"),
				mock.WithLatency(c.Duration("latency")),
				mock.WithFailRate(c.Float64("fail-rate")),
				mock.WithLogger(e.logger),
			)
			fmt.Fprintf(os.Stderr, "mock backend on %s (ctrl+c to stop)\n", c.String("addr"))
			return srv.Run(ctx)
		},
	}
}

// printErrorNotices reports error notices on stderr for the one-shot commands.
func printErrorNotices(ev session.Event) {
	n, ok := ev.(session.NoticeRaised)
	if !ok || n.Notice.Level != session.NoticeError {
		return
	}
	msg := n.Notice.Title
	if n.Notice.Description != "" {
		msg += ": " + n.Notice.Description
	}
	fmt.Fprintln(os.Stderr, msg)
}
