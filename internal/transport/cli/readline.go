package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/internal/service/ui"
	"github.com/sandevgo/tuskcmd/pkg/log"
)

type ReadLine struct {
	cfg     core.AppConfig
	router  core.CmdRouter
	rl      *readline.Instance
	console *Console
}

func NewReadLine(router core.CmdRouter, cfg core.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.GetRuntimePath(), 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ui.PromptStyle.Render(router.Root()+"> ") + " ",
		HistoryFile:     cfg.GetHistoryPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open console: %w", err)
	}

	return &ReadLine{
		cfg:     cfg,
		router:  router,
		rl:      rl,
		console: NewConsole(rl.Stdout()),
	}, nil
}

// Stdout is where log output should go while the prompt is active.
func (r *ReadLine) Stdout() io.Writer {
	return r.rl.Stdout()
}

func (r *ReadLine) Start(ctx context.Context) error {
	defer log.Redirect(r.Stdout())()

	logger := log.FromCtx(ctx)
	logger.Info().Msgf("console ready, commands go to /%s. Type 'exit' to quit.", r.router.Root())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		r.Execute(ctx, line)
	}
}

// Execute dispatches one console line and reports whether it was handled.
func (r *ReadLine) Execute(ctx context.Context, line string) bool {
	return Execute(ctx, r.router, r.console, line)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}

// Execute runs line as the console sender.
func Execute(ctx context.Context, router core.CmdRouter, console *Console, line string) bool {
	handled, ok := router.Execute(ctx, console, CommandLine(router.Root(), line))
	if !ok {
		console.SendMessage(fmt.Sprintf("❌ Only `/%s` commands are available here.", router.Root()))
		return false
	}
	return handled
}
