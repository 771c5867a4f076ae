// Command acmesh is the shell's REPL entry point: it wires the char
// source, lexer, parser and task scheduler together, loads the optional
// rc file, and drives the read-eval-print loop until EOF or `exit`.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/acmesh-lang/acmesh/internal/ast"
	"github.com/acmesh-lang/acmesh/internal/charsrc"
	"github.com/acmesh-lang/acmesh/internal/config"
	"github.com/acmesh-lang/acmesh/internal/lexer"
	"github.com/acmesh-lang/acmesh/internal/parser"
	"github.com/acmesh-lang/acmesh/internal/procreap"
	"github.com/acmesh-lang/acmesh/internal/state"
	"github.com/acmesh-lang/acmesh/internal/synerr"
	"github.com/acmesh-lang/acmesh/internal/task"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		command  string
		rcFile   string
		noRC     bool
		verbose  bool
		exitCode int
	)

	rootCmd := &cobra.Command{
		Use:           "acmesh",
		Short:         "An interactive shell combining command execution with structural regular expressions",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			st := state.New()
			if !noRC {
				path := rcFile
				if path == "" {
					p, err := config.DefaultPath()
					if err != nil {
						logger.Warn("couldn't locate rc file", "error", err)
					}
					path = p
				}
				if path != "" {
					rc, err := config.Load(path)
					if err != nil {
						logger.Warn("couldn't load rc file", "path", path, "error", err)
					} else {
						config.Apply(st, rc)
						if w, err := config.Watch(path, st, logger); err != nil {
							logger.Debug("rc file watch unavailable", "path", path, "error", err)
						} else {
							defer w.Close()
						}
					}
				}
			}

			reapCtx, cancelReap := context.WithCancel(context.Background())
			defer cancelReap()
			go procreap.New(logger, 0).Run(reapCtx)

			sh := &shell{state: st, logger: logger}

			if command != "" {
				code, err := sh.evalText(command, os.Stdin, os.Stdout, os.Stderr)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				exitCode = code
				return nil
			}

			exitCode = sh.repl()
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run one command line and exit")
	rootCmd.Flags().StringVar(&rcFile, "rcfile", "", "override the rc file path")
	rootCmd.Flags().BoolVar(&noRC, "no-rc", false, "skip loading the rc file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "raise log level to debug")
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// shell bundles the persistent pieces a REPL or `-c` invocation needs:
// shared state plus the EvalFunc closure that lets the `eval` builtin
// re-enter the lexer/parser/scheduler pipeline.
type shell struct {
	state  *state.State
	logger *slog.Logger
}

// repl drives the interactive read-eval-print loop until EOF or `exit`.
func (sh *shell) repl() int {
	lines := charsrc.NewReaderLineSource(os.Stdin, os.Stdout)
	src := charsrc.New(lines)
	src.PushPrompt("acmesh> ")
	lx := lexer.New(src, sh.logger)

	ctx := sh.newContext(os.Stdin, os.Stdout, os.Stderr)
	p := parser.New(lx)
	for {
		prog, err := p.ParseProgram()
		if err != nil {
			sh.reportError(err)
			continue
		}
		if len(prog.Lists) == 0 {
			return ctx.State.ExitCode
		}
		if err := sh.runProgram(ctx, prog); err != nil {
			sh.reportError(err)
		}
		if ctx.ExitRequested {
			return ctx.ExitCode
		}
	}
}

// evalText parses and runs one block of text (the `-c` flag or the `eval`
// builtin), returning its exit code.
func (sh *shell) evalText(text string, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	src := charsrc.New(charsrc.NewStringLineSource(text))
	lx := lexer.New(src, sh.logger)
	prog, err := parser.New(lx).ParseProgram()
	if err != nil {
		return 1, err
	}
	ctx := sh.newContext(stdin, stdout, stderr)
	if err := sh.runProgram(ctx, prog); err != nil {
		return 1, err
	}
	return ctx.State.ExitCode, nil
}

func (sh *shell) runProgram(ctx *task.Context, prog *ast.Program) error {
	runner := task.BuildProgram(prog)
	_, err := task.Run(ctx, runner)
	return err
}

func (sh *shell) newContext(stdin io.Reader, stdout, stderr io.Writer) *task.Context {
	ctx := &task.Context{
		State:  sh.state,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
		Logger: sh.logger,
	}
	ctx.EvalFunc = func(c *task.Context, text string) (int, error) {
		return sh.evalText(text, c.Stdin, c.Stdout, c.Stderr)
	}
	return ctx
}

// reportError prints a lex/parse/runtime error. Unknown-command "did you
// mean" suggestions are handled where the error originates, in
// internal/task/command.go — that path never reaches here as a Go error.
func (sh *shell) reportError(err error) {
	var synErr *synerr.Error
	if errors.As(err, &synErr) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", synErr.Pos, synErr.Message)
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}
