// Package cli builds the positional-argument command-line tools.
//
// Every tool prints exactly one result on stdout. Diagnostics go to stderr.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/liludouglass/opencode-workflow/internal/toolutil"
)

// Tool describes one command-line binary.
type Tool struct {
	Name    string
	Usage   string // shown on usage errors
	MinArgs int
	// PlainUsage prints Usage as text instead of {"error": Usage}.
	PlainUsage bool
	Run        func(ctx context.Context, args []string, stdout io.Writer) error
}

// ErrUsage makes the tool print its usage message and exit 1.
var ErrUsage = errors.New("usage")

// ExitError carries a non-zero exit status. Err is written to stderr, or to
// stdout as {"error": ...} when JSON is set. A nil Err exits silently.
type ExitError struct {
	Code int
	Err  error
	JSON bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Fail wraps err so the tool exits with status 1.
func Fail(err error) error {
	return &ExitError{Code: 1, Err: err}
}

// Reject fails with {"error": err} on stdout and status 1, for arguments
// that parse but are invalid.
func Reject(err error) error {
	return &ExitError{Code: 1, Err: err, JSON: true}
}

// Command builds a cobra command that passes every argument through verbatim.
func (t Tool) Command() *cobra.Command {
	return &cobra.Command{
		Use:                t.Name,
		Short:              t.Usage,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < t.MinArgs {
				return ErrUsage
			}
			return t.Run(cmd.Context(), args, cmd.OutOrStdout())
		},
	}
}

// Execute runs t with args and returns the process exit status.
func (t Tool) Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := t.Command()
	if args == nil {
		args = []string{} // a nil slice makes cobra fall back to os.Args
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		if t.PlainUsage {
			fmt.Fprintln(stdout, t.Usage)
		} else {
			toolutil.PrintJSON(stdout, map[string]string{"error": t.Usage})
		}
		return 1
	}

	var exit *ExitError
	if errors.As(err, &exit) {
		switch {
		case exit.Err == nil:
		case exit.JSON:
			toolutil.PrintJSON(stdout, map[string]string{"error": exit.Err.Error()})
		default:
			fmt.Fprintln(stderr, "Error:", exit.Err)
		}
		return exit.Code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return 1
}

// Main sets up logging and configuration, runs t against os.Args and exits.
func Main(t Tool) {
	SetupLogging(os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	Setup(ctx)
	code := t.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
