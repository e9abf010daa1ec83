// Package cli implements the blobdiff command line.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/codalotl/blobdiff/internal/logging"
)

// BuildInfo identifies the running binary. main fills it from -ldflags.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// usageError marks errors caused by how the command was invoked rather than by what it did.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Run runs the CLI with args (typically os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound.
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// On error, Run has already logged the message to opts.Err || Stderr.
func Run(args []string, info BuildInfo, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	if opts != nil {
		if opts.In != nil {
			in = opts.In
		}
		if opts.Out != nil {
			out = opts.Out
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}

	st := &state{info: info, errW: errW}
	root := newRootCommand(st)
	root.SetArgs(argv)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errW)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0, nil
	}

	logger := st.logger
	if logger == nil {
		logger = logging.NewWithWriter(errW, "info")
	}
	logger.Error("command failed", logging.FieldError, err)

	if isUsageError(err) {
		return 2, err
	}
	return 1, err
}

func isUsageError(err error) bool {
	var ue usageError
	if errors.As(err, &ue) {
		return true
	}
	// cobra reports unknown subcommands with a plain error.
	return strings.HasPrefix(err.Error(), "unknown command ")
}
