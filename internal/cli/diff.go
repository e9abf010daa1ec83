package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/codalotl/blobdiff/internal/blobstore"
	"github.com/codalotl/blobdiff/internal/linediff"
	"github.com/codalotl/blobdiff/internal/logging"
	"github.com/codalotl/blobdiff/internal/presentation"
	"github.com/codalotl/blobdiff/internal/server"
)

func newDiffCommand(st *state) *cobra.Command {
	var (
		asJSON  bool
		contextLines int
		color   string
	)

	cmd := &cobra.Command{
		Use:   "diff <current> <previous>",
		Short: "Print the diff between two revisions",
		Long: `Print a unified diff from previous to current, or with --json the full presentation: both values, their markers,
and the row mapping from current rows to previous rows.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if contextLines < 0 {
				return usageError{err: errors.New("--context must not be negative")}
			}
			useColor, err := colorEnabled(color, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			f, release, err := st.fetcher()
			if err != nil {
				return err
			}
			defer release()

			cur, prev, err := blobstore.FetchPair(cmd.Context(), f, args[0], args[1])
			if err != nil {
				return err
			}

			p := presentation.New(cur.Content, prev.Content, st.presentationOptions()...)
			st.logger.Debug("diff computed",
				logging.FieldCurrent, args[0],
				logging.FieldPrevious, args[1],
				logging.FieldOperations, len(p.Ops),
				logging.FieldMarkers, len(p.Markers[presentation.SideCurrent])+len(p.Markers[presentation.SidePrevious]),
			)

			out := cmd.OutOrStdout()
			if asJSON {
				resp := server.NewDiffResponse(p)
				if st.remote() {
					resp.CurrentID, resp.PreviousID = args[0], args[1]
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			rendered := linediff.Render(p.Ops, linediff.RenderOptions{
				Color:        useColor,
				ContextSize:  contextLines,
				CurrentName:  args[0],
				PreviousName: args[1],
			})
			if rendered == "" {
				return nil
			}
			_, err = io.WriteString(out, rendered+"\n")
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the presentation as JSON")
	cmd.Flags().IntVarP(&contextLines, "context", "U", 3, "unchanged lines shown around each change")
	cmd.Flags().StringVar(&color, "color", "auto", "colorize output: auto, always, or never")

	return cmd
}

// colorEnabled resolves --color. auto colors only when w is a terminal.
func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, usageError{err: fmt.Errorf("--color must be auto, always, or never (got %q)", mode)}
	}
}
