package cli

import (
	"github.com/spf13/cobra"

	"github.com/codalotl/blobdiff/internal/blobstore"
	"github.com/codalotl/blobdiff/internal/tui"
)

func newViewCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "view <current> <previous>",
		Short: "Show two revisions side by side",
		Long: `Show the current revision on the left and the previous revision on the right. Moving the caret in the left pane
scrolls the right pane to the corresponding row.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, release, err := st.fetcher()
			if err != nil {
				return err
			}
			defer release()

			cur, prev, err := blobstore.FetchPair(cmd.Context(), f, args[0], args[1])
			if err != nil {
				return err
			}

			return tui.Run(cmd.Context(), tui.Config{
				Current:             cur.Content,
				Previous:            prev.Content,
				CurrentTitle:        title(cur, args[0]),
				PreviousTitle:       title(prev, args[1]),
				PresentationOptions: st.presentationOptions(),
			})
		},
	}
}

// title names a revision for headers: its blob name if it has one, else the identifier it was requested by.
func title(b blobstore.Blob, id string) string {
	if b.Name != "" && b.Name != id {
		return b.Name + " (" + id + ")"
	}
	return id
}
