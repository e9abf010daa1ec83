package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/codalotl/blobdiff/internal/blobstore"
	"github.com/codalotl/blobdiff/internal/logging"
	"github.com/codalotl/blobdiff/internal/searchloader"
)

func newSearchCommand(st *state) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List repository blobs matching a query, newest first",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return usageError{err: errors.New("--pages must be at least 1")}
			}
			if st.local {
				return usageError{err: errors.New("search needs the repository; it cannot be used with --local")}
			}
			c, err := st.client()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			loader := searchloader.New(c, searchloader.Options{CountPreflight: st.cfg.Search.CountPreflight})
			if err := loader.Submit(ctx, args[0]); err != nil {
				return err
			}
			for i := 1; i < pages && !loader.Snapshot().Exhausted; i++ {
				if err := loader.LoadMore(ctx); err != nil {
					return err
				}
			}

			snap := loader.Snapshot()
			st.logger.Debug("search", logging.FieldQuery, snap.Query, logging.FieldItems, len(snap.Items))

			out := cmd.OutOrStdout()
			if len(snap.Items) == 0 {
				_, err := fmt.Fprintf(out, "no blobs match %q\n", snap.Query)
				return err
			}
			if _, err := fmt.Fprintln(out, searchTable(snap.Items)); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, searchSummary(snap))
			return err
		},
	}

	cmd.Flags().IntVar(&pages, "pages", 1, "number of result pages to load")

	return cmd
}

func searchTable(items []blobstore.Blob) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "TYPE", "SIZE", "UPLOADED")
	for _, b := range items {
		uploaded := ""
		if !b.UploadTime.IsZero() {
			uploaded = b.UploadTime.UTC().Format(time.RFC3339)
		}
		t.Row(b.ID, b.Name, b.Type, strconv.FormatInt(b.Size, 10), uploaded)
	}
	return t.String()
}

func searchSummary(snap searchloader.Snapshot) string {
	s := fmt.Sprintf("%d shown", len(snap.Items))
	if snap.Count >= 0 {
		s = fmt.Sprintf("%d of %d shown", len(snap.Items), snap.Count)
	}
	if !snap.Exhausted && (snap.Count < 0 || len(snap.Items) < snap.Count) {
		s += "; more available with --pages"
	}
	return s
}
