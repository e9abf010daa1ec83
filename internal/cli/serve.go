package cli

import (
	"github.com/spf13/cobra"

	"github.com/codalotl/blobdiff/internal/server"
)

func newServeCommand(st *state) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diff presentations over HTTP",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = st.cfg.Server.Addr
			}

			f, release, err := st.fetcher()
			if err != nil {
				return err
			}
			defer release()

			srv := server.New(f, server.Options{
				PresentationOptions: st.presentationOptions(),
				Logger:              st.logger,
			})
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr)")

	return cmd
}
