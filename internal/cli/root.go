package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/codalotl/blobdiff/internal/blobstore"
	"github.com/codalotl/blobdiff/internal/config"
	"github.com/codalotl/blobdiff/internal/linediff"
	"github.com/codalotl/blobdiff/internal/logging"
	"github.com/codalotl/blobdiff/internal/presentation"
)

// state is shared by the commands of one invocation. Persistent flags fill the first group; PersistentPreRunE fills the rest.
type state struct {
	info BuildInfo
	errW io.Writer

	configPath string
	debug      bool
	local      bool

	cfg    *config.Config
	logger *log.Logger
}

// newRootCommand returns the blobdiff command tree.
func newRootCommand(st *state) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blobdiff",
		Short: "Compare two revisions of a text document",
		Long: `blobdiff computes a line-granular diff between a current and a previous revision of a document and shows it as
a dual-pane viewer, a unified diff, JSON, or over HTTP.

Revisions are looked up in the blob repository when repository.url is configured, and read as local files otherwise.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: st.setup,
	}

	rootCmd.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (default: nearest "+config.FileName+")")
	rootCmd.PersistentFlags().BoolVar(&st.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&st.local, "local", false, "treat identifiers as local file paths even if a repository is configured")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	rootCmd.AddCommand(newViewCommand(st))
	rootCmd.AddCommand(newDiffCommand(st))
	rootCmd.AddCommand(newServeCommand(st))
	rootCmd.AddCommand(newSearchCommand(st))
	rootCmd.AddCommand(newVersionCommand(st.info))

	return rootCmd
}

// setup loads configuration and installs the logger for this invocation.
func (st *state) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Options{Path: st.configPath})
	if err != nil {
		return err
	}
	st.cfg = cfg

	level := cfg.Log.Level
	if st.debug {
		level = "debug"
	}

	// The viewer owns the terminal, so it only logs when a log file is configured.
	var w io.Writer = st.errW
	switch {
	case os.Getenv(logging.EnvLogFile) != "":
		w = logging.Destination()
	case cmd.Name() == "view":
		w = io.Discard
	}
	st.logger = logging.NewWithWriter(w, level)
	logging.SetDefault(st.logger)

	cmd.SetContext(logging.WithLogger(cmd.Context(), st.logger))

	if cfg.File != "" {
		st.logger.Debug("loaded config", logging.FieldPath, cfg.File)
	}
	return nil
}

// remote reports whether identifiers resolve through the repository API.
func (st *state) remote() bool {
	return !st.local && st.cfg.Remote()
}

func (st *state) client() (*blobstore.Client, error) {
	repo := st.cfg.Repository
	if repo.URL == "" {
		return nil, fmt.Errorf("no repository configured (set repository.url or %s_REPOSITORY_URL)", config.EnvPrefix)
	}
	return blobstore.NewClient(repo.URL, blobstore.WithAPIKey(repo.APIKey), blobstore.WithTimeout(repo.Timeout))
}

// fetcher returns how identifiers resolve, and a func releasing its resources.
func (st *state) fetcher() (blobstore.Fetcher, func(), error) {
	var f blobstore.Fetcher = blobstore.LocalStore{}
	if st.remote() {
		c, err := st.client()
		if err != nil {
			return nil, nil, err
		}
		f = c
	}

	if addr := st.cfg.Cache.RedisAddr; addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		st.logger.Debug("blob cache enabled", logging.FieldAddr, addr)
		return blobstore.CachedFetcher{Fetcher: f, Cache: blobstore.NewCache(rdb, st.cfg.Cache.TTL)}, func() { _ = rdb.Close() }, nil
	}
	return f, func() {}, nil
}

func (st *state) presentationOptions() []presentation.Option {
	opts := []presentation.Option{presentation.WithDiffOptions(linediff.Options{Timeout: st.cfg.Diff.Timeout})}
	if st.cfg.Diff.UTF16Columns {
		opts = append(opts, presentation.WithUTF16Columns())
	}
	return opts
}

// exactArgs is cobra.ExactArgs with the error marked as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err: err}
		}
		return nil
	}
}
