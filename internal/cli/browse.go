package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/artsel/internal/cli/pagination"
	"github.com/rshade/artsel/internal/config"
	"github.com/rshade/artsel/internal/tui"
)

// ErrNotATerminal is returned when browse runs without an interactive terminal.
var ErrNotATerminal = errors.New("browse needs an interactive terminal; use 'artsel page' or 'artsel select' instead")

// NewBrowseCmd creates the interactive browser command.
func NewBrowseCmd() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the collection interactively",
		Long: `Opens a table of the collection, one page at a time.

Keys:
  ←/→, pgup/pgdown  previous/next page
  space             select or deselect the highlighted row
  b                 select N rows starting from the current page
  v                 review the selection (x removes a row)
  c                 clear the selection
  r                 reload the current page
  q                 quit

Logs are written to ~/.artsel/logs/artsel.log unless logging.file is set.`,
		Example: `  # Browse the remote collection
  artsel browse

  # Browse generated records with 20 rows per page
  artsel browse --demo --page-size 20`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTUI: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBrowse(cmd, &flags)
		},
	}

	flags.register(cmd)
	return cmd
}

func runBrowse(cmd *cobra.Command, flags *sourceFlags) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	params := pagination.PaginationParams{Page: pagination.MinPage, PageSize: flags.resolvePageSize(cfg)}
	if err := params.Validate(); err != nil {
		return err
	}
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return ErrNotATerminal
	}

	source, err := newPageSource(cfg, flags.demo)
	if err != nil {
		return err
	}

	logger.Info().Ctx(ctx).
		Bool("demo", flags.demo).
		Int("page_size", params.PageSize).
		Msg("starting browser")

	return tui.RunBrowser(ctx, source, newStore(cfg, flags.dedupe), params.PageSize)
}
