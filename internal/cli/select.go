package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/artsel/internal/cli/pagination"
	"github.com/rshade/artsel/internal/config"
)

// ErrInvalidCount is returned when --count is missing or negative.
var ErrInvalidCount = errors.New("--count must be >= 0")

// selectFlags holds the select command's options.
type selectFlags struct {
	sourceFlags
	count  int
	page   int
	output string
}

// NewSelectCmd creates the select command: load one page as the visible page,
// grow the selection from it and print what was selected.
func NewSelectCmd() *cobra.Command {
	var flags selectFlags

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Select N records starting from a page",
		Long: `Loads the given page as the visible page and selects --count records from it,
fetching further pages of the same size as needed. Records are selected in
collection order.

If a page fetch fails part way, the records gathered so far are still printed
and a warning is written to stderr; the exit status stays 0.`,
		Example: `  # Select the first 40 records
  artsel select --count 40

  # Select 100 records starting from page 3 with 25 rows per page
  artsel select --count 100 --page 3 --page-size 25

  # Emit one JSON object per selected record
  artsel select --count 15 --output ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSelect(cmd, &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVarP(&flags.count, "count", "n", 0, "number of records to select")
	cmd.Flags().IntVar(&flags.page, "page", pagination.MinPage, "page to start from (1-based)")
	cmd.Flags().StringVar(&flags.output, "output", outputTable, "Output format: table, json, ndjson")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}

func runSelect(cmd *cobra.Command, flags *selectFlags) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	if flags.count < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidCount, flags.count)
	}
	if err := validateOutput(flags.output); err != nil {
		return err
	}
	params := pagination.PaginationParams{Page: flags.page, PageSize: flags.resolvePageSize(cfg)}
	if err := params.Validate(); err != nil {
		return err
	}

	source, err := newPageSource(cfg, flags.demo)
	if err != nil {
		return err
	}

	visible, err := source.Page(ctx, params.Page, params.PageSize)
	if err != nil {
		logger.Error().Ctx(ctx).Err(err).Int("page", params.Page).Msg("failed to load starting page")
		return fmt.Errorf("loading page %d: %w", params.Page, err)
	}

	store := newStore(cfg, flags.dedupe)
	res, err := store.GrowFrom(ctx, flags.count, params.Page, params.PageSize, visible.Records, source)
	if err != nil {
		return fmt.Errorf("selecting records: %w", err)
	}

	logger.Debug().
		Ctx(ctx).
		Int("requested", res.Requested).
		Int("appended", res.Appended).
		Int("fetches", res.Fetches).
		Bool("exhausted", res.Exhausted).
		Msg("selection complete")

	if res.Warning != nil {
		cmd.PrintErrf("Warning: %v\n", res.Warning)
	}

	return renderSelection(cmd.OutOrStdout(), flags.output, res, store.Rows())
}
