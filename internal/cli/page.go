package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/artsel/internal/cli/pagination"
	"github.com/rshade/artsel/internal/config"
)

// pageFlags holds the page command's options.
type pageFlags struct {
	sourceFlags
	page   int
	output string
}

// NewPageCmd creates the page command, which prints one page of the collection.
func NewPageCmd() *cobra.Command {
	var flags pageFlags

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Print one page of the collection",
		Example: `  # Print the first page
  artsel page

  # Print page 5 with 50 rows as JSON, including pagination metadata
  artsel page --page 5 --page-size 50 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, &flags)
		},
	}

	flags.register(cmd)
	// Selection does not apply to a single page listing.
	_ = cmd.Flags().MarkHidden("dedupe")
	cmd.Flags().IntVar(&flags.page, "page", pagination.MinPage, "page to print (1-based)")
	cmd.Flags().StringVar(&flags.output, "output", outputTable, "Output format: table, json, ndjson")

	return cmd
}

func runPage(cmd *cobra.Command, flags *pageFlags) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

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

	page, err := source.Page(ctx, params.Page, params.PageSize)
	if err != nil {
		logger.Error().Ctx(ctx).Err(err).Int("page", params.Page).Msg("failed to load page")
		return fmt.Errorf("loading page %d: %w", params.Page, err)
	}

	meta := pagination.NewPaginationMeta(params, page.Pagination.Total, len(page.Records))
	return renderPage(cmd.OutOrStdout(), flags.output, meta, page.Records)
}
