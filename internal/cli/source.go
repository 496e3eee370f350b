package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/artsel/internal/cli/pagination"
	"github.com/rshade/artsel/internal/collection"
	"github.com/rshade/artsel/internal/config"
	"github.com/rshade/artsel/internal/logging"
	"github.com/rshade/artsel/internal/selection"
	"github.com/rshade/artsel/pkg/version"
)

// demoRecordCount is the size of the generated collection used by --demo.
const demoRecordCount = 2500

// Output formats accepted by --output.
const (
	outputTable  = "table"
	outputJSON   = "json"
	outputNDJSON = "ndjson"
)

// ErrUnsupportedOutput is returned for an unknown --output value.
var ErrUnsupportedOutput = errors.New("unsupported output format")

// sourceFlags are shared by every command that reads the collection.
type sourceFlags struct {
	demo     bool
	pageSize int
	dedupe   bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.demo, "demo", false, "use generated records instead of the remote collection")
	cmd.Flags().IntVar(&f.pageSize, "page-size", 0,
		fmt.Sprintf("rows per page, 1-%d (0 = table.page_size from config)", pagination.MaxPageSize))
	cmd.Flags().BoolVar(&f.dedupe, "dedupe", false, "skip records that are already selected")
}

// resolvePageSize returns the flag value, or the configured page size when unset.
func (f *sourceFlags) resolvePageSize(cfg *config.Config) int {
	if f.pageSize != 0 {
		return f.pageSize
	}
	return cfg.Table.PageSize
}

// newPageSource builds the collection client from configuration, or the
// in-memory demo collection.
func newPageSource(cfg *config.Config, demo bool) (collection.PageSource, error) {
	if demo {
		return collection.NewStaticSource(collection.DemoRecords(demoRecordCount)), nil
	}

	client, err := collection.NewClient(cfg.API.BaseURL,
		collection.WithUserAgent(userAgent(cfg.API.UserAgent)),
		collection.WithRateLimit(cfg.API.RequestsPerSecond),
		collection.WithTimeout(cfg.API.Timeout),
		collection.WithLogger(logging.ComponentLogger(baseLogger, "collection")),
	)
	if err != nil {
		return nil, fmt.Errorf("creating collection client: %w", err)
	}
	return client, nil
}

// newStore returns an empty selection configured from flags and config.
func newStore(cfg *config.Config, dedupe bool) *selection.Store {
	return selection.NewStore(
		selection.WithDeduplication(dedupe || cfg.Selection.Deduplicate),
		selection.WithLogger(baseLogger),
	)
}

// userAgent appends the binary version to the configured product name.
func userAgent(product string) string {
	if product == "" {
		product = config.DefaultUserAgent
	}
	if strings.Contains(product, "/") {
		return product
	}
	return product + "/" + version.GetVersion()
}

func validateOutput(output string) error {
	switch output {
	case outputTable, outputJSON, outputNDJSON:
		return nil
	default:
		return fmt.Errorf("%w: %s (want table, json or ndjson)", ErrUnsupportedOutput, output)
	}
}
