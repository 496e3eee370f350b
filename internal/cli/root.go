package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/artsel/internal/config"
	"github.com/rshade/artsel/internal/logging"
)

// Command annotations read by the root command's pre-run hook.
const (
	// annotationTUI marks commands that take over the terminal; their logs go to a file.
	annotationTUI = "artsel/tui"
	// annotationRawConfig marks commands that load the config file themselves.
	annotationRawConfig = "artsel/raw-config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// baseLogger is the untagged logger handed to the client and selection store,
// and carried by the command context.
var baseLogger zerolog.Logger //nolint:gochecknoglobals // Set once per command by setupLogging

// NewRootCmd creates the root Cobra command for the artsel CLI. Running it
// without a subcommand starts the interactive browser.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	browse := NewBrowseCmd()

	cmd := &cobra.Command{
		Use:     "artsel",
		Short:   "Browse a paged art collection and select records in bulk",
		Long:    "artsel: page through a remote artwork collection and build a selection, one row at a time or N rows at once",
		Version: ver,
		Example: rootCmdExample,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		RunE:          browse.RunE,
		Annotations:   browse.Annotations,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().AddFlagSet(browse.Flags())

	cmd.PersistentFlags().String("config", "", "config file (default $ARTSEL_HOME/config.yaml or ~/.artsel/config.yaml)")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().String("api-url", "", "collection API base URL (overrides config and "+config.EnvAPIURL+")")

	cmd.AddCommand(browse, NewSelectCmd(), NewPageCmd(), newConfigCmd(), NewVersionCmd())
	return cmd
}

const rootCmdExample = `  # Browse the collection interactively
  artsel

  # Browse generated records without network access
  artsel browse --demo

  # Select the first 40 records starting from page 1
  artsel select --count 40

  # Select 100 records starting from page 3, 25 rows per page, as JSON
  artsel select --count 100 --page 3 --page-size 25 --output json

  # Print one page with its pagination metadata
  artsel page --page 2

  # Write a default configuration file
  artsel config init`

// loadConfig loads the configuration file, applies flag overrides and
// installs the result as the global configuration.
func loadConfig(cmd *cobra.Command) error {
	if _, ok := cmd.Annotations[annotationRawConfig]; ok {
		config.SetGlobalConfig(config.New())
		return nil
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.API.BaseURL = apiURL
		if err = cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --api-url: %w", err)
		}
	}

	config.SetGlobalConfig(cfg)
	return nil
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd())
	return cmd
}
