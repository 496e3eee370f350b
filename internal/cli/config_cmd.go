package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/artsel/internal/config"
)

// ErrConfigExists is returned by config init when the file is already present.
var ErrConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Writes the default configuration to --config, or to $ARTSEL_HOME/config.yaml
(default ~/.artsel/config.yaml).`,
		Example: `  # Create the default configuration
  artsel config init

  # Overwrite an existing configuration
  artsel config init --force`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRawConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	if !force {
		if _, statErr := os.Stat(path); statErr == nil {
			return ErrConfigExists
		} else if !os.IsNotExist(statErr) {
			return fmt.Errorf("cannot access config path %s: %w", path, statErr)
		}
	}

	if err = config.New().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration initialized successfully")
	fmt.Fprintf(out, "Configuration file: %s\n", path)
	return nil
}

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Loads the configuration file and environment overrides and checks that
every value is usable: page size within 1-100, non-negative rate and timeout,
and an absolute http(s) API base URL.`,
		Example: `  # Validate current configuration
  artsel config validate

  # Validate and show the effective values
  artsel config validate --verbose`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRawConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the effective configuration")
	return cmd
}

func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration is valid")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// printVerboseDetails prints the effective configuration.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	timeout := "none"
	if cfg.API.Timeout > 0 {
		timeout = cfg.API.Timeout.String()
	}
	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = "stderr"
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration details:")
	fmt.Fprintf(out, "  API base URL: %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "  User agent: %s\n", userAgent(cfg.API.UserAgent))
	fmt.Fprintf(out, "  Requests per second: %g\n", cfg.API.RequestsPerSecond)
	fmt.Fprintf(out, "  Request timeout: %s\n", timeout)
	fmt.Fprintf(out, "  Page size: %d\n", cfg.Table.PageSize)
	fmt.Fprintf(out, "  Deduplicate: %t\n", cfg.Selection.Deduplicate)
	fmt.Fprintf(out, "  Logging level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Log file: %s\n", logFile)
}

// configPath returns --config, or the default config file location.
func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}
