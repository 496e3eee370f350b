package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/artsel/internal/config"
	"github.com/rshade/artsel/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
// Commands that own the terminal log to a file so output does not corrupt the screen.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()
	_, tuiMode := cmd.Annotations[annotationTUI]

	debug, _ := cmd.Flags().GetBool("debug")
	switch {
	case tuiMode:
		if loggingCfg.File == "" {
			loggingCfg.File = config.DefaultLogFile()
		}
		if debug {
			loggingCfg.Level = "debug"
		}
	case debug:
		loggingCfg.Level = "debug"
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")
	baseLogger = result.Logger

	// The TUI's alternate screen would hide these notices.
	if !tuiMode {
		if result.UsingFile {
			logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
		} else if result.FallbackUsed {
			logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
		}
	} else if result.FallbackUsed {
		// Logging to stderr under the TUI would garble the screen.
		result.Logger = result.Logger.Level(zerolog.Disabled)
		logger = logger.Level(zerolog.Disabled)
		baseLogger = result.Logger
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging disabled: %s\n", result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	// The context carries the untagged logger; each package adds its own
	// component field.
	ctx = baseLogger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(cmd *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult == nil {
		return nil
	}
	logger.Debug().Ctx(cmd.Context()).Str("command", cmd.Name()).Msg("command finished")
	return logResult.Close()
}
