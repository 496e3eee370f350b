package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/artsel/pkg/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, version.GetVersion())
				return err
			}
			fmt.Fprintf(out, "artsel %s\n", version.GetVersion())
			fmt.Fprintf(out, "  commit: %s\n", version.GetCommit())
			fmt.Fprintf(out, "  built:  %s\n", version.GetBuildDate())
			if !version.IsRelease() {
				fmt.Fprintln(out, "  (development build)")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}
