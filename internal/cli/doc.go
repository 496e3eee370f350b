// Package cli implements the artsel command line.
//
// The root command loads configuration and sets up logging for every
// subcommand, then runs the interactive browser when no subcommand is given.
// select and page are the scriptable forms of the browser's bulk selection
// and page view.
package cli
