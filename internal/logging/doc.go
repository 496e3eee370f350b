// Package logging builds the zerolog loggers used across artsel.
//
// It owns three concerns:
//   - constructing a logger from a Config (level, console or JSON format, stderr or file)
//   - carrying a logger and a trace ID through context.Context
//   - reporting where log output is going so the CLI can tell the user
//
// Components derive their logger with ComponentLogger or pull it from the
// request context with FromContext; they never construct their own.
package logging
