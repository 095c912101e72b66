// Package cli implements the vibegraph command-line interface.
//
// This package provides commands for building the song graph from a music
// catalogue, rendering it to files, serving it over HTTP and exploring it in
// the terminal. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Build the graph of a catalogue and write it as JSON
//   - render: Generate JSON, DOT, SVG, PNG, PDF or frame outputs
//   - search: List songs, artists and vibes matching a query
//   - explore: Browse the graph interactively, keeping pins between runs
//   - seed: Write the sample catalogue to a file, SQLite or MongoDB
//   - serve: Run the HTTP API
//   - config, cache: Manage the config file and the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/vibegraph/internal/cli"
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Timestamps read "15:04:05.00" so that
// load, build and render steps of one command can be told apart.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one pipeline step (catalogue load, graph build) and logs
// its outcome with the elapsed time under the "took" key.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, for example
//
//	12:00:01.25 INFO Loaded catalogue source=sample songs=84 artists=10 vibes=10 took=3ms
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the command handlers.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default when the command runs without the root setup.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
