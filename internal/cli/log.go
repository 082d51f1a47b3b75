package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes to w (stderr for commands) so that PDF or JSON on stdout
// stays clean.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logElapsed reports a finished typeset or render step, e.g.
// "Rendered formula.pdf took=12ms".
func logElapsed(l *log.Logger, start time.Time, msg string) {
	l.Info(msg, "took", time.Since(start).Round(time.Millisecond))
}

type ctxKey int

// The root command stores the logger and the loaded Config on the command
// context for subcommands.
const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext falls back to log.Default() for commands run without the root.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
