package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. Console mode renders human-readable
// output for interactive use; otherwise JSON lines go to stdout.
func New(level string, console bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	if console {
		w := zerolog.NewConsoleWriter()
		w.Out = os.Stderr
		w.TimeFormat = time.DateTime
		logger = logger.Output(w)
	}

	return logger
}
