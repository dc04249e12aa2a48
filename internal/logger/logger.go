package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// Setup configures the process-wide logger. Debug mode switches to the
// console writer with debug-level output; otherwise only warnings and
// above reach stderr, keeping the command output clean.
func Setup(debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if debug {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()
	}

	return logger
}
