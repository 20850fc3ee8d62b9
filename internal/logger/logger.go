package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the process-wide logger.  Production environments get plain
// JSON on stderr; anything else gets the human-readable console writer.
func New(env string) zerolog.Logger {
	if env == "prod" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	return log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}
