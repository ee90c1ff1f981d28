package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the component name. Console output in
// dev, JSON elsewhere, driven by APP_ENV.
func New(component string) zerolog.Logger {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "dev" || env == "local" {
		writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(writer).With().Timestamp().Str("component", component).Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("component", component).Logger()
}
