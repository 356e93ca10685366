package observability

import (
	"log/slog"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/uk-accident-insights/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// installs it as the slog default. Debug mode forces the debug level.
func NewLogger(cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	return sharedobs.NewLogger(level, cfg.LogFormat)
}
