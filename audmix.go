// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"log/slog"

	"github.com/ik5/audmix/internal/logging"
)

// SetLogger configures the logger for audmix and all its sub-packages.
// By default nothing is logged. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: playback and graph lifecycle (channels finishing,
//     evaluators created, bounces finished)
//   - [slog.LevelInfo]: device and system start and stop
//   - [slog.LevelWarn]: non-fatal failures (driver submit errors, script
//     errors)
//
// SetLogger is safe for concurrent use with logging from any goroutine,
// including the mixer.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the logger currently in use.
func Logger() *slog.Logger {
	return logging.Logger()
}
