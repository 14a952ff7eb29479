package kvstore

import (
	"fmt"
	"log/slog"
	"strings"
)

// slogAdapter forwards badger's printf-style logging to a slog.Logger.
type slogAdapter struct {
	l *slog.Logger
}

func (a slogAdapter) Errorf(format string, args ...any) {
	a.l.Error(sprintf(format, args...), "component", "badger")
}

func (a slogAdapter) Warningf(format string, args ...any) {
	a.l.Warn(sprintf(format, args...), "component", "badger")
}

func (a slogAdapter) Infof(format string, args ...any) {
	a.l.Info(sprintf(format, args...), "component", "badger")
}

func (a slogAdapter) Debugf(format string, args ...any) {
	a.l.Debug(sprintf(format, args...), "component", "badger")
}

// badger terminates most messages with a newline.
func sprintf(format string, args ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
