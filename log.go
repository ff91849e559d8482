package bypass

import "log/slog"

var pkgLogger *slog.Logger

// SetLogger replaces the logger used by debug-gated tracing. The registry
// has no internal synchronization, so call this before sharing the package
// across goroutines.
func SetLogger(l *slog.Logger) {
	pkgLogger = l
}

func logger() *slog.Logger {
	if pkgLogger != nil {
		return pkgLogger
	}
	return slog.Default()
}
