package util

import (
	"log/slog"
	"os"
)

// CloseFileFunc closes f and logs, rather than panics, on failure. Used from
// defers where returning the close error would shadow the caller's real
// error.
func CloseFileFunc(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("util: close file failed", "name", f.Name(), "err", err)
	}
}
