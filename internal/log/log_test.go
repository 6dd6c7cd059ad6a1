package log

import (
	"context"
	"log/slog"
	"testing"
)

func TestInitInstallsDefault(t *testing.T) {
	Init("debug")
	// Later calls keep the first level.
	Init("error")

	if slog.Default() != L() {
		t.Error("Init should install the logger as the slog default")
	}
	if !L().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level not enabled")
	}
	if With("service", "aura") == nil {
		t.Error("With returned nil")
	}

	Debug("debug line", "k", 1)
	Info("info line", "k", 2)
}
