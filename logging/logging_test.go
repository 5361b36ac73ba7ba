// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logging

import (
	"log/slog"
	"testing"
)

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, level := range []string{"debug", "info", "WARN", "error"} {
		flush, err := Setup(level, true)
		if err != nil {
			t.Fatalf("Setup(%q) error = %v", level, err)
		}
		flush()
	}

	if _, err := Setup("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Nop()
	if slog.Default().Enabled(t.Context(), slog.LevelError) {
		t.Error("Nop logger should not be enabled at any level")
	}
}

func TestSetupOff(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	flush, err := Setup("OFF", false)
	if err != nil {
		t.Fatalf("Setup(off) error = %v", err)
	}
	flush()
	if slog.Default().Enabled(t.Context(), slog.LevelError) {
		t.Error("off level should discard errors too")
	}
}
