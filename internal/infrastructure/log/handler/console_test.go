package handler

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler_PrefixAndAttrs(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With("module", "versioning", "component", "snapshot_service")

	logger.Info("Snapshot created", "snapshot_id", "s1", "version", 3)

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "[versioning/snapshot_service] Snapshot created")
	assert.Contains(t, out, "  snapshot_id=s1\n")
	assert.Contains(t, out, "  version=3\n")
	assert.NotContains(t, out, "module=")
}

func TestConsoleHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleHandler_Group(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	logger := slog.New(NewConsoleHandler(&buf, nil)).WithGroup("req").With("id", "r1")

	logger.Info("handled")

	assert.Contains(t, buf.String(), "  req.id=r1\n")
}
