package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))

	WithComponent("decks").Info("imported deck")

	out := buf.String()
	assert.Contains(t, out, `"component":"decks"`)
	assert.Contains(t, out, `"imported deck"`)
}

func TestSetup_LevelFiltering(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	Setup("warn", "text")
	assert.False(t, slog.Default().Enabled(nil, slog.LevelInfo))
	assert.True(t, slog.Default().Enabled(nil, slog.LevelWarn))

	Setup("debug", "json")
	assert.True(t, slog.Default().Enabled(nil, slog.LevelDebug))
}
