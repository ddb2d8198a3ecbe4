package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "chartcalc", slog.LevelInfo, "json")
	l.Debug("hidden")
	l.Info("computed", "points", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "chartcalc", rec["service"])
	assert.Equal(t, "computed", rec["msg"])
	assert.Equal(t, 3.0, rec["points"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "chartcalc", slog.LevelDebug, "text").Debug("hello")
	assert.Contains(t, buf.String(), "service=chartcalc")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RunID(ctx))

	ctx = WithRunID(ctx, "01HZX")
	assert.Equal(t, "01HZX", RunID(ctx))

	var buf bytes.Buffer
	l := New(&buf, "chartcalc", slog.LevelInfo, "json")
	FromContext(ctx, l).Info("run")
	assert.Contains(t, buf.String(), `"run_id":"01HZX"`)

	buf.Reset()
	FromContext(context.Background(), l).Info("run")
	assert.NotContains(t, buf.String(), "run_id")
}
