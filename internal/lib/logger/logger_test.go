package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linemk/coin-users/internal/lib/logger"
)

func TestNew_ProdIsJSONInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.EnvProd, &buf)

	log.Debug("hidden")
	log.Info("visible", slog.String("op", "test"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug must be filtered in prod")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "test", rec["op"])
}

func TestNew_DevKeepsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger.New(logger.EnvDev, &buf).Debug("debug line")

	assert.Contains(t, buf.String(), "debug line")
}

func TestNew_LocalPretty(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.EnvLocal, &buf).With(slog.String("op", "pretty"))

	log.Info("hello", slog.Int("n", 1))

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, `"op": "pretty"`)
	assert.Contains(t, out, `"n": 1`)
}

func TestNew_LocalPrettyKeepsErrorText(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.EnvLocal, &buf).With(slog.Any("cause", errors.New("pool exhausted")))

	log.Error("boom", slog.Any("error", errors.New("db down")))

	out := buf.String()
	assert.Contains(t, out, `"error": "db down"`)
	assert.Contains(t, out, `"cause": "pool exhausted"`)
	assert.NotContains(t, out, "{}")
}
