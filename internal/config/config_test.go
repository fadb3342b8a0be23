package config

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "WORKER_COUNT", "JOB_TTL", "RATE_LIMIT_RPS", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, time.Hour, cfg.JobTTL)
	assert.Equal(t, 10.0, cfg.RateLimitRPS)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("WORKER_COUNT", "8")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 8, cfg.WorkerCount)
	assert.Equal(t, 5*time.Minute, cfg.JobTTL)
	assert.False(t, cfg.PDFFallbackPdftotext)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("MAX_QUEUE_SIZE", "lots")
	t.Setenv("JOB_TTL", "soon")

	cfg := Load()
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 100, cfg.MaxQueueSize)
	assert.Equal(t, time.Hour, cfg.JobTTL)
}

func TestValidate(t *testing.T) {
	cfg := Config{WorkspaceDir: filepath.Join(t.TempDir(), "ws")}
	assert.Error(t, cfg.Validate())

	cfg.APIKey = "secret"
	require.NoError(t, cfg.Validate())
	assert.DirExists(t, cfg.WorkspaceDir)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger("warn", "text", &buf)
	log.Info("hidden")
	log.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "k=v")

	buf.Reset()
	NewLogger("bogus", "json", &buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
