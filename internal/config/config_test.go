package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("QKART_ENDPOINT", "")
	t.Setenv("QKART_TIMEOUT_MS", "")
	t.Setenv("QKART_DEBOUNCE_MS", "")
	t.Setenv("QKART_METRICS_ADDR", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:8082/api/v1", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, "qkart.log", cfg.LogFile)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QKART_ENDPOINT", "http://shop.example.com/api/v1/")
	t.Setenv("QKART_TIMEOUT_MS", "2500")
	t.Setenv("QKART_DEBOUNCE_MS", "100")
	t.Setenv("QKART_METRICS_ADDR", "127.0.0.1:9900")

	cfg := Load()

	// trailing slash trimmed so path joins stay clean
	assert.Equal(t, "http://shop.example.com/api/v1", cfg.Endpoint)
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, "127.0.0.1:9900", cfg.MetricsAddr)
}

func TestLoadIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("QKART_TIMEOUT_MS", "not-a-number")
	t.Setenv("QKART_DEBOUNCE_MS", "-5")

	cfg := Load()

	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
}
