package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the storefront reads from the environment.
type Config struct {
	Endpoint       string
	RequestTimeout time.Duration
	DebounceWindow time.Duration
	LogFile        string
	MetricsAddr    string
}

// Load reads a .env file when present, then the environment. Missing keys
// fall back to defaults; nothing here is required.
func Load() Config {
	_ = godotenv.Load()

	timeoutMS, _ := strconv.Atoi(getenv("QKART_TIMEOUT_MS", "5000"))
	if timeoutMS <= 0 {
		timeoutMS = 5000
	}
	debounceMS, _ := strconv.Atoi(getenv("QKART_DEBOUNCE_MS", "500"))
	if debounceMS <= 0 {
		debounceMS = 500
	}

	return Config{
		Endpoint:       strings.TrimRight(getenv("QKART_ENDPOINT", "http://localhost:8082/api/v1"), "/"),
		RequestTimeout: time.Duration(timeoutMS) * time.Millisecond,
		DebounceWindow: time.Duration(debounceMS) * time.Millisecond,
		LogFile:        getenv("QKART_LOG_FILE", "qkart.log"),
		MetricsAddr:    strings.TrimSpace(os.Getenv("QKART_METRICS_ADDR")),
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
