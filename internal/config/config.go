package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment. A .env file
// in the working directory is honored when present; real environment
// variables win over it.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// BankAPIBaseURL is the base URL of the external banking API.
	BankAPIBaseURL string

	// BankClientID and BankSecret authenticate this service against the
	// banking API. They are sent in request bodies, never logged.
	BankClientID string
	BankSecret   string

	// ConnectionsFile is the path to the connection registry file consumed
	// by the file-backed connection source.
	ConnectionsFile string

	// GeminiAPIKey enables AI classification. When empty, every transaction
	// is labeled "Other" and no external classification call is made.
	GeminiAPIKey string

	// GeminiModel is the model used for classification calls.
	GeminiModel string

	// FetchTimeout bounds each banking API call.
	FetchTimeout time.Duration

	// ClassifyTimeout bounds each classification call.
	ClassifyTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults suitable
// for local development against the banking sandbox.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		BankAPIBaseURL:  getEnv("BANK_API_BASE_URL", "https://sandbox.plaid.com"),
		BankClientID:    os.Getenv("BANK_CLIENT_ID"),
		BankSecret:      os.Getenv("BANK_SECRET"),
		ConnectionsFile: getEnv("CONNECTIONS_FILE", "connections.json"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		FetchTimeout:    getDurationSeconds("FETCH_TIMEOUT_SECONDS", 15*time.Second),
		ClassifyTimeout: getDurationSeconds("CLASSIFY_TIMEOUT_SECONDS", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationSeconds(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
