package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はAPIサーバーの設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	// postgres://... の場合はPostgreSQL、sqlite:// または file: の場合はSQLiteを使用する。
	DatabaseURL string

	// Server
	ServerPort      string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	TrustProxy      bool

	// Rate Limit
	RateLimitPerMinute int
	RateLimitBurst     int

	// Logging
	LogLevel string

	// CORS
	CORSAllowedOrigins []string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.ServerPort = ServerPortFromEnv()
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	cfg.MaxBodyBytes = getEnvInt64("MAX_BODY_BYTES", 1<<20)
	cfg.TrustProxy = getEnvBool("TRUST_PROXY", false)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", 120)
	cfg.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 60)
	cfg.LogLevel = getEnvString("LOG_LEVEL", "info")
	cfg.CORSAllowedOrigins = splitList(getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000"))

	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive: %d", cfg.RateLimitPerMinute)
	}
	if cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive: %d", cfg.RateLimitBurst)
	}

	return cfg, nil
}

// ServerPortFromEnv はSERVER_PORT、PORTの順に待ち受けポートを解決する。
// いずれも未設定の場合は8080を返す。
// healthcheckサブコマンドのようにフル初期化をしない経路からも使用する。
func ServerPortFromEnv() string {
	if v := os.Getenv("SERVER_PORT"); v != "" {
		return v
	}
	return getEnvString("PORT", "8080")
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// splitList はカンマ区切りの値をトリムしてスライスに変換する。空要素は除外する。
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
