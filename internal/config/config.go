package config

import (
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション設定を表す
type Config struct {
	Env      string
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Hub      HubConfig
	Geocode  GeocodeConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig はイベントストアの設定
type StoreConfig struct {
	// Backend は "postgres" または "memory"（組み込み・単一プロセス向け）
	Backend string
	// TxMaxAttempts は楽観的ロック競合時の最大試行回数
	TxMaxAttempts int
	// MigrationsPath はマイグレーションSQLのディレクトリ
	MigrationsPath string
}

// DatabaseConfig はデータベース設定
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	// FeedChannel はトピック変更を通知するPub/Subチャネル名
	FeedChannel string
}

// HubConfig は購読配信の設定
type HubConfig struct {
	// RefreshInterval は購読中トピックの定期再読み込み間隔
	// ストア障害後に配信を再開するための保険
	RefreshInterval time.Duration
}

// GeocodeConfig は逆ジオコーディングの設定
type GeocodeConfig struct {
	// BaseURL が空の場合、住所解決は無効
	BaseURL  string
	CacheTTL time.Duration
}

// Load は環境変数から設定を読み込む
func Load() *Config {
	return &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Store: StoreConfig{
			Backend:        getEnv("STORE_BACKEND", "postgres"),
			TxMaxAttempts:  getIntEnv("STORE_TX_MAX_ATTEMPTS", 5),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "socialsport"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getIntEnv("REDIS_DB", 0),
			FeedChannel: getEnv("REDIS_FEED_CHANNEL", "socialsport:topics"),
		},
		Hub: HubConfig{
			RefreshInterval: getDurationEnv("HUB_REFRESH_INTERVAL", 30*time.Second),
		},
		Geocode: GeocodeConfig{
			BaseURL:  getEnv("GEOCODE_BASE_URL", ""),
			CacheTTL: getDurationEnv("GEOCODE_CACHE_TTL", 24*time.Hour),
		},
	}
}

// DSN はPostgreSQL接続文字列を返す
func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
