package config

import (
	"os"
	"strconv"
	"time"

	"github.com/ossi-austria/amigo-server-sub000/internal/database"
)

// Config amigo-server (HTTP API) configuration.
type Config struct {
	HTTP struct {
		Addr string
	}
	Database database.Config
	Redis    struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level  string
		Format string
	}
	JWT     JWTConfig
	Jitsi   JitsiConfig
	FCM     FCMConfig
	Storage StorageConfig
	Metrics MetricsConfig
}

// JWTConfig configures issuance of access and refresh tokens.
type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// JitsiConfig configures room-access tokens for the external video service.
type JitsiConfig struct {
	Host   string // e.g. "meet.example.org"
	AppID  string
	Secret string
	TTL    time.Duration
}

// FCMConfig configures the push notification client. When CredentialsFile is
// absent, the no-op notifier is used.
type FCMConfig struct {
	Endpoint        string
	ProjectID       string
	CredentialsFile string
	Timeout         time.Duration
}

// StorageConfig configures the on-disk file store for avatars and multimedia.
type StorageConfig struct {
	Root string
}

// MetricsConfig configures the background gauge refresh.
type MetricsConfig struct {
	UpdateInterval time.Duration
}

func Load() *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "amigo")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.JWT.Secret = getEnv("JWT_SECRET", "change-me-in-production")
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", "amigo-platform")
	cfg.JWT.AccessTTL = parseDuration(getEnv("JWT_ACCESS_TTL", "15m"), 15*time.Minute)
	cfg.JWT.RefreshTTL = parseDuration(getEnv("JWT_REFRESH_TTL", "720h"), 720*time.Hour)

	cfg.Jitsi.Host = getEnv("JITSI_HOST", "meet.jitsi")
	cfg.Jitsi.AppID = getEnv("JITSI_APP_ID", "amigo")
	cfg.Jitsi.Secret = getEnv("JITSI_SECRET", "")
	cfg.Jitsi.TTL = parseDuration(getEnv("JITSI_TOKEN_TTL", "2h"), 2*time.Hour)

	cfg.FCM.Endpoint = getEnv("FCM_ENDPOINT", "https://fcm.googleapis.com")
	cfg.FCM.ProjectID = getEnv("FCM_PROJECT_ID", "")
	cfg.FCM.CredentialsFile = getEnv("FCM_CREDENTIALS_FILE", "")
	cfg.FCM.Timeout = parseDuration(getEnv("FCM_TIMEOUT", "10s"), 10*time.Second)

	cfg.Storage.Root = getEnv("STORAGE_ROOT", "./data/files")

	cfg.Metrics.UpdateInterval = parseDuration(getEnv("METRICS_UPDATE_INTERVAL", "30s"), 30*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
