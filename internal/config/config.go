package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is only accepted when APP_ENV is dev or test.
const DevJWTSecret = "dev_secret_change_me"

type Config struct {
	Env  string
	Port int

	DBDriver   string
	DBURL      string
	SQLitePath string
	DBMaxConns int32

	JWTSecret  string
	JWTAlg     string
	BcryptCost int

	UploadBackend  string
	UploadDir      string
	UploadMaxBytes int64
	MaxJSONBytes   int64

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	DesignsCacheTTL time.Duration

	CORSAllowedOrigins []string

	OTelEndpoint    string
	OTelServiceName string
	OTelSampleRatio float64
	OTelInsecure    bool
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")

	return Config{
		Env:  env,
		Port: getEnvInt("PORT", 4000),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBURL:      getEnv("DATABASE_URL", buildDBURL()),
		SQLitePath: getEnv("SQLITE_PATH", "designhub.sqlite"),
		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 5)),

		JWTSecret:  getEnv("JWT_SECRET", devSecretFor(env)),
		JWTAlg:     getEnv("JWT_ALG", "HS256"),
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		UploadBackend:  strings.ToLower(getEnv("UPLOAD_BACKEND", "disk")),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes: getEnvInt64("UPLOAD_MAX_BYTES", 20<<20),
		MaxJSONBytes:   getEnvInt64("MAX_JSON_BYTES", 10<<20),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "designhub-uploads"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		DesignsCacheTTL: getEnvDuration("DESIGNS_CACHE_TTL", 5*time.Minute),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "designhub-api"),
		OTelSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),
		OTelInsecure:    getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
	}
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "test"
}

// Validate rejects settings the server must not start with.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if !c.IsDev() && c.JWTSecret == DevJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set outside dev"))
	}

	switch c.JWTAlg {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALG %q is not supported", c.JWTAlg))
	}

	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case "postgres":
		if c.DBURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not supported", c.DBDriver))
	}

	switch c.UploadBackend {
	case "disk":
		if c.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required for the disk backend"))
		}
	case "minio":
		if c.MinioEndpoint == "" || c.MinioBucket == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("UPLOAD_BACKEND %q is not supported", c.UploadBackend))
	}

	if c.UploadMaxBytes <= 0 || c.MaxJSONBytes <= 0 {
		errs = append(errs, errors.New("body size limits must be positive"))
	}

	return errors.Join(errs...)
}

func devSecretFor(env string) string {
	if env == "dev" || env == "test" {
		return DevJWTSecret
	}
	return ""
}

// buildDBURL assembles a DSN from the DB_* parts, escaping credentials.
func buildDBURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("DB_USER", "designhub"), getEnv("DB_PASSWORD", "designhub")),
		Host:     net.JoinHostPort(getEnv("DB_HOST", "127.0.0.1"), getEnv("DB_PORT", "5432")),
		Path:     "/" + getEnv("DB_NAME", "designhub"),
		RawQuery: url.Values{"sslmode": {getEnv("DB_SSLMODE", "disable")}}.Encode(),
	}
	return u.String()
}

// WithTimeout bounds a store call by the request context, falling back to
// Background for callers outside a request.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env, using default", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			slog.Warn("invalid integer env, using default", "key", key, "value", v)
			return fallback
		}
		return num
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			slog.Warn("invalid float env, using default", "key", key, "value", v)
			return fallback
		}
		return f
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env, using default", "key", key, "value", v)
			return fallback
		}
		return d
	}
	return fallback
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
