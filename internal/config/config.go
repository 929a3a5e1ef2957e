package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	StorageLocal = "local"
	StorageMinio = "minio"
)

type Config struct {
	AppPort  string
	LogLevel string

	DBDriver   string
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTLSecs int
	SessionCookie  string
	SessionSecure  bool

	IdempTTLSecs int

	UploadRoot          string
	MaxUploadMB         int
	DefaultInterestRate float64

	StorageDriver  string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getbool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func getfloat(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

// Load reads the environment, after an optional .env in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppPort:  getenv("APP_PORT", "8080"),
		LogLevel: strings.ToLower(getenv("LOG_LEVEL", "info")),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		SQLitePath: getenv("SQLITE_PATH", "portfolio.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "tuka"),
		MySQLUser: getenv("MYSQL_USER", "tuka"),
		MySQLPass: getenv("MYSQL_PASS", "tuka"),

		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		SessionTTLSecs: getint("SESSION_TTL_SECONDS", 7200),
		SessionCookie:  getenv("SESSION_COOKIE", "tuka_session"),
		SessionSecure:  getbool("SESSION_SECURE", false),

		IdempTTLSecs: getint("IDEMPOTENCY_TTL_SECONDS", 300),

		UploadRoot:          getenv("UPLOAD_ROOT", "static/uploads"),
		MaxUploadMB:         getint("MAX_UPLOAD_MB", 16),
		DefaultInterestRate: getfloat("DEFAULT_INTEREST_RATE", 0.30),

		StorageDriver:  strings.ToLower(getenv("STORAGE_DRIVER", StorageLocal)),
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "tuka-uploads"),
		MinioUseSSL:    getbool("MINIO_USE_SSL", false),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.StorageDriver {
	case StorageLocal:
		if c.UploadRoot == "" {
			return errors.New("missing UPLOAD_ROOT")
		}
	case StorageMinio:
		if c.MinioEndpoint == "" || c.MinioAccessKey == "" || c.MinioSecretKey == "" || c.MinioBucket == "" {
			return errors.New("missing MinIO config (MINIO_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET)")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_MB %d", c.MaxUploadMB)
	}
	if c.DefaultInterestRate < 0 {
		return fmt.Errorf("invalid DEFAULT_INTEREST_RATE %v", c.DefaultInterestRate)
	}
	if c.SessionTTLSecs <= 0 {
		return fmt.Errorf("invalid SESSION_TTL_SECONDS %d", c.SessionTTLSecs)
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

// SQLiteDSN enables foreign keys so ON DELETE CASCADE is honoured.
func (c *Config) SQLiteDSN() string {
	return c.SQLitePath + "?_foreign_keys=on&_busy_timeout=5000"
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverMySQL {
		return c.MySQLDSN()
	}
	return c.SQLiteDSN()
}

// MaxUploadBytes is the request body ceiling for multipart submissions.
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) << 20 }
