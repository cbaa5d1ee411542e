package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	applog "userapi/internal/log"
)

type Config struct {
	Port string

	DBDriver          string // sqlite | mysql | postgres
	DBDSN             string
	DBQueryTimeout    time.Duration
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	LogFile   string
	LogLevel  string
	LogFormat string

	BcryptCost      int
	EmailPattern    string
	PasswordPattern string

	// StrictNotFound answers 404 on unknown ids and checks existence before
	// an update. Off keeps the legacy 200 + error envelope.
	StrictNotFound bool

	RateLimitMax  int
	CreateRateMax int
	CORSOrigins   string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	BodyLimit     int
}

// Defaults returns the configuration used when no environment is set.
func Defaults() Config {
	return Config{
		Port:              "8080",
		DBDriver:          "sqlite",
		DBDSN:             "userapi.db",
		DBQueryTimeout:    5 * time.Second,
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: 30 * time.Minute,
		LogFile:           "",
		LogLevel:          "info",
		LogFormat:         "json",
		BcryptCost:        bcrypt.DefaultCost,
		StrictNotFound:    false,
		RateLimitMax:      120,
		CreateRateMax:     10,
		CORSOrigins:       "*",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		BodyLimit:         1 << 20, // 1 MiB
	}
}

func Load() Config {
	d := Defaults()
	cfg := Config{
		Port:              getEnv("PORT", d.Port),
		DBDriver:          strings.ToLower(getEnv("DB_DRIVER", d.DBDriver)),
		DBDSN:             getEnv("DB_DSN", d.DBDSN),
		DBQueryTimeout:    getDuration("DB_QUERY_TIMEOUT", d.DBQueryTimeout),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", d.DBMaxOpenConns),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", d.DBMaxIdleConns),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", d.DBConnMaxLifetime),
		LogFile:           getEnv("LOG_FILE", d.LogFile),
		LogLevel:          getEnv("LOG_LEVEL", d.LogLevel),
		LogFormat:         getEnv("LOG_FORMAT", d.LogFormat),
		BcryptCost:        getInt("BCRYPT_COST", d.BcryptCost),
		EmailPattern:      getEnv("EMAIL_PATTERN", ""),
		PasswordPattern:   getEnv("PASSWORD_PATTERN", ""),
		StrictNotFound:    getBool("STRICT_NOT_FOUND", d.StrictNotFound),
		RateLimitMax:      getInt("RATE_LIMIT_MAX", d.RateLimitMax),
		CreateRateMax:     getInt("CREATE_RATE_MAX", d.CreateRateMax),
		CORSOrigins:       getEnv("CORS_ORIGINS", d.CORSOrigins),
		ReadTimeout:       getDuration("READ_TIMEOUT", d.ReadTimeout),
		WriteTimeout:      getDuration("WRITE_TIMEOUT", d.WriteTimeout),
		BodyLimit:         getInt("BODY_LIMIT", d.BodyLimit),
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		applog.Logger().Warn().Int("value", cfg.BcryptCost).Msg("[config] BCRYPT_COST out of range, using default")
		cfg.BcryptCost = d.BcryptCost
	}

	// DSN may carry credentials, so only the driver is logged.
	applog.Logger().Info().
		Str("port", cfg.Port).
		Str("db_driver", cfg.DBDriver).
		Str("log_file", cfg.LogFile).
		Bool("strict_not_found", cfg.StrictNotFound).
		Int("bcrypt_cost", cfg.BcryptCost).
		Msg("[config] loaded")
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		applog.Logger().Warn().Str("key", key).Str("value", v).Msg("[config] not an integer, using default")
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		applog.Logger().Warn().Str("key", key).Str("value", v).Msg("[config] not a duration, using default")
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		applog.Logger().Warn().Str("key", key).Str("value", v).Msg("[config] not a bool, using default")
		return fallback
	}
	return b
}
