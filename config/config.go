package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
)

// Config carries everything the process needs from the environment.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string
	BcryptCost  int
	LogLevel    string
	LogDev      bool
}

// Load reads configuration from environment variables. JWT_SECRET is
// mandatory: tokens signed with a guessable default would outlive any
// later fix, so startup refuses to continue without one.
func Load() (Config, error) {
	cfg := Config{
		Addr:        envOr("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		BcryptCost:  bcrypt.DefaultCost,
		LogLevel:    os.Getenv("LOG_LEVEL"),
		LogDev:      os.Getenv("LOG_DEV") == "1",
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET is required")
	}

	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

// NewLogger builds the process-wide zap logger from the log settings.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level := levelFromString(cfg.LogLevel, cfg.LogDev)

	if cfg.LogDev {
		c := zap.NewDevelopmentConfig()
		c.Level = zap.NewAtomicLevelAt(level)
		return c.Build()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

func levelFromString(level string, dev bool) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		if dev {
			return zapcore.DebugLevel
		}
		return zapcore.InfoLevel
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
