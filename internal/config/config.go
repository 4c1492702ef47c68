package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"construction_inventory_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns a lib/pq keyword/value connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// URL returns the postgres:// form used by the migration driver.
func (d DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Config is the full runtime configuration of the server.
type Config struct {
	DB               DBConfig
	Port             string
	AllowedOrigins   []string
	JWTSecret        string
	JWTTTL           time.Duration
	LogLevel         string
	LogFormat        string
	RunMigrations    bool
	MetricsEnabled   bool
	LowStockCronSpec string
}

// Load reads configuration from the environment. A .env file in the working
// directory (or at envFile when given) is loaded first if present; real
// environment variables win over it.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := Config{
		DB: DBConfig{
			Host:     utils.Getenv("DB_HOST", "localhost"),
			Port:     utils.Getenv("DB_PORT", "5432"),
			User:     utils.Getenv("DB_USER", "inventory_user"),
			Password: utils.Getenv("DB_PASSWORD", "inventory_password"),
			Name:     utils.Getenv("DB_NAME", "construction_inventory"),
			SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
		},
		Port:             utils.Getenv("PORT", "8080"),
		AllowedOrigins:   utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTTTL:           utils.GetenvDuration("JWT_TTL", 12*time.Hour),
		LogLevel:         utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:        utils.Getenv("LOG_FORMAT", "console"),
		RunMigrations:    utils.GetenvBool("DB_RUN_MIGRATIONS", true),
		MetricsEnabled:   utils.GetenvBool("METRICS_ENABLED", true),
		LowStockCronSpec: utils.Getenv("LOW_STOCK_REPORT_CRON", "0 7 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.Port == "" {
		return errors.New("PORT must not be empty")
	}
	return nil
}
