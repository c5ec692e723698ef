package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	HTTP  HTTPConfig
	DB    DBConfig
	Log   LogConfig
	Admin AdminConfig

	// Dos puntos más cercanos que esto (en metros) se consideran el mismo
	// punto geográfico al crear/actualizar locations.
	MinLocationDistanceMeters float64
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	// DSN vacío = repos in-memory (modo dev).
	DSN string
}

type LogConfig struct {
	Level  string
	Format string
}

// AdminConfig siembra la cuenta admin inicial al arrancar con el storage
// vacío. Ambos campos vacíos = no sembrar.
type AdminConfig struct {
	Email    string
	Password string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	cfg := &Config{
		Env: getEnv("ENV", "local"),
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", ":8080"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		MinLocationDistanceMeters: getEnvFloat("MIN_LOCATION_DISTANCE_METERS", 30),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Port == "" || c.HTTP.Port[0] != ':' {
		return errors.New("HTTP_PORT must start with ':' like ':8080'")
	}
	if c.MinLocationDistanceMeters < 0 {
		return errors.New("MIN_LOCATION_DISTANCE_METERS must be >= 0")
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
