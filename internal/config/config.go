package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr       string
	DBDriver   string
	DBUrl      string
	DBLogLevel string
	JWTSecret  string
	TokenTTL   time.Duration
	GinMode    string

	ttlErr error
}

// LoadConfig lit l'environnement (et un éventuel fichier .env).
func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:       getenv("ADDR", ":8080"),
		DBDriver:   getenv("DB_DRIVER", "postgres"),
		DBUrl:      os.Getenv("DATABASE_URL"),
		DBLogLevel: getenv("DB_LOG_LEVEL", "warn"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   24 * time.Hour,
		GinMode:    getenv("GIN_MODE", "release"),
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			cfg.ttlErr = fmt.Errorf("TOKEN_TTL illisible %q: %w", ttl, err)
		} else {
			cfg.TokenTTL = d
		}
	}

	return cfg
}

// Validate vérifie les champs requis avant le démarrage du serveur.
func (c *Config) Validate() error {
	errs := []error{c.ValidateDatabase()}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET manquant"))
	}
	if c.ttlErr != nil {
		errs = append(errs, c.ttlErr)
	} else if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL invalide: %s", c.TokenTTL))
	}
	return errors.Join(errs...)
}

// ValidateDatabase suffit aux commandes qui ne servent pas HTTP.
func (c *Config) ValidateDatabase() error {
	var errs []error
	if c.DBUrl == "" {
		errs = append(errs, errors.New("DATABASE_URL manquant"))
	}
	switch c.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER inconnu: %q", c.DBDriver))
	}
	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
