package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("ADDR", ":9000")

	cfg := LoadConfig()

	assert.Equal(t, "postgres://localhost/blog", cfg.DBUrl)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigBadTokenTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/blog")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("TOKEN_TTL", "one day")

	cfg := LoadConfig()

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
	assert.NoError(t, cfg.ValidateDatabase())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "complete",
			cfg:     Config{DBDriver: "sqlite", DBUrl: "blog.db", JWTSecret: "s", TokenTTL: time.Hour},
			wantErr: false,
		},
		{
			name:    "missing secret",
			cfg:     Config{DBDriver: "postgres", DBUrl: "x", TokenTTL: time.Hour},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			cfg:     Config{DBDriver: "oracle", DBUrl: "x", JWTSecret: "s", TokenTTL: time.Hour},
			wantErr: true,
		},
		{
			name:    "zero ttl",
			cfg:     Config{DBDriver: "mysql", DBUrl: "x", JWTSecret: "s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDatabase(t *testing.T) {
	cfg := Config{DBDriver: "sqlite", DBUrl: "blog.db"}
	assert.NoError(t, cfg.ValidateDatabase())
	assert.Error(t, cfg.Validate(), "no JWT secret")

	cfg.DBUrl = ""
	assert.Error(t, cfg.ValidateDatabase())
}
