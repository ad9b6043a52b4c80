package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, SessionStorageMemory, cfg.Session.Storage)
	assert.Equal(t, time.Second, cfg.Auth.LoginDelay)
	assert.Equal(t, 1500*time.Millisecond, cfg.Auth.RegisterDelay)
	assert.Equal(t, time.Minute, cfg.Expiry.Interval)
	assert.Equal(t, "foodbridge", cfg.Events.SubjectPrefix)
	assert.Equal(t, time.Duration(0), cfg.Session.TTL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SESSION_STORAGE", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("AUTH_LOGIN_DELAY", "0s")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
	assert.Equal(t, time.Duration(0), cfg.Auth.LoginDelay)
	// unparsable values fall back to the default
	assert.Equal(t, time.Minute, cfg.Expiry.Interval)
	assert.Contains(t, cfg.Database.GetDSN(), "host=db.internal")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store:   StoreConfig{Driver: StoreDriverMemory},
			Session: SessionConfig{Storage: SessionStorageMemory},
			Events:  EventsConfig{SubjectPrefix: "foodbridge"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid memory config", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, "STORE_DRIVER"},
		{"postgres without host", func(c *Config) {
			c.Store.Driver = StoreDriverPostgres
			c.Database.Name = "foodbridge"
		}, "DB_HOST"},
		{"unknown session storage", func(c *Config) { c.Session.Storage = "cookie" }, "SESSION_STORAGE"},
		{"negative delay", func(c *Config) { c.Auth.LoginDelay = -time.Second }, "negative"},
		{"empty subject prefix", func(c *Config) { c.Events.SubjectPrefix = "" }, "EVENTS_SUBJECT_PREFIX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
