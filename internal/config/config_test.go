package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Auth.DevMode())
	assert.Equal(t, "log", cfg.Email.Driver)
	assert.Equal(t, 1, cfg.Reminders.AppointmentLeadDays)
	assert.Equal(t, 7, cfg.Reminders.VaccineMaxLeadDays)

	p, err := cfg.Clinic.BookingPolicy()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, p.OpensAt)
	assert.Equal(t, 18*time.Hour, p.ClosesAt)
	assert.Equal(t, []time.Weekday{time.Sunday}, p.ClosedDays)
	assert.Equal(t, 30, p.MaxDaysAhead)
	assert.Equal(t, "America/Bogota", p.Location.String())
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
clinic:
  timezone: UTC
  opens_at: "09:30"
  closes_at: "17:00"
  closed_days: "saturday, sunday"
email:
  driver: smtp
  smtp_host: mail.local
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("CLINIC_MAX_DAYS_AHEAD", "14")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)

	p, err := cfg.Clinic.BookingPolicy()
	require.NoError(t, err)
	assert.Equal(t, 9*time.Hour+30*time.Minute, p.OpensAt)
	assert.Equal(t, []time.Weekday{time.Saturday, time.Sunday}, p.ClosedDays)
	assert.Equal(t, 14, p.MaxDaysAhead)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8080},
			Log:       LogConfig{Level: "info", Format: "text"},
			Clinic:    ClinicConfig{Timezone: "UTC", OpensAt: "08:00", ClosesAt: "18:00", ClosedDays: "sunday", MaxDaysAhead: 30},
			Reminders: RemindersConfig{AppointmentLeadDays: 1, VaccineMaxLeadDays: 7},
			Email:     EmailConfig{Driver: "log"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }},
		{"bad timezone", func(c *Config) { c.Clinic.Timezone = "Mars/Olympus" }},
		{"closes before opens", func(c *Config) { c.Clinic.ClosesAt = "07:00" }},
		{"bad weekday", func(c *Config) { c.Clinic.ClosedDays = "domingo" }},
		{"smtp without host", func(c *Config) { c.Email.Driver = "smtp" }},
		{"unknown driver", func(c *Config) { c.Email.Driver = "pigeon" }},
		{"zero vaccine lead", func(c *Config) { c.Reminders.VaccineMaxLeadDays = 0 }},
	}

	base := valid()
	require.NoError(t, base.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
