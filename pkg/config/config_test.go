package config

import (
	"os"
	"testing"
	"time"

	"github.com/opskit/stockroom/pkg/observability"
	"github.com/opskit/stockroom/pkg/storage"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{name: "returns true for 'true'", key: "TEST_BOOL", envValue: "true", want: true},
		{name: "returns true for '1'", key: "TEST_BOOL", envValue: "1", want: true},
		{name: "returns false for 'false'", key: "TEST_BOOL", defaultValue: true, envValue: "false", want: false},
		{name: "returns default when not set", key: "TEST_BOOL_NOT_SET", defaultValue: true, envValue: "", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "30s")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 30*time.Second {
		t.Errorf("getEnvDuration() = %v, want 30s", got)
	}
	if got := getEnvDuration("TEST_DURATION_NOT_SET", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() = %v, want 1m", got)
	}

	os.Setenv("TEST_DURATION_BAD", "not-a-duration")
	defer os.Unsetenv("TEST_DURATION_BAD")
	if got := getEnvDuration("TEST_DURATION_BAD", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() with invalid value = %v, want default", got)
	}
}

// TestParseLogLevel tests log level parsing
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"info", observability.InfoLevel},
		{"warn", observability.WarnLevel},
		{"warning", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"ERROR", observability.ErrorLevel},
		{"unknown", observability.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoadConfigDefaults tests that defaults load with only the secret set
func TestLoadConfigDefaults(t *testing.T) {
	os.Setenv("STOCKROOM_JWT_SECRET", "test-secret")
	defer os.Unsetenv("STOCKROOM_JWT_SECRET")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Server.HealthPort != "9090" {
		t.Errorf("Server.HealthPort = %v, want 9090", cfg.Server.HealthPort)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Errorf("Auth.TokenTTL = %v, want 1h", cfg.Auth.TokenTTL)
	}
	if cfg.Storage.Type != "sqlite" {
		t.Errorf("Storage.Type = %v, want sqlite", cfg.Storage.Type)
	}
	if !cfg.Sweeper.Enabled {
		t.Error("Sweeper.Enabled = false, want true")
	}
}

// TestLoadConfigMissingSecret tests that a missing JWT secret is rejected
func TestLoadConfigMissingSecret(t *testing.T) {
	os.Unsetenv("STOCKROOM_JWT_SECRET")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() without STOCKROOM_JWT_SECRET should fail")
	}
}

// TestValidate tests configuration validation rules
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "port collision", mutate: func(c *Config) { c.Server.HealthPort = c.Server.Port }, wantErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "zero token TTL", mutate: func(c *Config) { c.Auth.TokenTTL = 0 }, wantErr: true},
		{name: "unknown storage type", mutate: func(c *Config) { c.Storage.Type = "etcd" }, wantErr: true},
		{name: "postgres without URL", mutate: func(c *Config) { c.Storage.Type = "postgres" }, wantErr: true},
		{name: "sweeper without schedule", mutate: func(c *Config) { c.Sweeper.Schedule = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:  ServerConfig{Port: "8080", HealthPort: "9090"},
				Auth:    AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour},
				Storage: storage.DefaultConfig(),
				Sweeper: SweeperConfig{Enabled: true, Schedule: "@every 15m"},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
