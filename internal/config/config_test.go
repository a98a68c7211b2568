package config

import (
	"log/slog"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("database url is required", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")

		if _, err := LoadConfig(); err == nil {
			t.Fatal("expected error without DATABASE_URL")
		}
	})

	t.Run("missing auth backend settings get placeholders", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/mentorship")
		t.Setenv("CASDOOR_ENDPOINT", "")
		t.Setenv("CASDOOR_CLIENT_ID", "")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Casdoor.Endpoint != PlaceholderEndpoint {
			t.Errorf("endpoint = %q, want placeholder", cfg.Casdoor.Endpoint)
		}
		if cfg.Casdoor.ClientID != PlaceholderClientID {
			t.Errorf("client id = %q, want placeholder", cfg.Casdoor.ClientID)
		}
	})

	t.Run("provided auth backend settings are kept", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/mentorship")
		t.Setenv("CASDOOR_ENDPOINT", "https://auth.example.com")
		t.Setenv("CASDOOR_CLIENT_ID", "real-client")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Casdoor.Endpoint != "https://auth.example.com" {
			t.Errorf("endpoint = %q", cfg.Casdoor.Endpoint)
		}
		if cfg.Casdoor.ClientID != "real-client" {
			t.Errorf("client id = %q", cfg.Casdoor.ClientID)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/mentorship")
		t.Setenv("PORT", "")
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("KAFKA_BROKERS", "")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Port != "8080" {
			t.Errorf("port = %q, want 8080", cfg.Port)
		}
		if cfg.LogLevel != slog.LevelInfo {
			t.Errorf("log level = %v, want info", cfg.LogLevel)
		}
		if len(cfg.Kafka.Brokers) != 0 {
			t.Errorf("brokers = %v, want none", cfg.Kafka.Brokers)
		}
		if cfg.Kafka.Topic != "mentorship.events" {
			t.Errorf("topic = %q", cfg.Kafka.Topic)
		}
	})

	t.Run("kafka brokers split and trimmed", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/mentorship")
		t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092 ,")

		cfg, err := LoadConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Kafka.Brokers) != 2 {
			t.Fatalf("brokers = %v, want 2", cfg.Kafka.Brokers)
		}
		if cfg.Kafka.Brokers[0] != "broker-1:9092" || cfg.Kafka.Brokers[1] != "broker-2:9092" {
			t.Errorf("brokers = %v", cfg.Kafka.Brokers)
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
