package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TUTOR_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Server.Addr)
	}
	if cfg.Webhook.Timeout != 120*time.Second {
		t.Fatalf("expected default timeout 120s, got %v", cfg.Webhook.Timeout)
	}
}

func TestLoadServerAddr(t *testing.T) {
	cases := []struct {
		port string
		want string
	}{
		{"9090", ":9090"},
		{":9090", ":9090"},
		{"127.0.0.1:9090", "127.0.0.1:9090"},
	}

	for _, tc := range cases {
		t.Setenv("PORT", tc.port)
		cfg, err := loadServerConfig()
		if err != nil {
			t.Fatalf("PORT=%q: %v", tc.port, err)
		}
		if cfg.Addr != tc.want {
			t.Fatalf("PORT=%q: got %q, want %q", tc.port, cfg.Addr, tc.want)
		}
	}
}

func TestLoadServerAddrRejectsSpaces(t *testing.T) {
	t.Setenv("PORT", "80 80")
	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for PORT with spaces")
	}
}

func TestLoadWebhookTimeout(t *testing.T) {
	t.Setenv("TUTOR_TIMEOUT_SECONDS", "30")
	cfg, err := loadWebhookConfig()
	if err != nil {
		t.Fatalf("loadWebhookConfig: %v", err)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("expected 30s, got %v", cfg.Timeout)
	}
}

func TestLoadWebhookTimeoutRejectsNonPositive(t *testing.T) {
	for _, value := range []string{"0", "-5", "abc"} {
		t.Setenv("TUTOR_TIMEOUT_SECONDS", value)
		if _, err := loadWebhookConfig(); err == nil {
			t.Fatalf("expected error for TUTOR_TIMEOUT_SECONDS=%q", value)
		}
	}
}

func TestAIConfigEnabled(t *testing.T) {
	cases := []struct {
		name string
		cfg  AIConfig
		want bool
	}{
		{"api key", AIConfig{Model: "m", APIKey: "k"}, true},
		{"ak sk pair", AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}, true},
		{"missing model", AIConfig{APIKey: "k"}, false},
		{"missing credentials", AIConfig{Model: "m"}, false},
		{"partial pair", AIConfig{Model: "m", AccessKey: "a"}, false},
	}

	for _, tc := range cases {
		if got := tc.cfg.Enabled(); got != tc.want {
			t.Fatalf("%s: Enabled() = %v, want %v", tc.name, got, tc.want)
		}
	}
}
