package server

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("QUANTSIM_ALLOWED_ORIGINS", "*")
	t.Setenv("QUANTSIM_AUDIT_DB", "")
	t.Setenv("QUANTSIM_QUESTIONS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("addr = %q", cfg.Addr())
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.AuditDBPath != "" {
		t.Errorf("audit should be off by default, got %q", cfg.AuditDBPath)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("read timeout = %v", cfg.ReadTimeout)
	}
}

func TestLoadOriginsList(t *testing.T) {
	t.Setenv("QUANTSIM_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("origins = %v, want %v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Errorf("origins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{Port: "8080", AllowedOrigins: []string{"*"}, ReadTimeout: time.Second}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty port", func(c *Config) { c.Port = "" }, true},
		{"non-numeric port", func(c *Config) { c.Port = "http" }, true},
		{"no origins", func(c *Config) { c.AllowedOrigins = nil }, true},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
