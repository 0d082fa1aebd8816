package server

import (
	"testing"

	"github.com/iwvelando/hypotheek/pkg/constants"
)

func TestNormalizeDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Fatalf("expected default address, got %q", cfg.Address)
	}
	if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
		t.Fatalf("expected default body size, got %d", cfg.BodySizeBytes())
	}
}

func TestNormalizeOverrides(t *testing.T) {
	cfg := &Config{Address: "127.0.0.1:9000", MaxBodySize: "2M"}
	if err := cfg.Normalize(); err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if cfg.Address != "127.0.0.1:9000" {
		t.Fatalf("expected address override, got %s", cfg.Address)
	}
	if cfg.BodySizeBytes() != 2*1024*1024 {
		t.Fatalf("expected body size override, got %d", cfg.BodySizeBytes())
	}
}

func TestNormalizeRejectsBadSize(t *testing.T) {
	cfg := &Config{MaxBodySize: "lots"}
	if err := cfg.Normalize(); err == nil {
		t.Fatalf("expected error for invalid size")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{"", constants.DefaultMaxBodySizeBytes, false},
		{"1024", 1024, false},
		{"16B", 16, false},
		{"64K", 64 * 1024, false},
		{"64kb", 64 * 1024, false},
		{" 1M ", 1024 * 1024, false},
		{"1MB", 1024 * 1024, false},
		{"K", 0, true},
		{"10G", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSize(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSize(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
