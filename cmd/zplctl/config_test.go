package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/zplctl/internal/gf"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadProfileOverridesOnlyDefinedKeys(t *testing.T) {
	path := writeProfile(t, `
format = "Z64"
threshold = 90
pos_x = 15
split_pages = true
`)
	cfg := defaultEncodeConfig()
	if err := loadProfile(path, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Format != gf.EncodingCompressedBase64 {
		t.Fatalf("format: %v", cfg.Format)
	}
	if cfg.Threshold != 90 || cfg.PosX != 15 || !cfg.Split {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if !cfg.Dither || !cfg.Complete || cfg.Invert {
		t.Fatalf("defaults clobbered: %+v", cfg)
	}
}

func TestLoadProfileRejectsBadValues(t *testing.T) {
	cfg := defaultEncodeConfig()
	if err := loadProfile(writeProfile(t, `format = "PDF417"`), &cfg); err == nil {
		t.Fatalf("expected unknown format error")
	}
	cfg = defaultEncodeConfig()
	if err := loadProfile(writeProfile(t, `threshold = 300`), &cfg); err == nil {
		t.Fatalf("expected threshold range error")
	}
	cfg = defaultEncodeConfig()
	if err := loadProfile(filepath.Join(t.TempDir(), "missing.toml"), &cfg); err == nil {
		t.Fatalf("expected missing file error")
	}
}

func TestDefaultEncodeConfig(t *testing.T) {
	cfg := defaultEncodeConfig()
	if cfg.Format != gf.EncodingHex {
		t.Fatalf("default format: %v", cfg.Format)
	}
	if !cfg.Dither || cfg.Threshold != 128 || !cfg.Complete {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
