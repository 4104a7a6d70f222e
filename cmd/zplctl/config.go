package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/zplctl/internal/gf"
)

// encodeConfig is the full encode parameter set. Defaults match the most
// compatible printer behavior: ASCII hex, dithered, complete document.
type encodeConfig struct {
	Format    gf.Encoding
	Invert    bool
	Dither    bool
	Threshold int
	Width     int
	Height    int
	PosX      int
	PosY      int
	Rotation  int
	LineBreak int
	Complete  bool
	Split     bool
}

func defaultEncodeConfig() encodeConfig {
	return encodeConfig{
		Format:    gf.EncodingHex,
		Dither:    true,
		Threshold: 128,
		Complete:  true,
	}
}

type fileProfile struct {
	Format    string `toml:"format"`
	Invert    bool   `toml:"invert"`
	Dither    bool   `toml:"dither"`
	Threshold int    `toml:"threshold"`
	Width     int    `toml:"width"`
	Height    int    `toml:"height"`
	PosX      int    `toml:"pos_x"`
	PosY      int    `toml:"pos_y"`
	Rotation  int    `toml:"rotation"`
	LineBreak int    `toml:"line_break"`
	Complete  bool   `toml:"complete"`
	Split     bool   `toml:"split_pages"`
}

// loadProfile overlays a TOML profile onto cfg. Only keys present in the
// file override; everything else keeps its current value.
func loadProfile(path string, cfg *encodeConfig) error {
	var raw fileProfile
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	if meta.IsDefined("format") {
		enc, err := gf.ParseEncoding(strings.TrimSpace(raw.Format))
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		cfg.Format = enc
	}
	if meta.IsDefined("invert") {
		cfg.Invert = raw.Invert
	}
	if meta.IsDefined("dither") {
		cfg.Dither = raw.Dither
	}
	if meta.IsDefined("threshold") {
		if raw.Threshold < 0 || raw.Threshold > 255 {
			return fmt.Errorf("load profile: threshold must be within 0 to 255, got %d", raw.Threshold)
		}
		cfg.Threshold = raw.Threshold
	}
	if meta.IsDefined("width") {
		cfg.Width = raw.Width
	}
	if meta.IsDefined("height") {
		cfg.Height = raw.Height
	}
	if meta.IsDefined("pos_x") {
		cfg.PosX = raw.PosX
	}
	if meta.IsDefined("pos_y") {
		cfg.PosY = raw.PosY
	}
	if meta.IsDefined("rotation") {
		cfg.Rotation = raw.Rotation
	}
	if meta.IsDefined("line_break") {
		cfg.LineBreak = raw.LineBreak
	}
	if meta.IsDefined("complete") {
		cfg.Complete = raw.Complete
	}
	if meta.IsDefined("split_pages") {
		cfg.Split = raw.Split
	}
	return nil
}
