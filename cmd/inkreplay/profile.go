package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/ink"
)

// profile is the pen and canvas configuration read from a TOML file:
//
//	min_width   = 3
//	max_width   = 7
//	weight      = 0.9
//	pen         = "#1a237e"
//	background  = "#ffffff"
//	width       = 800
//	height      = 400
//	coordinates = "reject"
type profile struct {
	MinWidth    int     `toml:"min_width"`
	MaxWidth    int     `toml:"max_width"`
	Weight      float32 `toml:"weight"`
	Pen         string  `toml:"pen"`
	Background  string  `toml:"background"`
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	Coordinates string  `toml:"coordinates"`
}

func defaultProfile() profile {
	cfg := ink.DefaultConfig()
	return profile{
		MinWidth:    cfg.MinWidth,
		MaxWidth:    cfg.MaxWidth,
		Weight:      cfg.VelocityFilterWeight,
		Pen:         "#000000",
		Width:       800,
		Height:      400,
		Coordinates: "sanitize",
	}
}

// loadProfile decodes path over p. Keys the profile does not know are
// reported as an error so typos do not pass silently.
func loadProfile(path string, p *profile) error {
	md, err := toml.DecodeFile(path, p)
	if err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("profile %s: unknown keys %v", path, undecoded)
	}
	return nil
}

// options converts the profile to session options.
func (p profile) options() ([]ink.SessionOption, error) {
	pen, ok := ink.ParseHex(p.Pen)
	if !ok {
		return nil, fmt.Errorf("bad pen color %q", p.Pen)
	}
	var policy ink.CoordinatePolicy
	switch strings.ToLower(p.Coordinates) {
	case "sanitize", "":
		policy = ink.CoordinateSanitize
	case "reject":
		policy = ink.CoordinateReject
	default:
		return nil, fmt.Errorf("bad coordinate policy %q", p.Coordinates)
	}
	return []ink.SessionOption{
		ink.WithMinWidth(p.MinWidth),
		ink.WithMaxWidth(p.MaxWidth),
		ink.WithVelocityFilterWeight(p.Weight),
		ink.WithPenColor(pen),
		ink.WithCanvasSize(p.Width, p.Height),
		ink.WithCoordinatePolicy(policy),
	}, nil
}

// background returns the export background, nil for transparent.
func (p profile) background() (*ink.RGBA, error) {
	if p.Background == "" {
		return nil, nil
	}
	bg, ok := ink.ParseHex(p.Background)
	if !ok {
		return nil, fmt.Errorf("bad background color %q", p.Background)
	}
	return &bg, nil
}
