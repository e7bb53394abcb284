package config

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
	"github.com/Brandjuh/Cad-tag-generator/internal/raster"
)

// TagConfig describes the label artwork.
type TagConfig struct {
	Text        string  `mapstructure:"text" yaml:"text"`
	Uppercase   bool    `mapstructure:"uppercase" yaml:"uppercase"`
	FontSize    float64 `mapstructure:"font_size" yaml:"font_size"`
	Weight      string  `mapstructure:"weight" yaml:"weight"`
	PadX        float64 `mapstructure:"pad_x" yaml:"pad_x"`
	PadY        float64 `mapstructure:"pad_y" yaml:"pad_y"`
	Stroke      float64 `mapstructure:"stroke" yaml:"stroke"`
	Radius      float64 `mapstructure:"radius" yaml:"radius"`
	TextColor   string  `mapstructure:"text_color" yaml:"text_color"`
	StrokeColor string  `mapstructure:"stroke_color" yaml:"stroke_color"`
	BgColor     string  `mapstructure:"bg_color" yaml:"bg_color"`
	BgAlpha     float64 `mapstructure:"bg_alpha" yaml:"bg_alpha"`
	Transparent bool    `mapstructure:"transparent" yaml:"transparent"`
	GradStart   string  `mapstructure:"grad_start" yaml:"grad_start"`
	GradEnd     string  `mapstructure:"grad_end" yaml:"grad_end"`
	GradAngle   float64 `mapstructure:"grad_angle" yaml:"grad_angle"`
	Scale       int     `mapstructure:"scale" yaml:"scale"`
	QR          bool    `mapstructure:"qr" yaml:"qr"`
}

// AnimationConfig describes the urgent beacon animation. Empty colours
// follow the tag gradient.
type AnimationConfig struct {
	Pattern   string  `mapstructure:"pattern" yaml:"pattern"`
	ColorA    string  `mapstructure:"color_a" yaml:"color_a,omitempty"`
	ColorB    string  `mapstructure:"color_b" yaml:"color_b,omitempty"`
	Angle     float64 `mapstructure:"angle" yaml:"angle"`
	Bars      int     `mapstructure:"bars" yaml:"bars"`
	Softness  float64 `mapstructure:"softness" yaml:"softness"`
	Intensity float64 `mapstructure:"intensity" yaml:"intensity"`
	Speed     float64 `mapstructure:"speed" yaml:"speed"`
	Duration  float64 `mapstructure:"duration" yaml:"duration"`
	FPS       int     `mapstructure:"fps" yaml:"fps"`
}

// ExportConfig controls what is written and how.
type ExportConfig struct {
	OutputDir         string `mapstructure:"output_dir"`
	Static            bool   `mapstructure:"static"`
	Animated          bool   `mapstructure:"animated"`
	Workers           int    `mapstructure:"workers"`
	Compression       int    `mapstructure:"compression"`
	NumPlays          uint32 `mapstructure:"num_plays"`
	ExclusivePhases   bool   `mapstructure:"exclusive_phases"`
	ZeroBasedSequence bool   `mapstructure:"zero_based_sequence"`
	FramesFallback    bool   `mapstructure:"frames_fallback"`
	ContrastChecker   string `mapstructure:"contrast_checker"`
	ShowStats         bool   `mapstructure:"show_stats"`
	StatsFile         string `mapstructure:"stats_file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Style string `mapstructure:"style"`
}

type Config struct {
	Tag       TagConfig       `mapstructure:"tag"`
	Animation AnimationConfig `mapstructure:"animation"`
	Export    ExportConfig    `mapstructure:"export"`
	Log       LogConfig       `mapstructure:"log"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	s := raster.DefaultStyle()
	p := pattern.DefaultParams()

	v.SetDefault("tag.text", s.Text)
	v.SetDefault("tag.uppercase", true)
	v.SetDefault("tag.font_size", s.FontSize)
	v.SetDefault("tag.weight", "bold")
	v.SetDefault("tag.pad_x", s.PadX)
	v.SetDefault("tag.pad_y", s.PadY)
	v.SetDefault("tag.stroke", s.Stroke)
	v.SetDefault("tag.radius", s.Radius)
	v.SetDefault("tag.text_color", FormatColor(s.TextColor))
	v.SetDefault("tag.stroke_color", FormatColor(s.StrokeColor))
	v.SetDefault("tag.bg_color", FormatColor(s.Background))
	v.SetDefault("tag.bg_alpha", s.BgAlpha)
	v.SetDefault("tag.transparent", false)
	v.SetDefault("tag.grad_start", FormatColor(pattern.DefaultColorA))
	v.SetDefault("tag.grad_end", FormatColor(pattern.DefaultColorB))
	v.SetDefault("tag.grad_angle", 0.0)
	v.SetDefault("tag.scale", 1)
	v.SetDefault("tag.qr", false)

	v.SetDefault("animation.pattern", p.Pattern.String())
	v.SetDefault("animation.color_a", "")
	v.SetDefault("animation.color_b", "")
	v.SetDefault("animation.angle", p.AngleDeg)
	v.SetDefault("animation.bars", p.BarCount)
	v.SetDefault("animation.softness", p.Softness)
	v.SetDefault("animation.intensity", p.Intensity)
	v.SetDefault("animation.speed", p.Speed)
	v.SetDefault("animation.duration", p.DurationSeconds)
	v.SetDefault("animation.fps", p.FPS)

	v.SetDefault("export.output_dir", "output")
	v.SetDefault("export.static", true)
	v.SetDefault("export.animated", true)
	v.SetDefault("export.workers", 0)
	v.SetDefault("export.compression", -1)
	v.SetDefault("export.num_plays", 0)
	v.SetDefault("export.exclusive_phases", false)
	v.SetDefault("export.zero_based_sequence", false)
	v.SetDefault("export.frames_fallback", true)
	v.SetDefault("export.contrast_checker", "mean")
	v.SetDefault("export.show_stats", false)
	v.SetDefault("export.stats_file", "benchmark.log")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.style", "terminal")
}

// Default returns the configuration with every default applied.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	if err != nil {
		panic(fmt.Sprintf("config defaults are invalid: %v", err))
	}
	return cfg
}

// Load decodes v and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields that cannot be clamped: colours, the pattern
// name and the font weight. Numeric ranges are clamped where they are used.
func (c *Config) Validate() error {
	colors := map[string]string{
		"tag.text_color":   c.Tag.TextColor,
		"tag.stroke_color": c.Tag.StrokeColor,
		"tag.bg_color":     c.Tag.BgColor,
		"tag.grad_start":   c.Tag.GradStart,
		"tag.grad_end":     c.Tag.GradEnd,
	}
	if c.Animation.ColorA != "" {
		colors["animation.color_a"] = c.Animation.ColorA
	}
	if c.Animation.ColorB != "" {
		colors["animation.color_b"] = c.Animation.ColorB
	}
	for key, val := range colors {
		if _, err := ParseColor(val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	if _, err := pattern.Parse(c.Animation.Pattern); err != nil {
		return fmt.Errorf("animation.pattern: %w", err)
	}
	switch strings.ToLower(c.Tag.Weight) {
	case "", "bold", "regular", "normal":
	default:
		return fmt.Errorf("tag.weight: unknown weight %q", c.Tag.Weight)
	}
	return nil
}

// Label applies the text transform to a raw label.
func (c *Config) Label(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = strings.TrimSpace(c.Tag.Text)
	}
	if c.Tag.Uppercase {
		return strings.ToUpper(raw)
	}
	return raw
}

// TagStyle returns the raster style for label.
func (c *Config) TagStyle(label string) raster.Style {
	t := c.Tag
	return raster.Style{
		Text:        c.Label(label),
		FontSize:    t.FontSize,
		Bold:        !strings.EqualFold(t.Weight, "regular") && !strings.EqualFold(t.Weight, "normal"),
		PadX:        t.PadX,
		PadY:        t.PadY,
		Stroke:      t.Stroke,
		Radius:      t.Radius,
		TextColor:   mustColor(t.TextColor),
		StrokeColor: mustColor(t.StrokeColor),
		Background:  mustColor(t.BgColor),
		BgAlpha:     t.BgAlpha,
		Transparent: t.Transparent,
		Scale:       t.Scale,
		QR:          t.QR,
	}.Normalize()
}

// Gradient returns the urgent background colours.
func (c *Config) Gradient() (start, end color.NRGBA) {
	return mustColor(c.Tag.GradStart), mustColor(c.Tag.GradEnd)
}

// AnimationParams returns the sanitized animation parameters.
func (c *Config) AnimationParams() pattern.Params {
	a := c.Animation
	start, end := c.Gradient()
	p := pattern.Params{
		ColorA:          start,
		ColorB:          end,
		AngleDeg:        a.Angle,
		BarCount:        a.Bars,
		Softness:        a.Softness,
		Intensity:       a.Intensity,
		Speed:           a.Speed,
		DurationSeconds: a.Duration,
		FPS:             a.FPS,
	}
	p.Pattern, _ = pattern.Parse(a.Pattern)
	if a.ColorA != "" {
		p.ColorA = mustColor(a.ColorA)
	}
	if a.ColorB != "" {
		p.ColorB = mustColor(a.ColorB)
	}
	return p.Sanitize()
}

// ParseColor accepts #RGB, #RRGGBB and #RRGGBBAA, with or without '#'.
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// FormatColor renders c as #RRGGBB, or #RRGGBBAA when not opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// mustColor is only used on validated fields.
func mustColor(s string) color.NRGBA {
	c, _ := ParseColor(s)
	return c
}
