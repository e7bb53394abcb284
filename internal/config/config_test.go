package config

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Brandjuh/Cad-tag-generator/internal/pattern"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "LAFD 021", cfg.Tag.Text)
	assert.Equal(t, "#1E90FF", cfg.Tag.StrokeColor)
	assert.Equal(t, "sweep", cfg.Animation.Pattern)
	assert.Equal(t, "output", cfg.Export.OutputDir)
	assert.True(t, cfg.Export.FramesFallback)

	p := cfg.AnimationParams()
	assert.Equal(t, pattern.DefaultParams(), p)

	s := cfg.TagStyle("lafd 021")
	assert.Equal(t, "LAFD 021", s.Text)
	assert.True(t, s.Bold)
	assert.Equal(t, color.NRGBA{R: 0x0B, G: 0x17, B: 0x36, A: 0xFF}, s.Background)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("tag.uppercase", false)
	v.Set("tag.weight", "regular")
	v.Set("tag.scale", 9)
	v.Set("animation.pattern", "US_SPLIT_STROBE")
	v.Set("animation.color_b", "#00f")
	v.Set("animation.fps", 200)
	v.Set("export.num_plays", 3)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cfg.Export.NumPlays)

	p := cfg.AnimationParams()
	assert.Equal(t, pattern.USSplitStrobe, p.Pattern)
	assert.Equal(t, color.NRGBA{B: 0xFF, A: 0xFF}, p.ColorB)
	assert.Equal(t, pattern.DefaultColorA, p.ColorA)
	assert.Equal(t, pattern.MaxFPS, p.FPS)

	s := cfg.TagStyle("Engine 7")
	assert.Equal(t, "Engine 7", s.Text)
	assert.False(t, s.Bold)
	assert.Equal(t, 4, s.Scale)

	assert.Equal(t, "LAFD 021", cfg.Label(" "))
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		key string
		val any
	}{
		{"tag.bg_color", "navy"},
		{"animation.color_a", "#12345"},
		{"animation.pattern", "disco"},
		{"tag.weight", "heavy"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#FFFFFF", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, true},
		{"1e90ff", color.NRGBA{R: 0x1E, G: 0x90, B: 0xFF, A: 255}, true},
		{"#f00", color.NRGBA{R: 255, A: 255}, true},
		{"#0B173680", color.NRGBA{R: 0x0B, G: 0x17, B: 0x36, A: 0x80}, true},
		{"", color.NRGBA{}, false},
		{"#ggg", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.want, mustColor(FormatColor(got)))
	}
}

func TestPresetRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Tag.Text = "E 12"
	cfg.Tag.QR = true
	cfg.Animation.Pattern = "eu-rolling"
	cfg.Animation.ColorB = "#0000FF"

	path := filepath.Join(t.TempDir(), "preset.yaml")
	require.NoError(t, WritePreset(cfg.Preset(), path))

	p, err := ReadPreset(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Preset(), p)

	other := Default()
	require.NoError(t, other.ApplyPreset(p))
	assert.Equal(t, cfg.Tag, other.Tag)
	assert.Equal(t, cfg.Animation, other.Animation)

	p.Animation.Pattern = "disco"
	assert.Error(t, other.ApplyPreset(p))
	assert.Equal(t, "eu-rolling", other.Animation.Pattern)
}

func TestPresetPath(t *testing.T) {
	path := PresetPath("presets", "E_12")
	assert.Equal(t, "presets", filepath.Dir(path))
	assert.Regexp(t, `^E_12_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.yaml$`, filepath.Base(path))
}
