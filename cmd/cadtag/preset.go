package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Brandjuh/Cad-tag-generator/internal/config"
	"github.com/Brandjuh/Cad-tag-generator/internal/system"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Save or show tag presets",
}

var presetSaveCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Write the effective tag and animation settings as a preset",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg, err := loadConfig(logger)
		if err != nil {
			return err
		}
		path := config.PresetPath("presets", system.SanitizeName(cfg.Tag.Text))
		if len(args) == 1 {
			path = args[0]
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := config.WritePreset(cfg.Preset(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[+++] preset saved: %s\n", path)
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Validate a preset and print it (default: newest in presets/)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			latest, err := system.FindLatestPreset("presets")
			if err != nil {
				return err
			}
			path = latest
		}
		p, err := config.ReadPreset(path)
		if err != nil {
			return err
		}
		if err := config.Default().ApplyPreset(p); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		out, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", path, out)
		return nil
	},
}

func init() {
	presetCmd.AddCommand(presetSaveCmd, presetShowCmd)
	rootCmd.AddCommand(presetCmd)
}
