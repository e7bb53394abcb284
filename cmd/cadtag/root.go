package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Brandjuh/Cad-tag-generator/internal/config"
	"github.com/Brandjuh/Cad-tag-generator/internal/logging"
	"github.com/Brandjuh/Cad-tag-generator/internal/system"
)

var (
	cfgFile   string
	presetArg string
	Version   = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadtag",
	Short: "Render CAD unit tags as PNG and animated warning-beacon APNG",
	Long: `Render short unit labels ("tags") as static PNG images and as looping
animated APNG beacons.

Examples:
  # Render the configured default tag
  cadtag render

  # Render several labels with the European rolling pattern
  cadtag render "LAFD 021" "E 12" --pattern eu-rolling

  # Render every label from a file using the newest preset
  cadtag render --labels-file units.txt --preset latest

  # Inspect the chunks of an exported file
  cadtag inspect output/LAFD_021__urgent_anim.png`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd.Version = Version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "config file path (e.g. cadtag.yaml)")
	rootCmd.PersistentFlags().
		String("log-level", "info", "set the logging level (e.g. debug, info, warn, error)")
	rootCmd.PersistentFlags().
		String("log-style", "terminal", "set the logging output style (terminal, logfmt, json, noop)")
	rootCmd.PersistentFlags().
		StringVar(&presetArg, "preset", "", "preset YAML to apply ('latest' picks the newest file in presets/)")

	mustBindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBindPFlag("log.style", rootCmd.PersistentFlags().Lookup("log-style"))

	config.SetDefaults(viper.GetViper())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			fmt.Fprintf(os.Stderr, "Config file not found: %s\n", cfgFile)
			os.Exit(1)
		}
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".cadtag")
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("cadtag")
	}

	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("CADTAG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file [%s]: %v\n", viper.ConfigFileUsed(), err)
		os.Exit(1)
	}
}

func mustBindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

func newLogger() *zap.Logger {
	return logging.NewLogger(&logging.Config{
		Level: logging.Level(viper.GetString("log.level")),
		Style: logging.Style(viper.GetString("log.style")),
	})
}

// loadConfig подмешивает --preset под флаги и собирает итоговую конфигурацию.
func loadConfig(logger *zap.Logger) (*config.Config, error) {
	if presetArg != "" {
		path := presetArg
		if path == "latest" {
			latest, err := system.FindLatestPreset("presets")
			if err != nil {
				return nil, err
			}
			path = latest
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		err = viper.MergeConfig(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", path, err)
		}
		logger.Info("[*] preset applied", zap.String("path", path))
	}
	return config.Load(viper.GetViper())
}
