package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Brandjuh/Cad-tag-generator/internal/engine"
)

var (
	previewPath     string
	previewInterval time.Duration
	previewTicks    int
)

var previewCmd = &cobra.Command{
	Use:   "preview [label]",
	Short: "Animate a tag in real time, rewriting a PNG with the latest frame",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewPath, "out", "preview.png", "file rewritten with every frame")
	previewCmd.Flags().DurationVar(&previewInterval, "interval", 0, "time between frames (default: 1/fps)")
	previewCmd.Flags().IntVar(&previewTicks, "frames", 0, "stop after this many frames (0: until interrupted)")
	previewCmd.Flags().String("pattern", "", "animation pattern (default: animation.pattern)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if f := cmd.Flags().Lookup("pattern"); f.Changed {
		viper.Set("animation.pattern", f.Value.String())
	}

	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	label := cfg.Tag.Text
	if len(args) == 1 {
		label = args[0]
	}

	project := engine.NewTagProject(cfg, nil, newEncoder(cfg, logger), logger)
	n, err := project.Preview(ctx, engine.PreviewOptions{
		Label:    label,
		Path:     previewPath,
		Interval: previewInterval,
		Ticks:    previewTicks,
	})
	logger.Info("[*] preview stopped", zap.Int("frames", n))
	return err
}
