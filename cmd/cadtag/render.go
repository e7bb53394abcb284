package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Brandjuh/Cad-tag-generator/internal/apng"
	"github.com/Brandjuh/Cad-tag-generator/internal/config"
	"github.com/Brandjuh/Cad-tag-generator/internal/engine"
	"github.com/Brandjuh/Cad-tag-generator/internal/source"
)

var labelsFile string

var renderCmd = &cobra.Command{
	Use:   "render [label...]",
	Short: "Export normal, urgent and animated urgent images for each label",
	Long: `Export three files per label into the output directory:
  <label>__normal.png       solid background
  <label>__urgent.png       gradient background
  <label>__urgent_anim.png  looping APNG beacon

Labels come from the arguments, --labels-file, or tag.text.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVar(&labelsFile, "labels-file", "", "file with one label per line ('#' starts a comment)")
	f.StringP("output", "o", "output", "output directory")
	f.String("pattern", "sweep", "animation pattern (see 'cadtag patterns')")
	f.String("color-a", "", "animation base colour (default: tag.grad_start)")
	f.String("color-b", "", "animation highlight colour (default: tag.grad_end)")
	f.Float64("angle", 0, "gradient angle in degrees")
	f.Int("bars", 4, "bar count for the bars pattern (1-32)")
	f.Float64("softness", 0.15, "bar edge softness (0-0.5)")
	f.Float64("intensity", 1, "highlight intensity (0-1)")
	f.Float64("speed", 1, "cycles per loop (0.2-5)")
	f.Float64("duration", 2, "loop duration in seconds")
	f.Int("fps", 24, "frames per second (8-60)")
	f.Int("workers", 0, "parallel workers (0: physical CPU count)")
	f.Int("scale", 1, "render scale (1-4)")
	f.Bool("qr", false, "add a QR badge encoding the label")
	f.Bool("stats", false, "log a performance report and append it to the stats file")

	mustBindPFlag("export.output_dir", f.Lookup("output"))
	mustBindPFlag("animation.pattern", f.Lookup("pattern"))
	mustBindPFlag("animation.color_a", f.Lookup("color-a"))
	mustBindPFlag("animation.color_b", f.Lookup("color-b"))
	mustBindPFlag("animation.angle", f.Lookup("angle"))
	mustBindPFlag("animation.bars", f.Lookup("bars"))
	mustBindPFlag("animation.softness", f.Lookup("softness"))
	mustBindPFlag("animation.intensity", f.Lookup("intensity"))
	mustBindPFlag("animation.speed", f.Lookup("speed"))
	mustBindPFlag("animation.duration", f.Lookup("duration"))
	mustBindPFlag("animation.fps", f.Lookup("fps"))
	mustBindPFlag("export.workers", f.Lookup("workers"))
	mustBindPFlag("tag.scale", f.Lookup("scale"))
	mustBindPFlag("tag.qr", f.Lookup("qr"))
	mustBindPFlag("export.show_stats", f.Lookup("stats"))
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()
	defer func() {
		_ = logger.Sync()
	}()

	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	src, err := labelSource(cfg, args)
	if err != nil {
		return err
	}
	defer src.Close()

	project := engine.NewTagProject(cfg, src, newEncoder(cfg, logger), logger)
	results, err := project.Run(ctx)
	if err != nil {
		logger.Error("[-] render failed", zap.Error(err))
		return err
	}
	logger.Info("[+++] done", zap.Int("labels", len(results)), zap.String("output", viper.GetString("export.output_dir")))
	return nil
}

func labelSource(cfg *config.Config, args []string) (source.Source, error) {
	switch {
	case labelsFile != "":
		return source.NewFileSource(labelsFile)
	case len(args) > 0:
		return source.NewListSource(args...), nil
	default:
		return source.NewListSource(cfg.Tag.Text), nil
	}
}

func newEncoder(cfg *config.Config, logger *zap.Logger) *apng.Encoder {
	enc := apng.NewEncoder(logger)
	enc.Compressor = &apng.ZlibCompressor{Level: cfg.Export.Compression}
	enc.Workers = cfg.Export.Workers
	enc.NumPlays = cfg.Export.NumPlays
	enc.ZeroBasedSequence = cfg.Export.ZeroBasedSequence
	return enc
}
