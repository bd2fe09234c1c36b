package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"emojiforge/internal/config"
	"emojiforge/internal/export"
	"emojiforge/internal/store"
	"emojiforge/internal/ui"
)

func main() {
	configPath := flag.String("config", "emojiforge.toml", "path to the TOML settings file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emojiforge: %v\n", err)
		os.Exit(1)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "emojiforge: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	catalog, err := store.NewCatalog()
	if err != nil {
		logger.Fatal("loading template catalog", zap.Error(err))
	}
	emojis := store.NewEmojiStore(
		store.WithLogger(logger.Named("store")),
		store.WithLatency(time.Duration(cfg.StoreLatencyMS)*time.Millisecond),
	)

	logger.Info("starting editor",
		zap.String("config", *configPath),
		zap.Int("templates", len(catalog.List())),
		zap.Ints("export_sizes", cfg.ExportSizes))
	ui.RunApp(cfg, logger, ui.Services{
		Store:    emojis,
		Catalog:  catalog,
		Exporter: export.NewPDFExporter(logger.Named("export")),
	})
}
