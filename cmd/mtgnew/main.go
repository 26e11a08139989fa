package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/BigFish003/MTGnew/internal"
	"github.com/BigFish003/MTGnew/internal/catalog"
	"github.com/BigFish003/MTGnew/internal/config"
	"github.com/BigFish003/MTGnew/internal/runner"
	"github.com/BigFish003/MTGnew/internal/server"
	"github.com/BigFish003/MTGnew/internal/storage"
)

func main() {
	log.SetFlags(log.Lshortfile)

	configPath := flag.String("config", "config.toml", "path to the TOML configuration file")
	port := flag.Int("port", 0, "override the configured server port")
	simulate := flag.Bool("simulate", false, "run one headless draft and gauntlet instead of serving")
	seed := flag.Int64("seed", 0, "seed for -simulate (default: current time)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	internal.SetDebug(cfg.App.DebugMode)
	logger := internal.GetLogger()

	records, err := catalog.LoadFile(cfg.Draft.CatalogPath)
	if err != nil {
		logger.Fatalw("cannot load card catalog", "error", err)
	}
	index, err := catalog.Build(records)
	if err != nil {
		logger.Fatalw("cannot build card index", "error", err)
	}
	logger.Infow("catalog loaded", "cards", index.NumCards())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(storage.DefaultConfig(cfg.Database.Path))
	if err != nil {
		logger.Fatalw("cannot open result database", "error", err)
	}
	defer db.Close()

	store, err := storage.NewService(ctx, db)
	if err != nil {
		logger.Fatalw("cannot initialize result store", "error", err)
	}

	if *simulate {
		s := *seed
		if s == 0 {
			s = time.Now().UnixNano()
		}
		if err := runner.Run(ctx, cfg, index, store, runner.Options{Seed: s}); err != nil {
			logger.Fatalw("simulation failed", "error", err)
		}
		return
	}

	srv := server.NewServer(cfg.Server.Port, index, cfg.Draft, store)
	if err := srv.Start(ctx); err != nil {
		logger.Fatalw("server failed", "error", err)
	}
}
