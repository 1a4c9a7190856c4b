package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"archivist/internal/archive"
	"archivist/internal/config"
	"archivist/internal/daemon"
	"archivist/internal/fetch"
	"archivist/internal/jobs"
	"archivist/internal/logging"
	"archivist/internal/services/nara"
	"archivist/internal/sweeper"
	"archivist/internal/workflow"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := jobs.Open(cfg)
	if err != nil {
		logger.Error("open status store", logging.Error(err))
		return
	}
	defer store.Close()

	catalog := nara.NewClient(cfg)
	fetcher := fetch.New(cfg, catalog, logger)
	assembler := archive.NewAssembler(cfg, logger)
	workflowManager := workflow.NewManager(cfg, store, fetcher, assembler, logger)

	d, err := daemon.New(cfg, store, logger, workflowManager)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	if cfg.Sweeper.Enabled {
		go sweeper.New(cfg, store, logger).Run(ctx)
	}

	<-ctx.Done()
	logger.Info("archivistd shutting down")
}
