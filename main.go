package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"salarypredict/config"
	"salarypredict/db"
	shttp "salarypredict/http"
	"salarypredict/logging"
	"salarypredict/ml"
	"salarypredict/monitoring"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load config
	path := config.Locate(*configPath)
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, level := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer logger.Sync()

	// 2. Load model artifacts
	bundle, err := ml.LoadBundle(cfg.Bundle())
	if err != nil {
		logger.Fatal("failed to load model artifacts", zap.String("dir", cfg.Artifacts.Dir), zap.Error(err))
	}
	logger.Info("model artifacts loaded",
		zap.String("model_type", cfg.Artifacts.ModelType),
		zap.Strings("columns", bundle.Columns()),
		zap.Bool("scaled", bundle.Scaled()),
	)

	// 3. Prediction history and metrics
	metrics := monitoring.NewCollector()
	opts := []ml.PredictorOption{
		ml.WithCache(cfg.Cache.Size),
		ml.WithLogger(logger),
		ml.WithHistory(metrics),
	}
	var history shttp.HistoryReader
	if cfg.Database.Path != "" {
		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			logger.Fatal("failed to open database", zap.String("path", cfg.Database.Path), zap.Error(err))
		}
		defer store.Close()
		opts = append(opts, ml.WithHistory(store))
		history = store
		logger.Info("prediction history enabled", zap.String("path", cfg.Database.Path))
	}

	predictor, err := ml.NewPredictor(ml.NewCodec(bundle), opts...)
	if err != nil {
		logger.Fatal("failed to create predictor", zap.Error(err))
	}
	handler, err := shttp.NewHandler(predictor, history, logger)
	if err != nil {
		logger.Fatal("failed to create handler", zap.Error(err))
	}
	handler.SetMetrics(metrics)

	// 4. Start HTTP server
	server := shttp.NewServer(shttp.ServerConfig{
		Port:           cfg.Http.Port,
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
	}, handler, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	watcher, err := config.NewWatcher(path, logger, func(c *config.Config) {
		level.SetLevel(logging.ParseLevel(c.Log.Level))
	})
	if err != nil {
		logger.Warn("config watcher disabled", zap.Error(err))
	} else {
		defer watcher.Close()
	}

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	if err := server.Stop(); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("exiting")
}
