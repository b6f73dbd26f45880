package main

import (
	"flag"
	"log"

	"post-data-parser/internal/api"
	"post-data-parser/internal/config"
	"post-data-parser/internal/monitoring"
	"post-data-parser/internal/sqlgen"
	"post-data-parser/internal/utils"
)

func main() {
	var (
		configFile = flag.String("config", "configs/config.yaml", "Configuration file path")
		port       = flag.String("port", "", "API server port (overrides api.port)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.API.Port = *port
	}

	// Setup logger
	logger, closer, err := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	doc, err := sqlgen.ReadPostData(cfg.Input.File)
	if err != nil {
		logger.Fatalf("Failed to read post data: %v", err)
	}
	statements, err := sqlgen.NewWalker(logger).Walk(doc)
	if err != nil {
		logger.Fatalf("Failed to parse post data: %v", err)
	}

	monitor := monitoring.NewMonitor(logger, cfg.Metrics.File)
	server := api.NewServer(statements, doc, cfg, monitor, logger, cfg.API.Port)

	logger.Infof("Serving %d statements from %s", statements.Len(), cfg.Input.File)
	logger.Info("Available endpoints:")
	logger.Info("  GET  /api/statements - List generated statements (?table= to filter)")
	logger.Info("  GET  /api/stats - Statement counts per table")
	logger.Info("  GET  /api/export/sql - Download the SQL script")
	logger.Info("  GET  /api/health - Health check")
	logger.Info("  GET  /dashboard - Rendered post data")

	if err := server.Start(); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
