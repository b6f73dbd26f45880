package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"post-data-parser/internal/config"
	"post-data-parser/internal/menu"
	"post-data-parser/internal/monitoring"
	"post-data-parser/internal/sqlgen"
	"post-data-parser/internal/utils"
)

func main() {
	configFile := flag.String("config", "configs/config.yaml", "Configuration file path")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		fmt.Printf("X - ERROR loading config: %v\n", err)
		return
	}

	// Setup logger
	logger, closer, err := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Printf("X - ERROR setting up logging: %v\n", err)
		return
	}
	defer closer.Close()

	fmt.Println("Post Data Parser")
	fmt.Println("================")

	doc, err := sqlgen.ReadPostData(cfg.Input.File)
	if err != nil {
		fmt.Printf("X - ERROR reading '%s': %v\n", cfg.Input.File, err)
		return
	}

	monitor := monitoring.NewMonitor(logger, cfg.Metrics.File)

	start := time.Now()
	log, err := sqlgen.NewWalker(logger).Walk(doc)
	if err != nil {
		fmt.Printf("X - ERROR parsing '%s': %v\n", cfg.Input.File, err)
		return
	}
	monitor.RecordParse(log.CountByTable(), time.Since(start))
	fmt.Printf("✓ - Parsed '%s' into %d statements.\n", cfg.Input.File, log.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	menu.NewSession(cfg, doc, log, monitor, logger, os.Stdin, os.Stdout).Run(ctx)
}
