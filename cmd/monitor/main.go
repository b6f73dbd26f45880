package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"post-data-parser/internal/config"
	"post-data-parser/internal/console"
	"post-data-parser/internal/database"
	"post-data-parser/internal/monitoring"
	"post-data-parser/internal/sqlgen"
	"post-data-parser/internal/utils"
)

func main() {
	var (
		configFile  = flag.String("config", "configs/config.yaml", "Configuration file path")
		metricsFile = flag.String("metrics", "", "Metrics file path (overrides metrics.file)")
		report      = flag.Bool("report", false, "Generate and display monitoring report")
		alerts      = flag.Bool("alerts", false, "Check and display alerts")
		dbStats     = flag.Bool("db", false, "Include row counts from the configured database in the report")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadOrDefault(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *metricsFile != "" {
		cfg.Metrics.File = *metricsFile
	}

	// Setup logger
	logger, closer, err := utils.SetupLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()

	monitor := monitoring.NewMonitor(logger, cfg.Metrics.File)

	if *report {
		fmt.Println(monitor.GenerateReport())

		if !*dbStats {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := database.NewConnection(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Errorf("Failed to connect to database: %v", err)
			return
		}
		defer db.Close()

		counts, err := db.GetTableCounts(ctx)
		if err != nil {
			logger.Errorf("Failed to get database stats: %v", err)
			return
		}
		byTable := make(map[string]int, len(counts))
		for _, c := range counts {
			byTable[c.Table] = c.Rows
		}
		console.PrintCounts(os.Stdout, "Database Statistics", sqlgen.Tables, byTable)

		names, err := db.GetCategoryNames(ctx)
		if err != nil {
			logger.Errorf("Failed to list categories: %v", err)
			return
		}
		fmt.Printf("- Categories: %v\n", names)
		return
	}

	if *alerts {
		alertManager := monitoring.NewAlertManager(monitor, logger)
		active := alertManager.CheckAlerts()

		if len(active) == 0 {
			fmt.Println("✅ No alerts - system is healthy")
		} else {
			fmt.Println("⚠️  Active Alerts:")
			for _, alert := range active {
				fmt.Printf("  - %s\n", alert)
			}
			alertManager.SendAlerts(active)
		}
		return
	}

	// Default: show current status
	health := monitor.GetHealthStatus()
	fmt.Println("Post Data Parser Status:")
	fmt.Printf("- Status: %s\n", health["status"])
	fmt.Printf("- Last Run: %s\n", health["last_run"])
	fmt.Printf("- Total Runs: %v\n", health["total_runs"])
	fmt.Printf("- Error Rate: %s\n", health["error_rate"])
	fmt.Printf("- Average Runtime: %s\n", health["average_runtime"])

	if warning, exists := health["warning"]; exists {
		fmt.Printf("- Warning: %s\n", warning)
	}
}
