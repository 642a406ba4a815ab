// Command pipeline runs the sales ETL end to end: extract the raw file,
// clean it, enrich and summarize it, load the analysis database and file
// artifacts, and produce the report and charts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salespipe/internal/config"
	"salespipe/internal/infrastructure"
	"salespipe/internal/pipeline"
	"salespipe/pkg/contracts"
)

func main() {
	inputFile := flag.String("input", "", "input sales file (.csv or .xlsx); overrides configuration")
	tolerance := flag.Float64("tolerance", 0, "allowed total_amount discrepancy before repair; overrides configuration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inputFile != "" {
		cfg.Pipeline.InputFile = *inputFile
	}
	if *tolerance > 0 {
		cfg.Pipeline.Tolerance = *tolerance
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("starting", slog.String("version", contracts.VersionString()))

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirs(); err != nil {
		logger.Error("failed to create output directories", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(logger, pipeline.NewStandardStages(cfg, paths, logger)...)
	state := &pipeline.RunState{InputFile: cfg.Pipeline.InputFile}

	report, err := runner.Run(ctx, state)
	printRunSummary(report)
	if err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}
}

// printRunSummary writes the per-stage outcome to stdout.
func printRunSummary(report *pipeline.RunReport) {
	fmt.Printf("\nRun %s: %s in %s\n", report.RunID, report.Status, report.Duration.Round(time.Millisecond))
	for _, stage := range report.Stages {
		status := stage.CurrentStatus()
		line := fmt.Sprintf("  %-10s %s", stage.Name, status)
		if stage.Message != "" {
			line += ": " + stage.Message
		}
		fmt.Println(line)
	}
}
