package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespipe/internal/config"
	"salespipe/internal/dataprocessing"
	"salespipe/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleCSV = `order_id,product_name,category,quantity,unit_price,total_amount,customer_id,order_date,region
ORD001,Laptop,Electronics,1,999.99,999.99,C1,2024-01-15,North
ORD002,Mouse,Electronics,2,25.50,51.00,C2,2024-02-16,South
ORD002,Mouse,Electronics,2,25.50,51.00,C2,2024-02-16,South
ORD003,Desk,Furniture,1,150.00,150.00,C1,2024-02-20,North
`

func testEnv(t *testing.T) (*config.Config, *config.Paths, string) {
	t.Helper()
	base := t.TempDir()
	inputFile := filepath.Join(base, "sales.csv")
	require.NoError(t, os.WriteFile(inputFile, []byte(sampleCSV), 0o644))

	cfg := &config.Config{}
	cfg.Pipeline.Tolerance = 0.01
	paths := config.NewPaths(config.PathsConfig{
		DataDir:      filepath.Join(base, "data"),
		WarehouseDir: filepath.Join(base, "data_warehouse"),
		DatabaseFile: filepath.Join(base, "sales_analysis.db"),
		ChartsDir:    filepath.Join(base, "charts"),
	})
	require.NoError(t, paths.EnsureDirs())
	return cfg, paths, inputFile
}

func silentStages(cfg *config.Config, paths *config.Paths) []Stage {
	stages := NewStandardStages(cfg, paths, discardLogger())
	for _, s := range stages {
		if a, ok := s.(*AnalyzeStage); ok {
			a.out = io.Discard
		}
	}
	return stages
}

func TestRunner_EndToEnd(t *testing.T) {
	cfg, paths, inputFile := testEnv(t)
	runner := NewRunner(discardLogger(), silentStages(cfg, paths)...)

	state := &RunState{InputFile: inputFile}
	report, err := runner.Run(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, RunStatusCompleted, report.Status)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Stages, 5)
	for _, stage := range report.Stages {
		assert.Equal(t, StageStatusCompleted, stage.CurrentStatus(), stage.ID)
	}

	// Duplicate row removed.
	assert.Equal(t, 4, state.CleanReport.InputRows)
	assert.Equal(t, 3, state.CleanReport.OutputRows)
	assert.Equal(t, 1, state.CleanReport.DuplicatesRemoved)
	assert.Len(t, state.Enriched, 3)

	// Every artifact exists.
	for _, path := range []string{
		paths.CleanedCSV(),
		paths.EnrichedCSV(),
		paths.DocumentJSON(),
		paths.SummaryCSV("products"),
		paths.SummaryCSV("monthly"),
		paths.WarehouseFile(),
		paths.DictionaryFile(),
		paths.ReportFile(),
		paths.ChartFile(config.TopProductsChartName),
		paths.ChartFile(config.RevenueChartName),
		paths.ChartFile(config.MonthlyTrendsChartName),
		paths.DatabaseFile(),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	// Database holds the deduplicated rows.
	db, err := store.Open(paths.DatabaseFile())
	require.NoError(t, err)
	defer store.Close(db)
	var count int64
	require.NoError(t, db.Table("sales_data").Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestRunner_MissingInputAbortsRun(t *testing.T) {
	cfg, paths, _ := testEnv(t)
	runner := NewRunner(discardLogger(), silentStages(cfg, paths)...)

	state := &RunState{InputFile: filepath.Join(t.TempDir(), "absent.csv")}
	report, err := runner.Run(context.Background(), state)
	require.Error(t, err)

	assert.Equal(t, RunStatusFailed, report.Status)
	assert.Equal(t, StageStatusFailed, report.Stages[0].CurrentStatus())
	for _, stage := range report.Stages[1:] {
		assert.Equal(t, StageStatusPending, stage.CurrentStatus(), stage.ID)
	}
}

type failingStage struct {
	id  string
	err error
}

func (s *failingStage) ID() string               { return s.id }
func (s *failingStage) Name() string             { return s.id }
func (s *failingStage) Validate(*RunState) error { return nil }
func (s *failingStage) Execute(context.Context, *RunState) error {
	return s.err
}

func TestRunner_FailFast(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	runner := NewRunner(discardLogger(),
		&failingStage{id: "first", err: boom},
		&probeStage{ran: &ran},
	)

	report, err := runner.Run(context.Background(), &RunState{InputFile: "x"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, RunStatusFailed, report.Status)
	assert.False(t, ran, "second stage must not run after a failure")
}

type probeStage struct {
	ran *bool
}

func (s *probeStage) ID() string               { return "probe" }
func (s *probeStage) Name() string             { return "Probe" }
func (s *probeStage) Validate(*RunState) error { return nil }
func (s *probeStage) Execute(context.Context, *RunState) error {
	*s.ran = true
	return nil
}

func TestCleanStage_ValidateRequiresRows(t *testing.T) {
	stage := NewCleanStage(dataprocessing.NewCleaner(discardLogger(), 0.01), nil)
	assert.Error(t, stage.Validate(&RunState{}))
}

func TestLoadStage_ValidateRequiresEnriched(t *testing.T) {
	stage := NewLoadStage(nil, nil, nil)
	assert.Error(t, stage.Validate(&RunState{}))
}
