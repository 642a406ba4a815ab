package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"salespipe/internal/analysis"
	"salespipe/internal/config"
	"salespipe/internal/dataprocessing"
	"salespipe/internal/exporter"
	"salespipe/internal/store"
)

// Stage identifiers, in execution order.
const (
	StageExtract   = "extract"
	StageClean     = "clean"
	StageTransform = "transform"
	StageLoad      = "load"
	StageAnalyze   = "analyze"
)

// NewStandardStages wires the five pipeline stages from configuration.
func NewStandardStages(cfg *config.Config, paths *config.Paths, logger *slog.Logger) []Stage {
	tolerance := cfg.Pipeline.Tolerance
	return []Stage{
		NewExtractStage(dataprocessing.NewExtractor(logger)),
		NewCleanStage(dataprocessing.NewCleaner(logger, tolerance), exporter.NewCSVWriter(paths, logger)),
		NewTransformStage(dataprocessing.NewTransformer(logger), exporter.NewCSVWriter(paths, logger)),
		NewLoadStage(store.NewLoader(logger, paths.DatabaseFile()), exporter.NewJSONWriter(paths, logger), exporter.NewWarehouseBuilder(paths, logger)),
		NewAnalyzeStage(paths, logger),
	}
}

// ExtractStage reads the raw input file.
type ExtractStage struct {
	extractor *dataprocessing.Extractor
}

func NewExtractStage(extractor *dataprocessing.Extractor) *ExtractStage {
	return &ExtractStage{extractor: extractor}
}

func (s *ExtractStage) ID() string   { return StageExtract }
func (s *ExtractStage) Name() string { return "Extract" }

func (s *ExtractStage) Validate(state *RunState) error {
	if state.InputFile == "" {
		return errors.New("no input file configured")
	}
	return nil
}

func (s *ExtractStage) Execute(ctx context.Context, state *RunState) error {
	raw, err := s.extractor.Extract(ctx, state.InputFile)
	if err != nil {
		return err
	}
	state.Raw = raw
	return nil
}

// CleanStage repairs the raw rows and writes the cleaned CSV artifact.
type CleanStage struct {
	cleaner *dataprocessing.Cleaner
	csv     *exporter.CSVWriter
}

func NewCleanStage(cleaner *dataprocessing.Cleaner, csv *exporter.CSVWriter) *CleanStage {
	return &CleanStage{cleaner: cleaner, csv: csv}
}

func (s *CleanStage) ID() string   { return StageClean }
func (s *CleanStage) Name() string { return "Clean" }

func (s *CleanStage) Validate(state *RunState) error {
	if len(state.Raw) == 0 {
		return errors.New("no rows extracted")
	}
	return nil
}

func (s *CleanStage) Execute(ctx context.Context, state *RunState) error {
	cleaned, report, err := s.cleaner.Clean(ctx, state.Raw)
	if err != nil {
		return err
	}
	state.Cleaned = cleaned
	state.CleanReport = report
	return s.csv.WriteCleaned(cleaned)
}

// TransformStage enriches rows, builds the summaries, and writes the
// enriched and summary CSV artifacts.
type TransformStage struct {
	transformer *dataprocessing.Transformer
	csv         *exporter.CSVWriter
}

func NewTransformStage(transformer *dataprocessing.Transformer, csv *exporter.CSVWriter) *TransformStage {
	return &TransformStage{transformer: transformer, csv: csv}
}

func (s *TransformStage) ID() string   { return StageTransform }
func (s *TransformStage) Name() string { return "Transform" }

func (s *TransformStage) Validate(state *RunState) error {
	if len(state.Cleaned) == 0 {
		return errors.New("no cleaned rows available")
	}
	return nil
}

func (s *TransformStage) Execute(ctx context.Context, state *RunState) error {
	enriched, summaries, stats, err := s.transformer.Transform(ctx, state.Cleaned)
	if err != nil {
		return err
	}
	state.Enriched = enriched
	state.Summaries = summaries
	state.Stats = stats

	if err := s.csv.WriteEnriched(enriched); err != nil {
		return err
	}
	return s.csv.WriteSummaries(summaries)
}

// LoadStage persists the run into SQLite, the JSON document export, and
// the warehouse bundle.
type LoadStage struct {
	loader    *store.Loader
	json      *exporter.JSONWriter
	warehouse *exporter.WarehouseBuilder
}

func NewLoadStage(loader *store.Loader, json *exporter.JSONWriter, warehouse *exporter.WarehouseBuilder) *LoadStage {
	return &LoadStage{loader: loader, json: json, warehouse: warehouse}
}

func (s *LoadStage) ID() string   { return StageLoad }
func (s *LoadStage) Name() string { return "Load" }

func (s *LoadStage) Validate(state *RunState) error {
	if len(state.Enriched) == 0 {
		return errors.New("no enriched rows available")
	}
	return nil
}

func (s *LoadStage) Execute(ctx context.Context, state *RunState) error {
	if err := s.loader.Load(ctx, state.Enriched, state.Summaries); err != nil {
		return err
	}
	if err := s.json.WriteDocuments(state.Enriched); err != nil {
		return err
	}
	return s.warehouse.Build(state.Summaries, state.InputFile)
}

// AnalyzeStage builds the comprehensive report from the loaded database
// and renders the charts.
type AnalyzeStage struct {
	paths  *config.Paths
	logger *slog.Logger
	out    io.Writer
}

func NewAnalyzeStage(paths *config.Paths, logger *slog.Logger) *AnalyzeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStage{paths: paths, logger: logger, out: os.Stdout}
}

func (s *AnalyzeStage) ID() string   { return StageAnalyze }
func (s *AnalyzeStage) Name() string { return "Analyze" }

func (s *AnalyzeStage) Validate(state *RunState) error {
	if _, err := os.Stat(s.paths.DatabaseFile()); err != nil {
		return errors.New("analysis database not loaded")
	}
	return nil
}

func (s *AnalyzeStage) Execute(ctx context.Context, state *RunState) error {
	db, err := store.Open(s.paths.DatabaseFile())
	if err != nil {
		return err
	}
	defer store.Close(db)

	report, err := analysis.NewReportBuilder(db, s.paths, s.logger).Build(ctx)
	if err != nil {
		return err
	}
	report.WriteSummary(s.out)

	return analysis.NewChartRenderer(s.paths, s.logger).RenderAll(state.Summaries)
}
