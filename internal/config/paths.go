package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names, fixed across runs so that each run overwrites the
// previous one's output.
const (
	CleanedCSVName    = "cleaned_sales.csv"
	EnrichedCSVName   = "transformed_sales.csv"
	DocumentJSONName  = "sales_data.json"
	WarehouseJSONName = "warehouse_data.json"
	DictionaryName    = "data_dictionary.json"
	ReportName        = "analysis_report.json"

	TopProductsChartName   = "top_products_analysis.png"
	RevenueChartName       = "revenue_analysis.png"
	MonthlyTrendsChartName = "monthly_trends_analysis.png"
)

// SummaryCSVNames maps summary identifiers to their CSV file names.
var SummaryCSVNames = map[string]string{
	"products":   "product_summary.csv",
	"categories": "category_summary.csv",
	"monthly":    "monthly_sales.csv",
	"regions":    "region_summary.csv",
	"customers":  "customer_summary.csv",
}

// Paths resolves the location of every pipeline artifact from the
// configured base directories.
type Paths struct {
	cfg PathsConfig
}

// NewPaths creates a Paths helper for the given configuration.
func NewPaths(cfg PathsConfig) *Paths {
	return &Paths{cfg: cfg}
}

// EnsureDirs creates all output directories that do not yet exist.
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.cfg.DataDir, p.cfg.WarehouseDir, p.cfg.ChartsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DataDir returns the base directory for row-level artifacts.
func (p *Paths) DataDir() string { return p.cfg.DataDir }

// DatabaseFile returns the SQLite database file path.
func (p *Paths) DatabaseFile() string { return p.cfg.DatabaseFile }

// CleanedCSV returns the cleaned row file path.
func (p *Paths) CleanedCSV() string { return filepath.Join(p.cfg.DataDir, CleanedCSVName) }

// EnrichedCSV returns the enriched row file path.
func (p *Paths) EnrichedCSV() string { return filepath.Join(p.cfg.DataDir, EnrichedCSVName) }

// DocumentJSON returns the JSON document export path.
func (p *Paths) DocumentJSON() string { return filepath.Join(p.cfg.DataDir, DocumentJSONName) }

// SummaryCSV returns the CSV path for the named summary.
func (p *Paths) SummaryCSV(key string) string {
	return filepath.Join(p.cfg.DataDir, SummaryCSVNames[key])
}

// WarehouseFile returns the warehouse bundle path.
func (p *Paths) WarehouseFile() string {
	return filepath.Join(p.cfg.WarehouseDir, WarehouseJSONName)
}

// DictionaryFile returns the data dictionary path.
func (p *Paths) DictionaryFile() string {
	return filepath.Join(p.cfg.WarehouseDir, DictionaryName)
}

// ReportFile returns the comprehensive analysis report path.
func (p *Paths) ReportFile() string { return filepath.Join(p.cfg.DataDir, ReportName) }

// ChartsDir returns the directory chart images are written into.
func (p *Paths) ChartsDir() string { return p.cfg.ChartsDir }

// ChartFile returns the path for a chart image.
func (p *Paths) ChartFile(name string) string { return filepath.Join(p.cfg.ChartsDir, name) }
