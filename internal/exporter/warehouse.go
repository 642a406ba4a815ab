package exporter

import (
	"log/slog"
	"time"

	"salespipe/internal/config"
	"salespipe/pkg/contracts"
	"salespipe/pkg/contracts/domain"
)

// WarehouseBuilder writes the warehouse bundle: a single JSON document
// carrying all five summaries plus metadata, and the data dictionary
// describing every field of the enriched row set.
type WarehouseBuilder struct {
	paths  *config.Paths
	logger *slog.Logger
	now    func() time.Time
}

// NewWarehouseBuilder creates a builder rooted at the configured warehouse
// directory.
func NewWarehouseBuilder(paths *config.Paths, logger *slog.Logger) *WarehouseBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &WarehouseBuilder{paths: paths, logger: logger, now: time.Now}
}

// WarehouseMetadata describes the bundle itself.
type WarehouseMetadata struct {
	CreatedAt   string `json:"created_at"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// WarehouseBundle is the shape of warehouse_data.json.
type WarehouseBundle struct {
	Metadata          WarehouseMetadata `json:"metadata"`
	SummaryStatistics domain.SummarySet `json:"summary_statistics"`
	DataSources       map[string]string `json:"data_sources"`
}

// fieldDictionary documents each column of the enriched row set. Keys and
// wording are part of the published artifact contract.
var fieldDictionary = map[string]string{
	"order_id":         "Unique identifier for each order",
	"product_name":     "Name of the product",
	"category":         "Product category",
	"quantity":         "Number of items ordered",
	"unit_price":       "Price per unit",
	"total_amount":     "Total amount for the order",
	"customer_id":      "Unique customer identifier",
	"order_date":       "Date of the order",
	"region":           "Geographic region",
	"month":            "Month of the order",
	"year":             "Year of the order",
	"day_of_week":      "Day of the week",
	"quarter":          "Quarter of the year",
	"is_weekend":       "Boolean indicating if order was placed on weekend",
	"revenue_segment":  "Revenue category (Low, Medium, High, Very High)",
	"quantity_segment": "Quantity category (Single, Small, Medium, Large)",
}

// Build writes warehouse_data.json and data_dictionary.json.
func (b *WarehouseBuilder) Build(set domain.SummarySet, inputFile string) error {
	bundle := WarehouseBundle{
		Metadata: WarehouseMetadata{
			CreatedAt:   b.now().Format(time.RFC3339),
			Version:     contracts.WarehouseFormatVersion,
			Description: "E-Commerce Sales Data Warehouse",
		},
		SummaryStatistics: set,
		DataSources: map[string]string{
			"raw_data":         inputFile,
			"cleaned_data":     config.CleanedCSVName,
			"transformed_data": config.EnrichedCSVName,
			"database":         b.paths.DatabaseFile(),
		},
	}

	warehousePath := b.paths.WarehouseFile()
	if err := writeJSONFile(warehousePath, bundle); err != nil {
		return err
	}

	dictionary := map[string]map[string]string{"sales_data": fieldDictionary}
	dictionaryPath := b.paths.DictionaryFile()
	if err := writeJSONFile(dictionaryPath, dictionary); err != nil {
		return err
	}

	b.logger.Info("wrote warehouse bundle",
		slog.String("warehouse", warehousePath),
		slog.String("dictionary", dictionaryPath))
	return nil
}
