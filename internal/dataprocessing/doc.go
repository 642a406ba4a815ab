// Package dataprocessing implements the in-memory stages of the sales
// pipeline: extracting raw order rows from delimited or Excel source files,
// cleaning and repairing them, and transforming clean rows into enriched
// rows, grouped summaries, and global statistics.
//
// The stages are strictly ordered: Extract produces RawOrder rows, Clean
// produces typed OrderRecord rows, Transform produces EnrichedOrder rows
// plus the five summaries. Each stage is deterministic: identical input
// yields identical output, including row and summary ordering.
package dataprocessing
