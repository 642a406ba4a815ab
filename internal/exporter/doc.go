// Package exporter writes the pipeline's file artifacts: the cleaned and
// enriched CSV files, the per-dimension summary CSVs, the JSON document
// export, and the warehouse bundle with its data dictionary.
//
// Artifact names are fixed so each run overwrites the previous run's output.
// All writers flush and close before returning; a partially written file is
// reported as an error rather than left behind silently.
package exporter
