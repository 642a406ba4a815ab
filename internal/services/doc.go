// Package services implements the business logic layer between the HTTP
// handlers and the analysis database.
//
// Services follow these principles:
//
//	1. Context propagation on every query
//	2. Dependency injection for loose coupling
//	3. Deterministic ordering with explicit secondary sort keys
//	4. Error wrapping with enough context to diagnose a failed query
//
// The query surface is read only. All aggregation happens in SQL against
// the tables the pipeline's load stage produced.
package services
