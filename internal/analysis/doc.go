// Package analysis produces the post-load artifacts: the comprehensive
// JSON report built from database queries, a console summary, and the
// three PNG charts rendered from the transform summaries.
package analysis
