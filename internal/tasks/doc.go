// Package tasks implements the sync engine: paginated metadata acquisition,
// detail enrichment, reconciliation against the persisted record set, and
// download orchestration.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
