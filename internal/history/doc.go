// Package history persists per-file pipeline outcomes in SQLite so past runs
// can be inspected with `stockmeta history`.
//
// The database lives under the configured state directory, separate from the
// working folder, and is advisory only: the processed-files ledger remains the
// source of truth for skip decisions.
package history
