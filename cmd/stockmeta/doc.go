// Package main hosts the stockmeta CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration (file, .env, environment,
// flags), builds the logger, and hands a working folder to the pipeline. It
// renders per-file outcomes and pass summaries as tables and exposes the
// category table, run history, and configuration scaffolding.
package main
