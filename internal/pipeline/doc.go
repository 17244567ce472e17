// Package pipeline runs the three passes over a working folder.
//
// The raster pass walks images and videos in name order: files already in the
// ledger are skipped, the rest are preprocessed, described by the configured
// provider with a rotated API key, parsed, appended to the day's row store,
// and recorded in the ledger. The vector pass gives .svg/.eps companions the
// metadata of their raster sibling. The export pass writes one agency CSV per
// target from the rows gathered by this run, or from the day's row store when
// the run produced none.
//
// Preprocessing and provider failures skip only the affected file. Missing
// credentials, row store or ledger write failures, and unknown export targets
// end the run.
package pipeline
