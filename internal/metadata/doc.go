// Package metadata defines the common metadata row shared by the row store,
// the vector linker, and the exporters, together with the fixed Adobe
// category table and the tolerant parser for tagged model responses.
package metadata
