// Package export turns metadata rows into stock-agency CSV files.
//
// Exporters are registered explicitly on a Registry during setup; Builtin
// returns a registry holding the Adobe Stock, Freepik, and Dreamstime
// exporters. Export resolves every requested target before writing anything,
// then writes one `<name>_metadata_<stem>.csv` per target, UTF-8 with a byte
// order mark so spreadsheet tools detect the encoding.
package export
