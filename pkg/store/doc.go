// Package store persists crate archives and index documents to the local
// cache, and scans the cache back into sets the sync engine can diff against.
//
// # Layout
//
//	<archive root>/<name>/<version>/download   raw .crate bytes
//	<index root>/<shard...>/<name>             raw index document
//
// The download marker doubles as the completion flag: the archive scan
// treats a package as cached exactly when its marker exists. Writes
// therefore go to a hidden temporary file in the target directory and are
// renamed into place, so an interrupted run never leaves a partial marker.
//
// # Scanning
//
// [ScanArchives] and [ScanIndices] tolerate a missing root and return an
// empty result. Hidden files and directories are ignored by both.
package store
