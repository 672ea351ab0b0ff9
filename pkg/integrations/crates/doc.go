// Package crates fetches index documents and archives from crates.io.
//
// # Overview
//
// Two hosts are involved:
//
//   - the index, served as raw files from the rust-lang/crates.io-index
//     repository at <index>/<shard>/<name>
//   - archives, served from static.crates.io at
//     <archives>/<name>/<name>-<version>.crate
//
// # Usage
//
//	client := crates.NewClient(30*time.Second, "")
//
//	doc, err := client.FetchIndex(ctx, "serde")
//	versions, err := client.FetchVersionTail(ctx, "serde", 5)
//	data, err := client.FetchArchive(ctx, crate.Package{Name: "serde", Version: "1.0.193"})
//
// # Retries
//
// Archive downloads retry transient failures (connection errors, 429, 5xx)
// up to five attempts with exponential backoff before failing with
// ARCHIVE_FETCH_FAILED. Index documents use the default three attempts.
// A 404 is never retried.
//
// # User-Agent
//
// The client sends a User-Agent header as requested by crates.io policy.
package crates
