// Package sync brings a local crate cache up to date with a wanted set of
// packages.
//
// # Algorithm
//
// [Engine.Run] works in six strictly sequential steps:
//
//  1. Scan the archive and index caches.
//  2. Sort the wanted set by (name, version).
//  3. Fetch and persist the index document of every wanted name that has
//     none cached. Index fetching is per name: one document covers every
//     version of a crate.
//  4. Expand the wanted set with older versions from each crate's index,
//     according to the [ExpandPolicy].
//  5. Re-sort.
//  6. For each package, skip it with a notice if its archive is cached,
//     otherwise download it and persist it immediately.
//
// Only one fetch is outstanding at a time. Each archive is persisted before
// the next is requested, so a failed or interrupted run keeps everything
// fetched so far, and a rerun picks up where it stopped.
//
// # Ordering
//
// Sorting compares names and versions as plain strings, so "0.10.0" sorts
// before "0.9.0". The order is stable across runs, which is what the engine
// relies on; it is not a semantic-version order.
//
// # Usage
//
//	reg := crates.NewClient(30*time.Second, "")
//	st := store.New("crates", "index")
//	engine := sync.NewEngine(reg, st, logger)
//
//	report, err := engine.Run(ctx, wanted, sync.Options{Policy: sync.LastN(3)})
package sync
