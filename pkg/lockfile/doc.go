// Package lockfile extracts pinned registry crates from Cargo.lock files.
//
// # Overview
//
// A Cargo.lock lists every package of a workspace's resolved dependency
// graph as a [[package]] table:
//
//	[[package]]
//	name = "serde"
//	version = "1.0.193"
//	source = "registry+https://github.com/rust-lang/crates.io-index"
//	dependencies = [
//	 "serde_derive 1.0.193",
//	]
//
// [Decode] turns such a document into a [crate.Set] of everything that has to
// be fetched from the registry: each registry-sourced package itself, plus
// every "name version" pair named in its dependency list.
//
// # Filtering
//
// Records without a source are workspace members or path dependencies, and
// records whose source starts with "git+" come from git; neither is a registry
// artifact, so both are skipped. A skipped record can still show up in the
// result when a registry package depends on it by name and version.
//
// Dependency entries with a single token ("name") refer to a package that is
// unambiguous within the lock file and contribute nothing on their own.
//
// No resolution happens here: the lock file already pins every version.
package lockfile
