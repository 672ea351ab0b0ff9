// Package crate defines the values that flow through a cratesync run.
//
// # Package
//
// A [Package] is a (name, version) pair. It is a comparable value type, so two
// Packages are the same entity exactly when both fields match, and it can be
// used directly as a map key. [Set] builds on that to deduplicate the wanted
// crates collected from a Cargo.lock:
//
//	s := crate.NewSet()
//	s.Add(crate.Package{Name: "serde", Version: "1.0.193"})
//	s.Add(crate.Package{Name: "serde", Version: "1.0.193"}) // no-op
//	for _, p := range s.Sorted() {
//	    fmt.Println(p)
//	}
//
// Sets carry no order. [Set.Sorted] orders by name then version using plain
// string comparison, which keeps runs deterministic but is not semver-aware:
// "1.10.0" sorts before "1.9.0".
//
// # Index documents
//
// An [IndexDocument] is the raw newline-delimited JSON blob the registry
// publishes for one crate name, one line per published version. Content is
// kept opaque; only the "vers" field of each line is ever interpreted (see
// [IndexEntry]).
package crate
