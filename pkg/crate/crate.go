package crate

import (
	"cmp"
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/cratesync/pkg/errors"
)

// Package identifies one published version of a crate.
type Package struct {
	Name    string // Crate name as published (case-sensitive)
	Version string // Exact version string, never a requirement
}

// String returns "name version", the form Cargo.lock uses in dependency lists.
func (p Package) String() string { return p.Name + " " + p.Version }

// Validate reports whether p can be used as a cache path and download target.
func (p Package) Validate() error {
	if err := errors.ValidatePackageName(p.Name); err != nil {
		return err
	}
	return errors.ValidateVersion(p.Version)
}

// Compare orders packages by name, then version, byte-wise.
func Compare(a, b Package) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Version, b.Version)
}

// Set is an unordered collection of distinct packages.
type Set map[Package]struct{}

// NewSet returns a set holding pkgs.
func NewSet(pkgs ...Package) Set {
	s := make(Set, len(pkgs))
	for _, p := range pkgs {
		s.Add(p)
	}
	return s
}

// Add inserts p. Adding an existing package is a no-op.
func (s Set) Add(p Package) { s[p] = struct{}{} }

// Has reports whether p is in the set.
func (s Set) Has(p Package) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of packages.
func (s Set) Len() int { return len(s) }

// Union adds every package of other to s.
func (s Set) Union(other Set) {
	for p := range other {
		s.Add(p)
	}
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	if s == nil {
		return NewSet()
	}
	return maps.Clone(s)
}

// Names returns the distinct crate names in the set, sorted.
func (s Set) Names() []string {
	seen := make(map[string]struct{}, len(s))
	for p := range s {
		seen[p.Name] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// Sorted returns the packages ordered by [Compare].
func (s Set) Sorted() []Package {
	return slices.SortedFunc(maps.Keys(s), Compare)
}

// IndexEntry is one line of a registry index document.
type IndexEntry struct {
	Version string          `json:"vers"`   // Published version
	Yanked  bool            `json:"yanked"` // Withdrawn from resolution, still downloadable
	Raw     json.RawMessage `json:"-"`      // The full line, passed through untouched
}

// IndexDocument is the registry metadata for every version of one crate.
type IndexDocument struct {
	Name      string   // Crate name; also the file name inside the shard
	ShardPath []string // Directory segments the document lives under
	Content   string   // Raw newline-delimited JSON
}
