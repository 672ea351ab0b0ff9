// Package layout maps crate names and versions onto the crates.io index
// sharding scheme and the local cache directory layout.
//
// The shard scheme must match the registry bit for bit, since the same
// segments build remote index URLs, local mirror paths, and the index cache:
//
//	a      -> 1/a
//	ab     -> 2/ab
//	abc    -> 3/a/abc
//	serde  -> se/rd/serde
package layout

import (
	"path"
	"path/filepath"
	"strconv"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
)

// ArchiveMarker is the file name an archive is stored under inside its
// name/version directory.
const ArchiveMarker = "download"

// ShardPath returns the directory segments the index document for name is
// bucketed under. Length is measured in bytes; crate names are ASCII.
func ShardPath(name string) ([]string, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	switch n := len(name); {
	case n <= 2:
		return []string{strconv.Itoa(n)}, nil
	case n == 3:
		return []string{strconv.Itoa(n), name[:1]}, nil
	default:
		return []string{name[:2], name[2:4]}, nil
	}
}

// IndexPath returns the slash-separated index location of name relative to
// the index root, e.g. "se/rd/serde". Suitable for joining onto a URL.
func IndexPath(name string) (string, error) {
	shard, err := ShardPath(name)
	if err != nil {
		return "", err
	}
	return path.Join(append(shard, name)...), nil
}

// IndexFile returns the on-disk location of name's index document under root.
func IndexFile(root, name string) (string, error) {
	shard, err := ShardPath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{root}, shard...), name)...), nil
}

// ArchivePath returns the download path of p relative to the archive base
// URL: "name/name-version.crate".
func ArchivePath(p crate.Package) string {
	return path.Join(p.Name, p.Name+"-"+p.Version+".crate")
}

// ArchiveDir returns root/name/version.
func ArchiveDir(root string, p crate.Package) string {
	return filepath.Join(root, p.Name, p.Version)
}

// ArchiveFile returns root/name/version/download.
func ArchiveFile(root string, p crate.Package) string {
	return filepath.Join(ArchiveDir(root, p), ArchiveMarker)
}
