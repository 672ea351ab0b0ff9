package store

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
	"github.com/matzehuels/cratesync/pkg/layout"
)

// ScanArchives walks root and returns every package with a download marker.
// The package is read back from the path: root/<name>/<version>/download.
func ScanArchives(root string) (crate.Set, error) {
	found := crate.NewSet()
	err := walk(root, func(path string, d fs.DirEntry) error {
		if d.Name() != layout.ArchiveMarker {
			return nil
		}
		versionDir := filepath.Dir(path)
		found.Add(crate.Package{
			Name:    filepath.Base(filepath.Dir(versionDir)),
			Version: filepath.Base(versionDir),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ScanIndices walks root and returns every regular file as an index
// document keyed by its file name. Where a file sits does not matter; its
// shard path is recorded as found.
func ScanIndices(root string) (map[string]crate.IndexDocument, error) {
	docs := make(map[string]crate.IndexDocument)
	err := walk(root, func(path string, d fs.DirEntry) error {
		content, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodePersistence, err, "read %s", path)
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		var shard []string
		if rel != "." {
			shard = strings.Split(filepath.ToSlash(rel), "/")
		}
		docs[d.Name()] = crate.IndexDocument{
			Name:      d.Name(),
			ShardPath: shard,
			Content:   string(content),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// walk calls fn for every regular, non-hidden file below root.
// A missing root is an empty tree.
func walk(root string, fn func(path string, d fs.DirEntry) error) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(path, d)
	})
	if err != nil && errors.GetCode(err) == "" {
		return errors.Wrap(errors.ErrCodePersistence, err, "scan %s", root)
	}
	return err
}
