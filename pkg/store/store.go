package store

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
	"github.com/matzehuels/cratesync/pkg/layout"
)

// fileMode is the permission of every saved archive and index document.
const fileMode os.FileMode = 0o644

// Store writes archives and index documents under two roots.
type Store struct {
	ArchiveRoot string
	IndexRoot   string
}

// New returns a Store for the given roots.
func New(archiveRoot, indexRoot string) *Store {
	return &Store{ArchiveRoot: archiveRoot, IndexRoot: indexRoot}
}

// EnsureRoots creates both roots if they do not exist.
func (s *Store) EnsureRoots() error {
	for _, dir := range []string{s.ArchiveRoot, s.IndexRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodePersistence, err, "create %s", dir)
		}
	}
	return nil
}

// SaveArchive writes data to ArchiveRoot/name/version/download, replacing
// any existing archive. It returns the file written.
func (s *Store) SaveArchive(p crate.Package, data []byte) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	path := layout.ArchiveFile(s.ArchiveRoot, p)
	if err := writeFile(path, data); err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "save archive %s", p)
	}
	return path, nil
}

// SaveIndex writes doc.Content to IndexRoot/shard.../name, replacing any
// existing document. It returns the file written.
func (s *Store) SaveIndex(doc *crate.IndexDocument) (string, error) {
	path, err := layout.IndexFile(s.IndexRoot, doc.Name)
	if err != nil {
		return "", err
	}
	if err := writeFile(path, []byte(doc.Content)); err != nil {
		return "", errors.Wrap(errors.ErrCodePersistence, err, "save index %s", doc.Name)
	}
	return path, nil
}

// Archives scans the archive root. See [ScanArchives].
func (s *Store) Archives() (crate.Set, error) { return ScanArchives(s.ArchiveRoot) }

// Indices scans the index root. See [ScanIndices].
func (s *Store) Indices() (map[string]crate.IndexDocument, error) { return ScanIndices(s.IndexRoot) }

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".cratesync-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(fileMode)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
