package registry

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
	"github.com/matzehuels/cratesync/pkg/layout"
)

// Mirror serves index documents from a local crates.io-index checkout.
// Archives are not part of the index repository and come from archives.
type Mirror struct {
	root     string
	archives ArchiveFetcher
}

// NewMirror returns a Mirror rooted at root.
func NewMirror(root string, archives ArchiveFetcher) *Mirror {
	return &Mirror{root: root, archives: archives}
}

// Root returns the mirror directory.
func (m *Mirror) Root() string { return m.root }

// FetchIndex reads root/<shard>/<name>.
func (m *Mirror) FetchIndex(ctx context.Context, name string) (*crate.IndexDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := layout.IndexFile(m.root, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeIndexNotFound, err, "index for %s", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read mirror index for %s", name)
	}
	return NewDocument(name, string(data))
}

// FetchVersionTail reads the index document and returns its last max versions.
func (m *Mirror) FetchVersionTail(ctx context.Context, name string, max int) ([]string, error) {
	doc, err := m.FetchIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	return VersionTail(doc, max)
}

// FetchArchive delegates to the configured archive fetcher.
func (m *Mirror) FetchArchive(ctx context.Context, p crate.Package) ([]byte, error) {
	if m.archives == nil {
		return nil, errors.New(errors.ErrCodeArchiveFetch, "%s: mirror has no archive source", p)
	}
	return m.archives.FetchArchive(ctx, p)
}

var _ Registry = (*Mirror)(nil)
