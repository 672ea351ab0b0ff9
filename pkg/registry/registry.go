// Package registry defines the capability the sync engine uses to reach a
// crate registry, and the parts of it that do not depend on transport.
//
// Two implementations exist: the network client in
// [github.com/matzehuels/cratesync/pkg/integrations/crates], and [Mirror],
// which reads index documents from a local checkout of the crates.io-index
// repository and delegates archive downloads to a network fetcher. Both
// address index documents through [layout.ShardPath], so the engine never
// branches on mode.
package registry

import (
	"context"
	"math"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/layout"
)

// Unbounded as a version tail length selects every published version.
const Unbounded = math.MaxInt

// Registry fetches index documents and archives. All methods are stateless
// and safe to repeat.
type Registry interface {
	// FetchIndex returns the index document for name. Fails with
	// INDEX_NOT_FOUND if the registry has no such crate.
	FetchIndex(ctx context.Context, name string) (*crate.IndexDocument, error)

	// FetchVersionTail returns the versions on the last max lines of name's
	// index document, oldest first.
	FetchVersionTail(ctx context.Context, name string, max int) ([]string, error)

	// FetchArchive downloads the .crate archive for p. Fails with
	// ARCHIVE_FETCH_FAILED once the retry budget is spent.
	FetchArchive(ctx context.Context, p crate.Package) ([]byte, error)
}

// ArchiveFetcher is the archive half of [Registry].
type ArchiveFetcher interface {
	FetchArchive(ctx context.Context, p crate.Package) ([]byte, error)
}

// NewDocument builds the index document for name around content.
func NewDocument(name, content string) (*crate.IndexDocument, error) {
	shard, err := layout.ShardPath(name)
	if err != nil {
		return nil, err
	}
	return &crate.IndexDocument{Name: name, ShardPath: shard, Content: content}, nil
}
