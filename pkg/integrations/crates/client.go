package crates

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
	"github.com/matzehuels/cratesync/pkg/httputil"
	"github.com/matzehuels/cratesync/pkg/integrations"
	"github.com/matzehuels/cratesync/pkg/layout"
	"github.com/matzehuels/cratesync/pkg/registry"
)

const (
	// DefaultIndexURL serves raw index documents from the crates.io-index repository.
	DefaultIndexURL = "https://raw.githubusercontent.com/rust-lang/crates.io-index/master"

	// DefaultArchiveURL is the static host for .crate archives.
	DefaultArchiveURL = "https://static.crates.io/crates"

	// DefaultUserAgent identifies cratesync, as crates.io policy requests.
	DefaultUserAgent = "cratesync/1.0 (https://github.com/matzehuels/cratesync)"
)

// Client fetches index documents and archives from crates.io over HTTP.
//
// All methods are safe for concurrent use, though the sync engine calls
// them one at a time.
type Client struct {
	*integrations.Client
	indexURL      string
	archiveURL    string
	indexPolicy   httputil.Policy
	archivePolicy httputil.Policy
}

// Option configures a Client.
type Option func(*Client)

// WithIndexURL overrides the index base URL.
func WithIndexURL(u string) Option {
	return func(c *Client) { c.indexURL = strings.TrimRight(u, "/") }
}

// WithArchiveURL overrides the archive base URL.
func WithArchiveURL(u string) Option {
	return func(c *Client) { c.archiveURL = strings.TrimRight(u, "/") }
}

// WithArchiveRetry sets the archive retry policy. The default is
// [httputil.ArchivePolicy] (5 attempts).
func WithArchiveRetry(p httputil.Policy) Option {
	return func(c *Client) { c.archivePolicy = p }
}

// WithIndexRetry sets the index retry policy.
func WithIndexRetry(p httputil.Policy) Option {
	return func(c *Client) { c.indexPolicy = p }
}

// NewClient creates a crates.io client.
//
// Parameters:
//   - timeout: per-request timeout (0 selects [integrations.DefaultTimeout])
//   - userAgent: User-Agent header ("" selects [DefaultUserAgent])
func NewClient(timeout time.Duration, userAgent string, opts ...Option) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	c := &Client{
		Client:        integrations.NewClient(timeout, map[string]string{"User-Agent": userAgent}),
		indexURL:      DefaultIndexURL,
		archiveURL:    DefaultArchiveURL,
		indexPolicy:   httputil.DefaultPolicy,
		archivePolicy: httputil.ArchivePolicy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchIndex downloads the index document for name from
// <indexURL>/<shard>/<name>.
//
// Returns:
//   - the document on success
//   - INDEX_NOT_FOUND if the registry answers 404
//   - INVALID_PACKAGE_NAME for names that cannot be sharded
//   - other errors wrapping [integrations.ErrNetwork]
func (c *Client) FetchIndex(ctx context.Context, name string) (*crate.IndexDocument, error) {
	rel, err := layout.IndexPath(name)
	if err != nil {
		return nil, err
	}
	text, err := c.GetText(ctx, c.indexURL+"/"+rel, c.indexPolicy)
	if err != nil {
		if stderrors.Is(err, integrations.ErrNotFound) {
			return nil, errors.Wrap(errors.ErrCodeIndexNotFound, err, "index for %s", name)
		}
		return nil, err
	}
	return registry.NewDocument(name, text)
}

// FetchVersionTail downloads name's index document and returns the versions
// on its last max lines.
func (c *Client) FetchVersionTail(ctx context.Context, name string, max int) ([]string, error) {
	doc, err := c.FetchIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	return registry.VersionTail(doc, max)
}

// FetchArchive downloads <archiveURL>/<name>/<name>-<version>.crate.
// Transient failures are retried per the archive policy; once it is spent,
// or on a permanent failure, the error carries ARCHIVE_FETCH_FAILED.
func (c *Client) FetchArchive(ctx context.Context, p crate.Package) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	data, err := c.GetBytes(ctx, c.archiveURL+"/"+layout.ArchivePath(p), c.archivePolicy)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeArchiveFetch, err, "download %s", p)
	}
	return data, nil
}

var _ registry.Registry = (*Client)(nil)
