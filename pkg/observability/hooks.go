// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about sync runs and registry requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so pkg/sync and
// pkg/integrations never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	counter := &observability.Counter{}
//	observability.SetSyncHooks(counter)
//	// ... run a sync
//	fmt.Println(counter.Snapshot().ArchivesFetched)
//
// Libraries call hooks to emit events:
//
//	observability.Sync().OnArchiveFetch(ctx, pkg, len(data), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/cratesync/pkg/crate"
)

// =============================================================================
// Sync Hooks
// =============================================================================

// SyncHooks receives events from the sync engine.
type SyncHooks interface {
	// OnIndexFetch records an index document fetch and persist for name.
	OnIndexFetch(ctx context.Context, name string, err error)

	// OnVersionExpand records how many versions a tail lookup returned.
	OnVersionExpand(ctx context.Context, name string, versions int)

	// OnArchiveFetch records an archive download and persist.
	OnArchiveFetch(ctx context.Context, pkg crate.Package, size int, duration time.Duration, err error)

	// OnSkip records a package that was already in the archive cache.
	OnSkip(ctx context.Context, pkg crate.Package)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSyncHooks is a no-op implementation of SyncHooks.
type NoopSyncHooks struct{}

func (NoopSyncHooks) OnIndexFetch(context.Context, string, error)  {}
func (NoopSyncHooks) OnVersionExpand(context.Context, string, int) {}
func (NoopSyncHooks) OnArchiveFetch(context.Context, crate.Package, int, time.Duration, error) {
}
func (NoopSyncHooks) OnSkip(context.Context, crate.Package) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	syncHooks SyncHooks = NoopSyncHooks{}
	httpHooks HTTPHooks = NoopHTTPHooks{}
	hooksMu   sync.RWMutex
)

// SetSyncHooks registers custom sync hooks.
// This should be called once at application startup before any sync runs.
func SetSyncHooks(h SyncHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		syncHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Sync returns the registered sync hooks.
func Sync() SyncHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return syncHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	syncHooks = NoopSyncHooks{}
	httpHooks = NoopHTTPHooks{}
}
