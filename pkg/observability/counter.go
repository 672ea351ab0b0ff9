package observability

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/cratesync/pkg/crate"
)

// Counter is a SyncHooks and HTTPHooks implementation that tallies events.
// The CLI uses it for its closing summary line.
type Counter struct {
	mu sync.Mutex
	s  Stats
}

// Stats is a point-in-time copy of a Counter.
type Stats struct {
	IndicesFetched  int
	IndexFailures   int
	VersionsAdded   int
	ArchivesFetched int
	ArchiveFailures int
	ArchiveBytes    int64
	ArchiveTime     time.Duration
	Skipped         int
	Requests        int
	HTTPErrors      int
}

func (c *Counter) OnIndexFetch(_ context.Context, _ string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.s.IndexFailures++
		return
	}
	c.s.IndicesFetched++
}

func (c *Counter) OnVersionExpand(_ context.Context, _ string, versions int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.VersionsAdded += versions
}

func (c *Counter) OnArchiveFetch(_ context.Context, _ crate.Package, size int, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.s.ArchiveFailures++
		return
	}
	c.s.ArchivesFetched++
	c.s.ArchiveBytes += int64(size)
	c.s.ArchiveTime += d
}

func (c *Counter) OnSkip(context.Context, crate.Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Skipped++
}

func (c *Counter) OnRequest(context.Context, string, string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Requests++
}

func (c *Counter) OnResponse(context.Context, string, string, string, int, time.Duration) {}

func (c *Counter) OnError(context.Context, string, string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.HTTPErrors++
}

// Snapshot returns the current tallies.
func (c *Counter) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s
}

var (
	_ SyncHooks = (*Counter)(nil)
	_ HTTPHooks = (*Counter)(nil)
)
