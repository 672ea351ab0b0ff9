package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/cratesync/pkg/crate"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()
	pkg := crate.Package{Name: "serde", Version: "1.0.0"}

	// Sync hooks
	s := NoopSyncHooks{}
	s.OnIndexFetch(ctx, "serde", nil)
	s.OnVersionExpand(ctx, "serde", 3)
	s.OnArchiveFetch(ctx, pkg, 1024, time.Second, nil)
	s.OnSkip(ctx, pkg)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "static.crates.io", "/crates/serde/serde-1.0.0.crate")
	h.OnResponse(ctx, "GET", "static.crates.io", "/crates/serde/serde-1.0.0.crate", 200, time.Second)
	h.OnError(ctx, "GET", "static.crates.io", "/crates/serde/serde-1.0.0.crate", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Sync().(NoopSyncHooks); !ok {
		t.Error("Sync() should return NoopSyncHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customSync := &testSyncHooks{}
	SetSyncHooks(customSync)
	if Sync() != customSync {
		t.Error("SetSyncHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Sync().(NoopSyncHooks); !ok {
		t.Error("Reset() should restore NoopSyncHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testSyncHooks{}
	SetSyncHooks(custom)

	// Setting nil should be ignored
	SetSyncHooks(nil)

	if Sync() != custom {
		t.Error("SetSyncHooks(nil) should be ignored")
	}

	Reset()
}

func TestCounter(t *testing.T) {
	ctx := context.Background()
	pkg := crate.Package{Name: "foo", Version: "1.0.0"}
	fail := errors.New("boom")

	c := &Counter{}
	c.OnIndexFetch(ctx, "foo", nil)
	c.OnIndexFetch(ctx, "bar", fail)
	c.OnVersionExpand(ctx, "foo", 2)
	c.OnVersionExpand(ctx, "bar", 3)
	c.OnArchiveFetch(ctx, pkg, 100, time.Second, nil)
	c.OnArchiveFetch(ctx, pkg, 50, time.Second, nil)
	c.OnArchiveFetch(ctx, pkg, 0, time.Second, fail)
	c.OnSkip(ctx, pkg)
	c.OnRequest(ctx, "GET", "h", "/p")
	c.OnError(ctx, "GET", "h", "/p", fail)

	got := c.Snapshot()
	want := Stats{
		IndicesFetched:  1,
		IndexFailures:   1,
		VersionsAdded:   5,
		ArchivesFetched: 2,
		ArchiveFailures: 1,
		ArchiveBytes:    150,
		ArchiveTime:     2 * time.Second,
		Skipped:         1,
		Requests:        1,
		HTTPErrors:      1,
	}
	if got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

// Test implementations
type testSyncHooks struct{ NoopSyncHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
