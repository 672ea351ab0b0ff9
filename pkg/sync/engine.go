package sync

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/observability"
	"github.com/matzehuels/cratesync/pkg/registry"
	"github.com/matzehuels/cratesync/pkg/store"
)

// Engine runs syncs against one registry and one store.
//
// The Engine holds no per-run state, so it may be reused for any number of
// sequential runs. Runs must not overlap on the same store.
type Engine struct {
	Registry registry.Registry
	Store    *store.Store
	Logger   *log.Logger

	// Hooks receives sync events. Nil selects [observability.Sync] at the
	// start of each run.
	Hooks observability.SyncHooks
}

// Options controls a single run.
type Options struct {
	Policy ExpandPolicy

	// DryRun fetches nothing that would be persisted. Version tails are
	// still read when the policy needs them; missing indices and archives
	// are only reported.
	DryRun bool

	// SkipIndex leaves the index cache alone.
	SkipIndex bool
}

// NewEngine creates an engine. If logger is nil, log.Default() is used.
func NewEngine(reg registry.Registry, st *store.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{Registry: reg, Store: st, Logger: logger}
}

// Run syncs the cache with wanted.
//
// On error the returned report is still non-nil and describes the work
// completed before the failure. Cancelling ctx stops the run before the next
// fetch; everything persisted so far stays.
func (e *Engine) Run(ctx context.Context, wanted crate.Set, opts Options) (*Report, error) {
	r := &run{
		Engine: e,
		opts:   opts,
		hooks:  e.Hooks,
		report: &Report{RunID: uuid.NewString(), Policy: opts.Policy, DryRun: opts.DryRun},
	}
	if r.hooks == nil {
		r.hooks = observability.Sync()
	}
	logger := e.Logger
	if logger == nil {
		logger = log.Default()
	}
	r.log = logger.With("run", r.report.RunID[:8])

	start := time.Now()
	err := r.execute(ctx, wanted)
	r.report.Duration = time.Since(start)
	return r.report, err
}

// run is the state of a single Engine.Run call.
type run struct {
	*Engine
	opts   Options
	hooks  observability.SyncHooks
	log    *log.Logger
	report *Report

	archives crate.Set
	indices  map[string]bool
}

func (r *run) execute(ctx context.Context, wanted crate.Set) error {
	for p := range wanted {
		if err := p.Validate(); err != nil {
			return err
		}
	}

	if !r.opts.DryRun {
		if err := r.Store.EnsureRoots(); err != nil {
			return err
		}
	}
	if err := r.scan(); err != nil {
		return err
	}

	sorted := wanted.Sorted()
	r.report.Requested = len(sorted)

	if !r.opts.SkipIndex {
		if err := r.fetchIndices(ctx, sorted); err != nil {
			return err
		}
	}

	targets := wanted.Clone()
	if r.opts.Policy.Enabled() {
		added, err := r.expand(ctx, sorted)
		if err != nil {
			return err
		}
		targets.Union(added)
	}
	r.report.Wanted = targets.Sorted()

	return r.fetchArchives(ctx, r.report.Wanted)
}

func (r *run) scan() error {
	archives, err := r.Store.Archives()
	if err != nil {
		return err
	}
	docs, err := r.Store.Indices()
	if err != nil {
		return err
	}
	r.archives = archives
	r.indices = make(map[string]bool, len(docs))
	for name := range docs {
		r.indices[name] = true
	}
	r.log.Debug("scanned cache",
		"archives", archives.Len(),
		"indices", len(docs))
	return nil
}

func (r *run) fetchIndices(ctx context.Context, sorted []crate.Package) error {
	for _, p := range sorted {
		if r.indices[p.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.indices[p.Name] = true

		if r.opts.DryRun {
			r.log.Info("would fetch index", "crate", p.Name)
			r.report.Indexed = append(r.report.Indexed, p.Name)
			continue
		}

		r.log.Debug("fetching index", "crate", p.Name)
		doc, err := r.Registry.FetchIndex(ctx, p.Name)
		if err == nil {
			_, err = r.Store.SaveIndex(doc)
		}
		r.hooks.OnIndexFetch(ctx, p.Name, err)
		if err != nil {
			return err
		}
		r.report.Indexed = append(r.report.Indexed, p.Name)
	}
	return nil
}

// expand reads the version tail of every originally wanted package. Packages
// it adds are not expanded again.
func (r *run) expand(ctx context.Context, sorted []crate.Package) (crate.Set, error) {
	added := crate.NewSet()
	seen := make(map[string]bool)
	for _, p := range sorted {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		versions, err := r.Registry.FetchVersionTail(ctx, p.Name, r.opts.Policy.Max())
		if err != nil {
			return nil, err
		}
		r.hooks.OnVersionExpand(ctx, p.Name, len(versions))
		r.log.Debug("expanded versions",
			"crate", p.Name,
			"policy", r.opts.Policy,
			"versions", len(versions))

		for _, v := range versions {
			added.Add(crate.Package{Name: p.Name, Version: v})
		}
	}
	r.report.Expanded = added.Len()
	return added, nil
}

func (r *run) fetchArchives(ctx context.Context, pkgs []crate.Package) error {
	for _, p := range pkgs {
		if r.archives.Has(p) {
			r.log.Info(p.String() + " is already downloaded")
			r.hooks.OnSkip(ctx, p)
			r.report.Skipped = append(r.report.Skipped, p)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if r.opts.DryRun {
			r.log.Info("would download", "crate", p.Name, "version", p.Version)
			r.report.Pending = append(r.report.Pending, p)
			continue
		}

		if err := r.fetchArchive(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) fetchArchive(ctx context.Context, p crate.Package) error {
	start := time.Now()
	data, err := r.Registry.FetchArchive(ctx, p)
	if err == nil {
		_, err = r.Store.SaveArchive(p, data)
	}
	elapsed := time.Since(start)
	r.hooks.OnArchiveFetch(ctx, p, len(data), elapsed, err)
	if err != nil {
		r.log.Error("download failed", "crate", p.Name, "version", p.Version, "error", err)
		return err
	}

	r.archives.Add(p)
	r.report.Downloaded = append(r.report.Downloaded, p)
	r.report.Bytes += int64(len(data))
	r.log.Info("downloaded",
		"crate", p.Name,
		"version", p.Version,
		"bytes", len(data),
		"duration", elapsed.Round(time.Millisecond))
	return nil
}
