package cli

import (
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
	"github.com/matzehuels/cratesync/pkg/lockfile"
	"github.com/matzehuels/cratesync/pkg/observability"
	"github.com/matzehuels/cratesync/pkg/sync"
)

type syncOpts struct {
	input     string
	name      string
	version   string
	dryRun    bool
	skipIndex bool
}

func (c *CLI) syncCommand() *cobra.Command {
	var opts syncOpts

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the crates pinned by a Cargo.lock",
		Long: `Download every registry crate pinned by a Cargo.lock, or a single crate, into
the local cache. Crates already cached are skipped, so an interrupted sync can
simply be rerun.

With --all or --max-previous, older versions of each crate are fetched too.`,
		Example: `  cratesync sync -i Cargo.lock
  cratesync sync -n serde -V 1.0.193 --max-previous 3
  cratesync sync -i Cargo.lock -r ~/src/crates.io-index -o /srv/crates`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSync(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Cargo.lock to read")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "single crate name (requires --crate-version)")
	cmd.Flags().StringVarP(&opts.version, "crate-version", "V", "", "single crate version (requires --name)")
	cmd.Flags().Bool("all", false, "also download every published version")
	cmd.Flags().Int("max-previous", 0, "also download the last N published versions")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would be downloaded")
	cmd.Flags().BoolVar(&opts.skipIndex, "no-index", false, "do not fetch index documents")
	addCacheFlags(cmd)
	addRegistryFlags(cmd)
	cmd.MarkFlagsMutuallyExclusive("input", "name")
	cmd.MarkFlagsMutuallyExclusive("all", "max-previous")
	cmd.MarkFlagsRequiredTogether("name", "crate-version")

	return cmd
}

func (c *CLI) runSync(cmd *cobra.Command, opts syncOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	policy, err := sync.ParsePolicy(cfg.All, cfg.MaxPrevious)
	if err != nil {
		return err
	}
	wanted, err := wantedSet(opts, logger)
	if err != nil {
		return err
	}

	counter := &observability.Counter{}
	observability.SetHTTPHooks(counter)
	defer observability.Reset()

	engine := sync.NewEngine(newRegistry(cfg), newStore(cfg), logger)
	engine.Hooks = counter

	logger.Debug("starting sync",
		"crates", wanted.Len(),
		"policy", policy,
		"archives", cfg.ArchiveDir,
		"index", cfg.IndexDir,
		"mirror", cfg.Mirror)

	prog := newProgress(logger)
	report, err := engine.Run(ctx, wanted, sync.Options{
		Policy:    policy,
		DryRun:    opts.dryRun,
		SkipIndex: opts.skipIndex,
	})
	if err != nil {
		if report != nil && len(report.Downloaded) > 0 {
			printWarning("Stopped after downloading %d crates; rerun to resume", len(report.Downloaded))
		}
		return err
	}
	prog.done("Sync finished")

	printReport(report, counter.Snapshot(), cfg.ArchiveDir)
	return nil
}

// wantedSet builds the crates to sync from a lock file or --name/--crate-version.
func wantedSet(opts syncOpts, logger *log.Logger) (crate.Set, error) {
	switch {
	case opts.input != "":
		if !(lockfile.CargoLock{}).Supports(filepath.Base(opts.input)) {
			logger.Warn("input is not named Cargo.lock; parsing it anyway", "path", opts.input)
		}
		res, err := lockfile.CargoLock{}.Parse(opts.input)
		if err != nil {
			return nil, err
		}
		logger.Info("parsed lock file",
			"path", opts.input,
			"records", res.Records,
			"skipped", res.Skipped,
			"crates", res.Packages.Len())
		return res.Packages, nil
	case opts.name != "" && opts.version != "":
		p := crate.Package{Name: opts.name, Version: opts.version}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return crate.NewSet(p), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "either --input or --name with --crate-version is required")
	}
}

func printReport(r *sync.Report, stats observability.Stats, archiveDir string) {
	switch {
	case r.DryRun:
		printInfo("Dry run: %d of %d crates would be downloaded", len(r.Pending), len(r.Wanted))
		for _, p := range r.Pending {
			printCrate(p.Name, p.Version, false, false)
		}
	case r.UpToDate():
		printSuccess("All %d crates already downloaded", len(r.Wanted))
	default:
		printSuccess("Downloaded %d crates (%s)", len(r.Downloaded), formatBytes(r.Bytes))
	}

	printStats(
		stat{r.Requested, "requested"},
		stat{r.Expanded, "from history"},
		stat{len(r.Indexed), "indices"},
		stat{len(r.Skipped), "cached"},
		stat{stats.Requests, "requests"},
		stat{stats.HTTPErrors, "network errors"},
	)
	printDetail("Directory: %s", archiveDir)
}
