package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesync/pkg/crate"
	"github.com/matzehuels/cratesync/pkg/errors"
	"github.com/matzehuels/cratesync/pkg/registry"
)

func (c *CLI) versionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions <crate>",
		Short: "List a crate's published versions",
		Long: `List the versions in a crate's registry index, oldest first, marking those
already in the local archive cache. With --max-previous only the last N index
lines are shown, which is exactly the set "sync --max-previous N" would add.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVersions(cmd, args[0])
		},
	}

	cmd.Flags().Int("max-previous", 0, "only show the last N versions")
	addCacheFlags(cmd)
	addRegistryFlags(cmd)

	return cmd
}

func (c *CLI) runVersions(cmd *cobra.Command, name string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := errors.ValidatePackageName(name); err != nil {
		return err
	}

	prog := newProgress(logger)
	doc, err := newRegistry(cfg).FetchIndex(ctx, name)
	if err != nil {
		return err
	}
	entries, err := registry.ParseIndex(doc)
	if err != nil {
		return err
	}
	prog.done("Fetched index for " + name)

	if n := cfg.MaxPrevious; n > 0 && n < len(entries) {
		entries = entries[len(entries)-n:]
	}

	cached, err := newStore(cfg).Archives()
	if err != nil {
		return err
	}

	printInfo("%s: %d versions", name, len(entries))
	for _, e := range entries {
		printCrate(name, e.Version, cached.Has(crate.Package{Name: name, Version: e.Version}), e.Yanked)
	}
	return nil
}
