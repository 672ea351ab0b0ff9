package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesync/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the local crate cache",
	}

	cmd.AddCommand(c.cacheListCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

// cacheListCommand creates the "cache list" subcommand.
func (c *CLI) cacheListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached crate archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			st := newStore(cfg)

			archives, err := st.Archives()
			if err != nil {
				return err
			}
			indices, err := st.Indices()
			if err != nil {
				return err
			}

			if archives.Len() == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printInfo("%d archives of %d crates, %d index documents", archives.Len(), len(archives.Names()), len(indices))
			for _, p := range archives.Sorted() {
				printCrate(p.Name, p.Version, false, false)
			}
			return nil
		},
	}
	addCacheFlags(cmd)
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the cache directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			printKeyValue("archives", cfg.ArchiveDir)
			printKeyValue("index", cfg.IndexDir)
			if cfg.Mirror != "" {
				printKeyValue("mirror", cfg.Mirror)
			}
			return nil
		},
	}
	addCacheFlags(cmd)
	cmd.Flags().StringP("registry", "r", "", "local crates.io-index checkout")
	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached archives and index documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if !yes {
				return errors.New(errors.ErrCodeInvalidInput, "refusing to delete %s and %s without --yes", cfg.ArchiveDir, cfg.IndexDir)
			}

			st := newStore(cfg)
			archives, err := st.Archives()
			if err != nil {
				return err
			}
			for _, dir := range []string{cfg.ArchiveDir, cfg.IndexDir} {
				if err := os.RemoveAll(dir); err != nil {
					return fmt.Errorf("clear %s: %w", dir, err)
				}
			}

			printSuccess("Cleared %d cached archives", archives.Len())
			printDetail("Directory: %s", cfg.ArchiveDir)
			return nil
		},
	}
	addCacheFlags(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
