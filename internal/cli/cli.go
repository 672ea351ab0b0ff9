package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cratesync/internal/config"
	"github.com/matzehuels/cratesync/pkg/buildinfo"
	"github.com/matzehuels/cratesync/pkg/httputil"
	"github.com/matzehuels/cratesync/pkg/integrations/crates"
	"github.com/matzehuels/cratesync/pkg/registry"
	"github.com/matzehuels/cratesync/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and completion files.
	appName = "cratesync"

	// retryDelay is the first backoff step for archive downloads.
	retryDelay = time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	logOut     io.Writer
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cratesync mirrors crates.io archives for offline builds",
		Long: `cratesync resolves the crates pinned by a Cargo.lock, compares them with a
local cache, and downloads the missing .crate archives and index documents
from crates.io or a local crates.io-index checkout.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./cratesync.toml if present)")
	root.PersistentFlags().String("log-file", "", "also write logs to this file, rotated by size")

	// Register all subcommands
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Factories
// =============================================================================

// loadConfig resolves configuration with cmd's flags taking precedence.
func (c *CLI) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(c.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if f := logFile(cfg); f != nil {
		c.Logger.SetOutput(io.MultiWriter(c.logOut, f))
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	return cfg, nil
}

// newRegistry returns the crates.io client, or a mirror over it when a
// local index checkout is configured.
func newRegistry(cfg *config.Config) registry.Registry {
	ua := cfg.UserAgent
	if ua == "" {
		ua = buildinfo.UserAgent()
	}
	client := crates.NewClient(cfg.Timeout, ua,
		crates.WithArchiveRetry(httputil.Policy{Attempts: cfg.ArchiveRetries, Delay: retryDelay}),
	)
	if cfg.Mirror != "" {
		return registry.NewMirror(cfg.Mirror, client)
	}
	return client
}

func newStore(cfg *config.Config) *store.Store {
	return store.New(cfg.ArchiveDir, cfg.IndexDir)
}

// addCacheFlags registers the flags that locate the cache.
func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "crates", "archive cache directory")
	cmd.Flags().String("index-dir", "index", "index cache directory")
}

// addRegistryFlags registers the flags that select and tune the registry.
func addRegistryFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("registry", "r", "", "local crates.io-index checkout to read indices from")
	cmd.Flags().String("user-agent", "", "User-Agent for registry requests")
	cmd.Flags().Int("retries", 5, "archive download attempts")
	cmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout")
}
