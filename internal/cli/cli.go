// Package cli implements the jsonflow command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/buildinfo"
	"github.com/matzehuels/jsonflow/pkg/config"
	"github.com/matzehuels/jsonflow/pkg/observability"
	"github.com/matzehuels/jsonflow/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "jsonflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. The configuration is loaded
// once per invocation, before the selected command runs.
type CLI struct {
	Logger *log.Logger

	cfg        *config.Config
	configPath string
	verbose    bool
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "jsonflow turns JSON documents into editable node graphs",
		Long: `jsonflow decodes a JSON (or YAML) document into a tree, flattens it into
a graph of property cards, lays the graph out and renders it. Structural
edits (moving a subtree, moving a single property) are applied to the
tree and written back as JSON.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/jsonflow/config.toml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the pipeline cache")

	root.AddCommand(c.flattenCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.formatCommand())
	root.AddCommand(c.reparentCommand())
	root.AddCommand(c.transferCommand())
	root.AddCommand(c.applyCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and applies the log level before any
// subcommand runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetEditHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	for _, w := range cfg.Validate() {
		c.Logger.Warn("config", "warning", w)
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner opens the configured cache and returns a runner over it. The
// returned func closes the cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, func(), error) {
	cc := c.cfg.Cache
	if c.noCache {
		cc.Backend = config.BackendNone
	}
	store, err := cc.OpenCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	r := pipeline.NewRunner(store, cc.Keyer(), c.Logger)
	r.TTL = pipeline.TTL{
		Graph:    cc.GraphTTL.Duration,
		Layout:   cc.LayoutTTL.Duration,
		Artifact: cc.ArtifactTTL.Duration,
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			c.Logger.Debug("close cache", "error", err)
		}
	}
	return r, closeFn, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns pipeline options seeded from the layout config.
func (c *CLI) pipelineOptions() pipeline.Options {
	l := c.cfg.Layout
	return pipeline.Options{
		Direction:  l.Direction,
		Align:      l.Align,
		NodeSep:    l.NodeSep,
		RankSep:    l.RankSep,
		Dimensions: l.Dimensions,
		Logger:     c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
