package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/jsonflow/pkg/cache"
	"github.com/matzehuels/jsonflow/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the pipeline cache",
	}
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached graphs, layouts and renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := c.cfg.Cache.OpenCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			p := status(cmd)
			ok, err := cache.Clear(ctx, store)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if !ok {
				p.warning("The %s cache backend cannot be cleared", c.backend())
				return nil
			}
			p.success("Cleared the %s cache", c.backend())
			if dir, err := c.cacheDir(); err == nil && dir != "" {
				p.detail("Directory: %s", dir)
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if dir == "" {
				return fmt.Errorf("the %s cache backend has no directory", c.backend())
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func (c *CLI) backend() string {
	if c.cfg.Cache.Backend == "" {
		return config.BackendFile
	}
	return c.cfg.Cache.Backend
}

// cacheDir returns the file cache directory, or "" for other backends.
func (c *CLI) cacheDir() (string, error) {
	if c.backend() != config.BackendFile {
		return "", nil
	}
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
