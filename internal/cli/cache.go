package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/obsexport/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the cache of downloaded notebooks and exports",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "clear",
		Short:             "Remove every cached notebook and export",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				c.status().info("Cache is disabled")
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				c.status().info("Cache is empty")
				return nil
			}

			st := c.status()
			st.success("Cleared %d cached entries", count)
			st.detail("%s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "path",
		Short:             "Print where the cache lives",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(c.stdout, c.cacheLocation())
			return err
		},
	}
}

// cacheLocation describes the configured cache: a directory, a Redis
// address or "disabled".
func (c *CLI) cacheLocation() string {
	switch c.Config.Cache.Backend {
	case backendNone:
		return "disabled"
	case backendRedis:
		return "redis://" + c.Config.Cache.RedisAddr
	}
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return "disabled"
	}
	return dir
}
