package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ievis/pkg/cache"
)

// cacheCommand manages the on-disk pipeline cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout, mesh and export cache",
	}
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	return cmd
}

// fileCache opens the configured cache directory regardless of the
// configured backend, so a switched-off cache can still be cleaned.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	fc, err := cache.NewFileCache(c.Config.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("open cache dir: %w", err)
	}
	return fc, nil
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			spinner := newSpinner("Pruning " + fc.Dir() + "...")
			spinner.Start()
			n, err := fc.Prune(cmd.Context())
			if err != nil {
				spinner.StopWithError("Prune failed")
				return err
			}
			spinner.StopWithSuccess(fmt.Sprintf("Pruned %d expired entries", n))
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), c.Config.Cache.Dir)
		},
	}
}
