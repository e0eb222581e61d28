package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slaakko/cmajor-sub007/internal/export"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the archive cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove every cached unit archive of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		cfg, err := loadProject(dir)
		if err != nil {
			return err
		}
		cache, err := export.OpenDiskCache(appName, cfg.CacheDir())
		if err != nil {
			return fmt.Errorf("failed to open cache %s: %w", cfg.CacheDir(), err)
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clean cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
		return nil
	},
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir [dir]",
	Short: "Print the cache directory of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		cfg, err := loadProject(dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.CacheDir())
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheDirCmd)
}
