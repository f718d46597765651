package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the build cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Show build cache statistics",
	RunE:         runCacheStats,
	SilenceUsage: true,
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear",
	Short:        "Remove all cached bundles",
	RunE:         runCacheClear,
	SilenceUsage: true,
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, err := cache.New("")
	if err != nil {
		return err
	}
	defer store.Close()

	count, size, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Entries: %d\nSize: %s\n", count, humanSize(size))

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := cache.New("")
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(); err != nil {
		return err
	}

	fmt.Println("Cache cleared")

	return nil
}

func humanSize(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
