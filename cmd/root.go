package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "navbuild",
	Short:         "Bundle the desktop app's main and preload entry points",
	Long:          `Bundles the application's main process and preload scripts with esbuild, once or continuously in watch mode.`,
	RunE:          runBuild,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Build failed:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (%s) %s", version.Version, version.Commit, version.BuildTime)
	rootCmd.PersistentFlags().BoolP("watch", "w", false, "Rebuild automatically when source files change")
	rootCmd.PersistentFlags().StringP("out-dir", "o", "", "Output directory for compiled bundles")
	rootCmd.PersistentFlags().Bool("sourcemap", true, "Emit a source map next to each bundle")
	rootCmd.PersistentFlags().Bool("minify", false, "Minify bundle output")
	rootCmd.PersistentFlags().Bool("no-cache", false, "Disable the build cache")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(cacheCmd)
}
