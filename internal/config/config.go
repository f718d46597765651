package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultOutDir       = "dist"
	DefaultMainEntry    = "src/main/index.ts"
	DefaultPreloadEntry = "src/preload/index.ts"
	DefaultNodeTarget   = "18"
	DefaultSourcemap    = true
	DefaultMinify       = false
	DefaultVerbose      = false
)

// entryExtensions are the source file extensions the bundler accepts
// as an entry point.
var entryExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// Holds the configuration options for navbuild
type Config struct {
	// Output directory for compiled bundles
	OutDir string

	// Entry point for the main process bundle
	MainEntry string

	// Entry point for the preload bundle
	PreloadEntry string

	// Minimum Node.js version the bundles must support (e.g. "18", "20.9")
	NodeTarget string

	// Emit a source map next to each bundle
	Sourcemap bool

	// Minify bundle output
	Minify bool

	// Disable the build cache
	NoCache bool

	// Rebuild automatically when source files change
	Watch bool

	// Enable verbose output
	Verbose bool
}

func Load() (*Config, error) {
	cfg := &Config{
		OutDir:       viper.GetString("out_dir"),
		MainEntry:    viper.GetString("main_entry"),
		PreloadEntry: viper.GetString("preload_entry"),
		NodeTarget:   viper.GetString("node_target"),
		Sourcemap:    viper.GetBool("sourcemap"),
		Minify:       viper.GetBool("minify"),
		NoCache:      viper.GetBool("no_cache"),
		Watch:        viper.GetBool("watch"),
		Verbose:      viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
	}

	if cfg.MainEntry == "" {
		cfg.MainEntry = DefaultMainEntry
	}

	if cfg.PreloadEntry == "" {
		cfg.PreloadEntry = DefaultPreloadEntry
	}

	if cfg.NodeTarget == "" {
		cfg.NodeTarget = DefaultNodeTarget
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	for _, entry := range []string{c.MainEntry, c.PreloadEntry} {
		if !isEntryFile(entry) {
			return fmt.Errorf("entry point %s must have one of the extensions %s",
				entry, strings.Join(entryExtensions, ", "))
		}
	}

	if !isValidNodeTarget(c.NodeTarget) {
		return fmt.Errorf("invalid node target: %s", c.NodeTarget)
	}

	return nil
}

func isEntryFile(path string) bool {
	for _, ext := range entryExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

// isValidNodeTarget accepts dotted version numbers like "18" or "20.9.0"
func isValidNodeTarget(target string) bool {
	if target == "" {
		return false
	}

	for _, part := range strings.Split(target, ".") {
		if part == "" {
			return false
		}

		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}

	return true
}
