package bundle

import (
	"fmt"
	"path/filepath"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/config"
)

// Profile describes one compilation unit. Profiles are defined once at
// process start and never mutated.
type Profile struct {
	// Name identifies the profile in console output ("main", "preload")
	Name string

	// EntryPoint is the source file bundling starts from
	EntryPoint string

	// SourceRoot is the directory watched and hashed for this profile
	SourceRoot string

	// Bundle inlines all dependencies into a single output file
	Bundle bool

	// Platform is the execution environment ("node", "browser", "neutral")
	Platform string

	// NodeTarget is the minimum Node.js version the output must support
	NodeTarget string

	// Outfile is where the compiled artifact is written
	Outfile string

	// External lists packages that must not be inlined
	External []string

	// Format is the output module format ("cjs", "esm", "iife")
	Format string

	// Sourcemap emits a .map file next to the output
	Sourcemap bool

	// Minify compresses the output
	Minify bool
}

// DefaultProfiles returns the two fixed build profiles: the main process
// bundle and the preload bundle. Electron itself is never inlined; it is
// provided by the host at runtime.
func DefaultProfiles(cfg *config.Config) []Profile {
	return []Profile{
		{
			Name:       "main",
			EntryPoint: cfg.MainEntry,
			SourceRoot: filepath.Dir(cfg.MainEntry),
			Bundle:     true,
			Platform:   "node",
			NodeTarget: cfg.NodeTarget,
			Outfile:    filepath.Join(cfg.OutDir, "main.js"),
			External:   []string{"electron"},
			Format:     "cjs",
			Sourcemap:  cfg.Sourcemap,
			Minify:     cfg.Minify,
		},
		{
			Name:       "preload",
			EntryPoint: cfg.PreloadEntry,
			SourceRoot: filepath.Dir(cfg.PreloadEntry),
			Bundle:     true,
			Platform:   "node",
			NodeTarget: cfg.NodeTarget,
			Outfile:    filepath.Join(cfg.OutDir, "preload.js"),
			External:   []string{"electron"},
			Format:     "cjs",
			Sourcemap:  cfg.Sourcemap,
			Minify:     cfg.Minify,
		},
	}
}

// buildOptions maps a profile onto the bundler's options
func buildOptions(p Profile) (api.BuildOptions, error) {
	platform, err := parsePlatform(p.Platform)
	if err != nil {
		return api.BuildOptions{}, err
	}

	format, err := parseFormat(p.Format)
	if err != nil {
		return api.BuildOptions{}, err
	}

	sourcemap := api.SourceMapNone
	if p.Sourcemap {
		sourcemap = api.SourceMapLinked
	}

	opts := api.BuildOptions{
		EntryPoints:       []string{p.EntryPoint},
		Bundle:            p.Bundle,
		Platform:          platform,
		Format:            format,
		Outfile:           p.Outfile,
		External:          p.External,
		Sourcemap:         sourcemap,
		MinifyWhitespace:  p.Minify,
		MinifyIdentifiers: p.Minify,
		MinifySyntax:      p.Minify,
		Write:             true,
		LogLevel:          api.LogLevelSilent,
	}

	if p.NodeTarget != "" {
		opts.Engines = []api.Engine{{Name: api.EngineNode, Version: p.NodeTarget}}
	}

	return opts, nil
}

func parsePlatform(s string) (api.Platform, error) {
	switch s {
	case "node":
		return api.PlatformNode, nil
	case "browser":
		return api.PlatformBrowser, nil
	case "neutral":
		return api.PlatformNeutral, nil
	default:
		return api.PlatformDefault, fmt.Errorf("unknown platform: %s", s)
	}
}

func parseFormat(s string) (api.Format, error) {
	switch s {
	case "cjs":
		return api.FormatCommonJS, nil
	case "esm":
		return api.FormatESModule, nil
	case "iife":
		return api.FormatIIFE, nil
	default:
		return api.FormatDefault, fmt.Errorf("unknown module format: %s", s)
	}
}
