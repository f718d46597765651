package bundle

import (
	"path/filepath"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/config"
)

func TestDefaultProfiles(t *testing.T) {
	cfg := &config.Config{
		OutDir:       "dist",
		MainEntry:    "src/main/index.ts",
		PreloadEntry: "src/preload/index.ts",
		NodeTarget:   "18",
		Sourcemap:    true,
	}

	profiles := DefaultProfiles(cfg)
	require.Len(t, profiles, 2)

	main, preload := profiles[0], profiles[1]

	assert.Equal(t, "main", main.Name)
	assert.Equal(t, "src/main/index.ts", main.EntryPoint)
	assert.Equal(t, filepath.Join("src", "main"), main.SourceRoot)
	assert.Equal(t, filepath.Join("dist", "main.js"), main.Outfile)

	assert.Equal(t, "preload", preload.Name)
	assert.Equal(t, "src/preload/index.ts", preload.EntryPoint)
	assert.Equal(t, filepath.Join("dist", "preload.js"), preload.Outfile)

	// Both jobs write to distinct output paths
	assert.NotEqual(t, main.Outfile, preload.Outfile)

	for _, p := range profiles {
		assert.True(t, p.Bundle)
		assert.Equal(t, "node", p.Platform)
		assert.Equal(t, "18", p.NodeTarget)
		assert.Equal(t, "cjs", p.Format)
		assert.Contains(t, p.External, "electron")
		assert.True(t, p.Sourcemap)
	}
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input    string
		expected api.Platform
		wantErr  bool
	}{
		{"node", api.PlatformNode, false},
		{"browser", api.PlatformBrowser, false},
		{"neutral", api.PlatformNeutral, false},
		{"", api.PlatformDefault, true},
		{"deno", api.PlatformDefault, true},
	}

	for _, test := range tests {
		result, err := parsePlatform(test.input)

		if test.wantErr {
			assert.Error(t, err, "parsePlatform(%q)", test.input)
			continue
		}

		assert.NoError(t, err, "parsePlatform(%q)", test.input)
		assert.Equal(t, test.expected, result, "parsePlatform(%q)", test.input)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected api.Format
		wantErr  bool
	}{
		{"cjs", api.FormatCommonJS, false},
		{"esm", api.FormatESModule, false},
		{"iife", api.FormatIIFE, false},
		{"", api.FormatDefault, true},
		{"umd", api.FormatDefault, true},
	}

	for _, test := range tests {
		result, err := parseFormat(test.input)

		if test.wantErr {
			assert.Error(t, err, "parseFormat(%q)", test.input)
			continue
		}

		assert.NoError(t, err, "parseFormat(%q)", test.input)
		assert.Equal(t, test.expected, result, "parseFormat(%q)", test.input)
	}
}

func TestBuildOptions(t *testing.T) {
	p := Profile{
		Name:       "main",
		EntryPoint: "src/main/index.ts",
		Bundle:     true,
		Platform:   "node",
		NodeTarget: "18",
		Outfile:    "dist/main.js",
		External:   []string{"electron"},
		Format:     "cjs",
		Sourcemap:  true,
		Minify:     true,
	}

	opts, err := buildOptions(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main/index.ts"}, opts.EntryPoints)
	assert.True(t, opts.Bundle)
	assert.Equal(t, api.PlatformNode, opts.Platform)
	assert.Equal(t, api.FormatCommonJS, opts.Format)
	assert.Equal(t, "dist/main.js", opts.Outfile)
	assert.Equal(t, []string{"electron"}, opts.External)
	assert.Equal(t, api.SourceMapLinked, opts.Sourcemap)
	assert.True(t, opts.MinifyWhitespace)
	assert.True(t, opts.MinifyIdentifiers)
	assert.True(t, opts.MinifySyntax)
	assert.True(t, opts.Write)

	require.Len(t, opts.Engines, 1)
	assert.Equal(t, api.EngineNode, opts.Engines[0].Name)
	assert.Equal(t, "18", opts.Engines[0].Version)
}

func TestBuildOptions_NoSourcemap(t *testing.T) {
	p := Profile{
		Name:       "preload",
		EntryPoint: "src/preload/index.ts",
		Platform:   "node",
		Format:     "cjs",
		Outfile:    "dist/preload.js",
	}

	opts, err := buildOptions(p)
	require.NoError(t, err)

	assert.Equal(t, api.SourceMapNone, opts.Sourcemap)
	assert.Empty(t, opts.Engines)
}

func TestBuildOptions_InvalidProfile(t *testing.T) {
	_, err := buildOptions(Profile{Platform: "wasm", Format: "cjs"})
	assert.Error(t, err)

	_, err = buildOptions(Profile{Platform: "node", Format: "umd"})
	assert.Error(t, err)
}
