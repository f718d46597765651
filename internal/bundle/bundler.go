// Package bundle invokes esbuild for the application's fixed build
// profiles, either as a one-shot build or through a rebuildable session
// for watch mode.
package bundle

import (
	"fmt"
	"os"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Build runs a single bundling job to completion
func Build(p Profile) error {
	if _, err := os.Stat(p.EntryPoint); err != nil {
		return fmt.Errorf("bundle %s: entry point %s: %w", p.Name, p.EntryPoint, err)
	}

	opts, err := buildOptions(p)
	if err != nil {
		return fmt.Errorf("bundle %s: %w", p.Name, err)
	}

	result := api.Build(opts)
	if len(result.Errors) > 0 {
		return buildError(p.Name, result.Errors)
	}

	return nil
}

// buildError collapses the bundler's error messages into a single error
func buildError(name string, msgs []api.Message) error {
	lines := api.FormatMessages(msgs, api.FormatMessagesOptions{
		Kind: api.ErrorMessage,
	})

	return fmt.Errorf("bundle %s: %s", name, strings.TrimSpace(strings.Join(lines, "")))
}
