package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/bundle"
	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/cache"
	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/config"
	"github.com/RGgreenbhm/HomeTeam-Navigator-sub003/internal/watch"
)

var buildCmd = &cobra.Command{
	Use:          "build",
	Short:        "Bundle the main and preload entry points",
	Long:         `Run both bundling jobs once, or keep rebuilding on source changes with --watch.`,
	RunE:         runBuild,
	SilenceUsage: true,
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader().LoadForBuild(cmd)
	if err != nil {
		return err
	}

	profiles := bundle.DefaultProfiles(cfg)

	if cfg.Watch {
		return runWatch(cfg, profiles)
	}

	return runOnce(cfg, profiles)
}

// runOnce builds both profiles concurrently and reports overall success
func runOnce(cfg *config.Config, profiles []bundle.Profile) error {
	var store *cache.Cache

	if !cfg.NoCache {
		var err error
		store, err = cache.New("")
		if err != nil {
			// A broken cache should never block a build
			fmt.Fprintf(os.Stderr, "Warning: build cache unavailable: %v\n", err)
		} else {
			defer store.Close()
		}
	}

	g := new(errgroup.Group)

	for _, p := range profiles {
		p := p
		g.Go(func() error {
			return buildProfile(store, p, cfg.Verbose)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Println("Build complete")

	return nil
}

// buildProfile runs one bundling job, going through the cache when enabled
func buildProfile(store *cache.Cache, p bundle.Profile, verbose bool) error {
	if store != nil {
		entry, err := store.Get(".", p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cache lookup for %s failed: %v\n", p.Name, err)
		}

		if entry != nil && entry.Success {
			if err := store.Restore(entry, "."); err == nil {
				fmt.Printf("  %s -> %s (cached)\n", p.EntryPoint, p.Outfile)
				return nil
			}

			fmt.Fprintf(os.Stderr, "Warning: cache restore for %s failed, rebuilding\n", p.Name)
		}
	}

	if err := bundle.Build(p); err != nil {
		return err
	}

	fmt.Printf("  %s -> %s\n", p.EntryPoint, p.Outfile)

	if store != nil {
		if err := store.Store(".", p, true); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to cache %s: %v\n", p.Name, err)
		}
	}

	if verbose {
		fmt.Printf("  %s: platform=%s node=%s format=%s external=%v\n",
			p.Name, p.Platform, p.NodeTarget, p.Format, p.External)
	}

	return nil
}

// runWatch establishes a watch session per profile and rebuilds on change
func runWatch(cfg *config.Config, profiles []bundle.Profile) error {
	sessions := make([]*bundle.Session, len(profiles))

	g := new(errgroup.Group)

	for i, p := range profiles {
		i, p := i, p
		g.Go(func() error {
			s, err := bundle.NewSession(p)
			if err != nil {
				return err
			}

			sessions[i] = s

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		disposeSessions(sessions)
		return err
	}

	defer disposeSessions(sessions)

	// Initial build. Errors here are reported but do not stop the watch;
	// the next source change gets another chance.
	for _, s := range sessions {
		if err := s.Rebuild(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Printf("  %s -> %s\n", s.Profile().EntryPoint, s.Profile().Outfile)
		}
	}

	roots := make([]string, 0, len(profiles))
	for _, p := range profiles {
		roots = append(roots, p.SourceRoot)
	}

	watcher, err := watch.New(roots, []string{"node_modules", filepath.Base(cfg.OutDir)}, 0)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	defer watcher.Close()

	return watchAndRebuild(os.Stdout, sessions, watcher.Changes(), watcher.Errors())
}

// watchAndRebuild announces that watching has started, then rebuilds the
// affected sessions for each change batch until the channel closes.
// Rebuild errors are reported and watching continues.
func watchAndRebuild(out io.Writer, sessions []*bundle.Session, changes <-chan []string, errs <-chan error) error {
	fmt.Fprintln(out, "Watching for changes...")

	for {
		select {
		case batch, ok := <-changes:
			if !ok {
				return nil
			}

			for _, s := range affectedSessions(sessions, batch) {
				if err := s.Rebuild(); err != nil {
					fmt.Fprintln(os.Stderr, err)
					continue
				}

				fmt.Fprintf(out, "Rebuilt %s\n", s.Profile().Outfile)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}

			fmt.Fprintln(os.Stderr, "watch error:", err)
		}
	}
}

// affectedSessions returns the sessions whose source roots contain any of
// the changed files
func affectedSessions(sessions []*bundle.Session, changed []string) []*bundle.Session {
	var out []*bundle.Session

	for _, s := range sessions {
		root, err := filepath.Abs(s.Profile().SourceRoot)
		if err != nil {
			continue
		}

		for _, file := range changed {
			if within(file, root) {
				out = append(out, s)
				break
			}
		}
	}

	return out
}

// within reports whether path is inside root
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func disposeSessions(sessions []*bundle.Session) {
	for _, s := range sessions {
		if s != nil {
			s.Dispose()
		}
	}
}
