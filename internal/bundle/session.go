package bundle

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"
)

// Session holds a bundler context that can rebuild a profile
// incrementally. Used by watch mode.
type Session struct {
	profile Profile
	ctx     api.BuildContext
}

// NewSession creates a rebuildable bundler context for a profile.
// The first build happens on the first call to Rebuild.
func NewSession(p Profile) (*Session, error) {
	opts, err := buildOptions(p)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", p.Name, err)
	}

	ctx, ctxErr := api.Context(opts)
	if ctxErr != nil {
		return nil, buildError(p.Name, ctxErr.Errors)
	}

	return &Session{profile: p, ctx: ctx}, nil
}

// Profile returns the profile this session builds
func (s *Session) Profile() Profile {
	return s.profile
}

// Rebuild reruns the bundling job, reusing work from previous builds
func (s *Session) Rebuild() error {
	result := s.ctx.Rebuild()
	if len(result.Errors) > 0 {
		return buildError(s.profile.Name, result.Errors)
	}

	return nil
}

// Dispose releases the bundler context
func (s *Session) Dispose() {
	s.ctx.Dispose()
}
