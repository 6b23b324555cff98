package workflows

import (
	"context"

	"github.com/PolarWolf314/jasyptor/internal/document"
	"github.com/PolarWolf314/jasyptor/internal/jasyptconf"
	"github.com/PolarWolf314/jasyptor/internal/pbe"
)

// ResolveOptions configures the resolve workflow.
type ResolveOptions struct {
	Path   string
	Env    jasyptconf.Env
	Loader document.Loader
}

// ResolveResult describes the settings that apply to a document.
type ResolveResult struct {
	Path   string
	Source string
	Config pbe.Config

	// Searched lists the files the resolver looks at, in order.
	Searched []string
}

// Resolve reports which encryption settings apply to opts.Path and where
// they come from, without touching the file.
func Resolve(ctx context.Context, opts ResolveOptions) (*ResolveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, err := document.KindOf(opts.Path)
	if err != nil {
		return nil, err
	}
	result := &ResolveResult{
		Path:     opts.Path,
		Searched: jasyptconf.Candidates(opts.Path, kind),
	}

	resolved, err := jasyptconf.NewResolver(opts.Loader, opts.Env).Resolve(opts.Path)
	if err != nil {
		return result, err
	}
	result.Source = resolved.Source
	result.Config = resolved.Config

	// Validate the way the engine will, so problems show up here too.
	if _, err := pbe.New(resolved.Config); err != nil {
		return result, err
	}
	return result, nil
}
