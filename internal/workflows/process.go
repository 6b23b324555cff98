package workflows

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/PolarWolf314/jasyptor/internal/audit"
	"github.com/PolarWolf314/jasyptor/internal/document"
	kerrors "github.com/PolarWolf314/jasyptor/internal/errors"
	"github.com/PolarWolf314/jasyptor/internal/jasyptconf"
	logger "github.com/PolarWolf314/jasyptor/internal/logging"
	"github.com/PolarWolf314/jasyptor/internal/pbe"
	"github.com/PolarWolf314/jasyptor/internal/rewrite"
)

// ProcessOptions configures the process workflow.
type ProcessOptions struct {
	// Paths are files, directories or doublestar globs. If empty, the
	// current directory is processed.
	Paths []string

	// DryRun reports what would change without writing any file.
	DryRun bool

	// Workers bounds how many files are processed at once. Defaults to 1.
	Workers int

	// Loader and Writer default to the local filesystem.
	Loader document.Loader
	Writer document.Writer

	// Env resolves ${NAME} password references. Defaults to the process
	// environment.
	Env jasyptconf.Env

	Logger logger.Logger

	// AuditPath is the audit log appended to after a real run. Empty
	// disables auditing.
	AuditPath string

	// Progress, if set, is called after each file with the number of files
	// finished so far. Calls are serialised.
	Progress func(done, total int)
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path string

	// Source is the file the encryption settings came from.
	Source string

	TokensFound   int
	TokensChanged int

	// Err is nil on success. Benign errors mean the file was skipped.
	Err error
}

// Kind is the error kind name, or "" on success.
func (r FileResult) Kind() string {
	return kerrors.Kind(r.Err)
}

// Benign reports whether the file was skipped rather than failed.
func (r FileResult) Benign() bool {
	return r.Err != nil && kerrors.IsBenign(r.Err)
}

// Failed reports whether processing the file failed.
func (r FileResult) Failed() bool {
	return r.Err != nil && !kerrors.IsBenign(r.Err)
}

// Changed reports whether at least one token was rewritten.
func (r FileResult) Changed() bool {
	return r.Err == nil && r.TokensChanged > 0
}

// ProcessResult contains the outcome of a process run. Files are in input
// order.
type ProcessResult struct {
	Files  []FileResult
	DryRun bool

	// RunID identifies the audit entry of this run, if one was written.
	RunID string
}

// Total is the number of files considered.
func (r *ProcessResult) Total() int {
	return len(r.Files)
}

// ChangedFiles lists the files that were (or, on a dry run, would be)
// rewritten.
func (r *ProcessResult) ChangedFiles() []string {
	var out []string
	for _, f := range r.Files {
		if f.Changed() {
			out = append(out, f.Path)
		}
	}
	return out
}

// Failures lists the files that failed.
func (r *ProcessResult) Failures() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Failed() {
			out = append(out, f)
		}
	}
	return out
}

// Skipped lists the files with nothing to do: no jasypt configuration or an
// unsupported file type.
func (r *ProcessResult) Skipped() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Benign() {
			out = append(out, f)
		}
	}
	return out
}

// Process rewrites the ENC(...) tokens of every file matched by opts.Paths.
//
// Each file is resolved and rewritten on its own; a failure is recorded on
// that file's result and the batch carries on. A file is written once, with
// an atomic rename, and only when its whole rewrite succeeded and changed
// something.
//
// Returns ErrFileNotFound if a literal path does not exist.
// Returns ErrNoFilesFound if nothing matched.
// If ctx is cancelled, files not yet started are reported with the context
// error and that error is also returned alongside the partial result.
func Process(ctx context.Context, opts ProcessOptions) (*ProcessResult, error) {
	targets, err := resolveTargets(opts.Paths)
	if err != nil {
		return nil, err
	}

	p := newProcessor(opts)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	opts.Logger.Debugf("Processing %d files with %d workers (dry run: %t)", len(targets), workers, opts.DryRun)

	results := make([]FileResult, len(targets))
	var (
		mu   sync.Mutex
		done int
	)
	finish := func(i int, r FileResult) {
		results[i] = r
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		done++
		opts.Progress(done, len(targets))
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, t := range targets {
		if ctx.Err() != nil {
			results[i] = FileResult{Path: t.path, Err: ctx.Err()}
			continue
		}
		g.Go(func() error {
			finish(i, p.processFile(ctx, t))
			return nil
		})
	}
	_ = g.Wait()

	result := &ProcessResult{Files: results, DryRun: opts.DryRun}

	if !opts.DryRun && opts.AuditPath != "" {
		entry := audit.NewEntry("process")
		entry.Paths = opts.Paths
		entry.Files = result.ChangedFiles()
		entry.FilesCount = result.Total()
		entry.ChangedCount = len(entry.Files)
		entry.FailedCount = len(result.Failures())
		audit.Log(opts.AuditPath, entry)
		result.RunID = entry.RunID
	}

	return result, ctx.Err()
}

type processor struct {
	loader   document.Loader
	writer   document.Writer
	resolver *jasyptconf.Resolver
	log      logger.Logger
	dryRun   bool
}

func newProcessor(opts ProcessOptions) *processor {
	loader := opts.Loader
	if loader == nil {
		loader = document.FS{}
	}
	writer := opts.Writer
	if writer == nil {
		writer = document.FS{}
	}
	return &processor{
		loader:   loader,
		writer:   writer,
		resolver: jasyptconf.NewResolver(loader, opts.Env),
		log:      opts.Logger,
		dryRun:   opts.DryRun,
	}
}

// processFile runs one file through resolve, engine build, rewrite and
// write-back. Settings and engine are built fresh for every file.
func (p *processor) processFile(ctx context.Context, t target) FileResult {
	res := FileResult{Path: t.path}
	if t.err != nil {
		res.Err = t.err
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	doc, err := p.loader.Load(t.path)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", t.path, err)
		return res
	}

	// Settings are checked even when the file has no tokens, so a broken
	// password is reported rather than hidden behind a clean result.
	resolved, err := p.resolver.Resolve(t.path)
	if err != nil {
		res.Err = err
		if kerrors.IsBenign(err) {
			p.log.Debugf("%s: skipped, %v", t.path, err)
		}
		return res
	}
	res.Source = resolved.Source
	p.log.Debugf("%s: using %s from %s", t.path, resolved.Config.Algorithm, resolved.Source)

	engine, err := pbe.New(resolved.Config)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", resolved.Source, err)
		return res
	}

	res.TokensFound = len(rewrite.Scan(doc.Text()))
	if res.TokensFound == 0 {
		p.log.Debugf("%s: no ENC() tokens", t.path)
		return res
	}

	out, err := rewrite.Rewrite(doc.Text(), engine)
	if err != nil {
		res.Err = err
		return res
	}
	res.TokensChanged = out.TokensChanged

	if p.dryRun || out.TokensChanged == 0 {
		return res
	}
	if err := p.writer.Write(t.path, []byte(out.Text)); err != nil {
		res.Err = fmt.Errorf("writing %s: %w", t.path, err)
		return res
	}
	p.log.Infof("%s: rewrote %d of %d tokens", t.path, out.TokensChanged, out.TokensFound)

	return res
}
