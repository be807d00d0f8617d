package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"airtight/internal/config"
	"airtight/internal/diag"
	"airtight/internal/estree"
	"airtight/internal/linter"
	"airtight/internal/observ"
	"airtight/internal/source"
	"airtight/internal/trace"
)

// Options configures Lint.
type Options struct {
	// Jobs bounds the number of files linted at once; 0 means GOMAXPROCS.
	Jobs int
	// ASTSuffix is appended to a source path to find its ESTree document.
	ASTSuffix string
	// Cwd is the working directory rules see and the base for displayed paths.
	Cwd string
	// MaxDiagnostics caps the merged result; 0 means no limit.
	MaxDiagnostics int
	ConfigDigest   [32]byte
	Cache          *DiskCache
	Progress       ProgressSink
}

// FileResult holds the diagnostics of one file.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Cached      bool
	Diagnostics []diag.Diagnostic
}

// Result is the outcome of a run. Bag holds every diagnostic sorted by
// file, start, end, severity and code.
type Result struct {
	FileSet   *source.FileSet
	Files     []FileResult
	Bag       *diag.Bag
	Dropped   int
	CacheHits int
	Timer     *observ.Timer
}

// HasErrors reports whether any error-severity diagnostic remains.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// Lint lints paths with l. Sources are loaded up front, then files are
// decoded and linted in parallel. A file that cannot be read or whose tree
// is missing or malformed yields a driver diagnostic instead of an error;
// Lint only fails on cancellation or a linter failure.
func Lint(ctx context.Context, paths []string, l *linter.Linter, opts Options) (*Result, error) {
	if l == nil {
		return nil, errors.New("lint: nil linter")
	}
	suffix := opts.ASTSuffix
	if suffix == "" {
		suffix = config.DefaultASTSuffix
	}

	timer := observ.NewTimer()
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "lint")
	defer span.End("")

	fileSet := source.NewFileSetWithBase(opts.Cwd)
	result := &Result{
		FileSet: fileSet,
		Files:   make([]FileResult, len(paths)),
		Timer:   timer,
	}

	// FileSet не потокобезопасен: все файлы загружаются до запуска воркеров.
	loadIdx := timer.Begin("load")
	fileIDs := make([]source.FileID, len(paths))
	loadErrors := make([]error, len(paths))
	for i, path := range paths {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			id = fileSet.AddVirtual(path, nil)
		}
		fileIDs[i] = id
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}
	timer.End(loadIdx, fmt.Sprintf("%d files", len(paths)))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var hits atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			fr := FileResult{Path: path, FileID: fileIDs[i]}
			if loadErr := loadErrors[i]; loadErr != nil {
				fr.Diagnostics = []diag.Diagnostic{
					driverError(fileIDs[i], "ioError", "failed to read file: "+loadErr.Error()),
				}
				result.Files[i] = fr
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}

			diags, cached, err := lintFile(gctx, l, fileSet, fileIDs[i], path, path+suffix, opts, timer)
			if err != nil {
				emit(opts.Progress, Event{File: path, Stage: StageLint, Status: StatusError, Err: err})
				return fmt.Errorf("%s: %w", path, err)
			}
			fr.Diagnostics = diags
			fr.Cached = cached
			// Индекс i уникален для горутины, мьютекс не нужен.
			result.Files[i] = fr

			status := StatusDone
			if cached {
				hits.Add(1)
				status = StatusCached
			}
			emit(opts.Progress, Event{File: path, Stage: StageLint, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	result.CacheHits = int(hits.Load())

	mergeIdx := timer.Begin("merge")
	all := diag.NewBag(0)
	for _, fr := range result.Files {
		for _, d := range fr.Diagnostics {
			all.Add(d)
		}
	}
	all.Sort()
	result.Bag = diag.NewBag(opts.MaxDiagnostics)
	for _, d := range all.Items() {
		if !result.Bag.Add(d) {
			result.Dropped++
		}
	}
	timer.End(mergeIdx, "")

	span.WithExtra("files", fmt.Sprint(len(paths))).WithExtra("cached", fmt.Sprint(result.CacheHits))
	return result, nil
}

func lintFile(ctx context.Context, l *linter.Linter, fs *source.FileSet, id source.FileID, path, treePath string, opts Options, timer *observ.Timer) ([]diag.Diagnostic, bool, error) {
	file := fs.Get(id)
	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+file.Path)
	defer span.End("")

	emit(opts.Progress, Event{File: path, Stage: StageDecode, Status: StatusWorking})
	data, err := os.ReadFile(treePath) // #nosec G304 -- derived from a discovered source path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []diag.Diagnostic{
				driverError(id, "missingTree", "no syntax tree found at "+treePath),
			}, false, nil
		}
		return []diag.Diagnostic{
			driverError(id, "ioError", "failed to read syntax tree: "+err.Error()),
		}, false, nil
	}

	var key Digest
	if opts.Cache != nil {
		key = CacheKey(file, data, opts.Cwd, opts.ConfigDigest, l.Entries())
		var payload DiskPayload
		ok, getErr := opts.Cache.Get(key, &payload)
		if getErr != nil {
			// битый кеш считаем промахом
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-get", getErr.Error(), span.ID())
		}
		if ok && getErr == nil {
			span.WithExtra("cache", "hit")
			return fromDiskPayload(&payload, id), true, nil
		}
	}

	start := time.Now()
	tree, err := estree.Decode(fs, id, data)
	timer.Add("decode", time.Since(start))
	if err != nil {
		return []diag.Diagnostic{
			driverError(id, "invalidTree", fmt.Sprintf("invalid syntax tree %s: %v", treePath, err)),
		}, false, nil
	}

	emit(opts.Progress, Event{File: path, Stage: StageLint, Status: StatusWorking})
	start = time.Now()
	diags, err := l.Lint(ctx, fs, tree)
	timer.Add("lint", time.Since(start))
	if err != nil {
		return nil, false, err
	}

	if opts.Cache != nil {
		if putErr := opts.Cache.Put(key, toDiskPayload(fs, file.Path, diags)); putErr != nil {
			trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-put", putErr.Error(), span.ID())
		}
	}
	return diags, false, nil
}

func driverError(id source.FileID, messageID, msg string) diag.Diagnostic {
	return diag.NewError("", messageID, source.Span{File: id}, msg)
}
