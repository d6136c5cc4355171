// Package driver runs the engine over files and directories: source
// discovery, parallel analysis, the on-disk result cache and progress events.
package driver

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bslcheck/internal/config"
	"bslcheck/internal/diag"
	"bslcheck/internal/engine"
	"bslcheck/internal/observ"
	"bslcheck/internal/rules"
	"bslcheck/internal/source"
)

// Options configures a run. Нулевые поля получают значения по умолчанию.
type Options struct {
	Engine   *engine.Engine
	Settings *config.Settings
	// Jobs limits parallel workers; 0 means GOMAXPROCS.
	Jobs int
	// Cache is optional; a hit skips the analysis of an unchanged document.
	Cache    *DiskCache
	Progress ProgressSink
	Logger   *slog.Logger
}

// FileResult is the outcome for one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	// Diagnostics are syntax and rule findings ordered by position.
	Diagnostics []diag.Diagnostic
	// Doc is nil for cache hits and unreadable files.
	Doc    *rules.Document
	Cached bool
	// Failed lists rules that were dropped for this document.
	Failed []string
	Timing *observ.Report
	Err    error
}

// Run is the outcome for a set of files sharing one FileSet.
type Run struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Diagnostics flattens every file's diagnostics.
func (r *Run) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, f := range r.Files {
		out = append(out, f.Diagnostics...)
	}
	return out
}

// IsSource reports whether path is a BSL module or a OneScript file.
func IsSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bsl", ".os":
		return true
	}
	return false
}

// ListSources returns a sorted list of every *.bsl and *.os file under dir.
// Скрытые каталоги (".git" и т.п.) пропускаются.
func ListSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// AnalyzeDir analyzes every source file under dir.
func AnalyzeDir(ctx context.Context, dir string, opts Options) (*Run, error) {
	files, err := ListSources(dir)
	if err != nil {
		return nil, err
	}
	return AnalyzeFiles(ctx, source.NewFileSetWithBase(dir), files, opts)
}

// AnalyzeFiles analyzes paths in parallel. Результаты идут в порядке paths;
// ошибка чтения файла попадает в FileResult, а не прерывает запуск.
func AnalyzeFiles(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options) (*Run, error) {
	if fileSet == nil {
		fileSet = source.NewFileSet()
	}
	eng := opts.Engine
	if eng == nil {
		eng = engine.New(engine.Options{Logger: opts.Logger})
	}
	settings := opts.Settings
	if settings == nil {
		def := config.Default()
		settings = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	run := &Run{FileSet: fileSet, Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return run, nil
	}
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	fingerprint := settings.Fingerprint()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			res, err := analyzeOne(gctx, eng, fileSet, path, settings, fingerprint, opts, logger)
			run.Files[i] = res
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return run, err
	}
	return run, nil
}

func analyzeOne(ctx context.Context, eng *engine.Engine, fileSet *source.FileSet, path string, settings *config.Settings, fingerprint [32]byte, opts Options, logger *slog.Logger) (FileResult, error) {
	start := time.Now()
	res := FileResult{Path: path}

	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	id, err := fileSet.Load(path)
	if err != nil {
		res.Err = err
		// пустой виртуальный файл, чтобы диагностика указывала на путь
		res.FileID = fileSet.AddVirtual(path, nil)
		res.Diagnostics = []diag.Diagnostic{
			diag.NewError(diag.IOLoadFileError, source.Span{File: res.FileID}, "failed to load file: "+err.Error()),
		}
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return res, nil
	}
	res.FileID = id
	file := fileSet.Get(id)

	key := CacheKey(file.Hash, fingerprint, file.Path)
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusWorking})
		var payload DiskPayload
		hit, cerr := opts.Cache.Get(key, &payload)
		if cerr != nil {
			logger.Debug("cache read failed", "path", path, "err", cerr)
		}
		if hit {
			res.Cached = true
			res.Diagnostics = fromDiskPayload(&payload, id)
			emit(opts.Progress, Event{File: path, Stage: StageCache, Status: StatusDone, Elapsed: time.Since(start), Diagnostics: len(res.Diagnostics)})
			return res, nil
		}
	}

	emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusWorking})
	out, err := eng.Analyze(ctx, file, settings)
	if err != nil {
		res.Err = err
		emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return res, err
	}
	res.Doc = out.Doc
	res.Diagnostics = out.All()
	res.Timing = out.Timing
	for _, o := range out.Failed() {
		res.Failed = append(res.Failed, o.Code)
	}

	// Документ с упавшим правилом не кэшируем: следующий запуск повторит попытку.
	if opts.Cache != nil && len(res.Failed) == 0 {
		if perr := opts.Cache.Put(key, toDiskPayload(path, res.Diagnostics)); perr != nil {
			logger.Warn("cache write failed", "path", path, "err", perr)
		}
	}
	emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusDone, Elapsed: time.Since(start), Diagnostics: len(res.Diagnostics)})
	return res, nil
}

// HasErrors reports whether any diagnostic of the run is an error.
func (r *Run) HasErrors() bool {
	for _, f := range r.Files {
		if f.Err != nil && !errors.Is(f.Err, context.Canceled) {
			return true
		}
		for _, d := range f.Diagnostics {
			if d.Severity == diag.SevError {
				return true
			}
		}
	}
	return false
}
