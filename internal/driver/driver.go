package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"pseudo/internal/analysis"
	"pseudo/internal/diag"
	"pseudo/internal/observ"
	"pseudo/internal/source"
	"pseudo/internal/trace"
)

// Options configure a batch run.
type Options struct {
	Analysis analysis.Options
	// MaxDiagnostics caps diagnostics kept per file; 0 means unlimited.
	MaxDiagnostics int
	// Jobs bounds parallel analyses; 0 means GOMAXPROCS.
	Jobs     int
	Cache    *DiskCache
	Progress ProgressSink
	// Timings records per-phase durations of every analyzed file.
	Timings bool
	BaseDir string
}

// FileResult is the outcome for one input path.
type FileResult struct {
	Path   string
	FileID source.FileID
	// Result is nil for cache hits and unreadable files.
	Result *analysis.Result
	// Diagnostics refer to the report's FileSet.
	Diagnostics []diag.Diagnostic
	Truncated   bool
	Cached      bool
	Err         error
	Timing      *observ.Report
}

// Report collects the results of a batch run in input order.
type Report struct {
	FileSet *source.FileSet
	Files   []FileResult
}

// Bag merges the diagnostics of all files, sorted by file and position.
func (r *Report) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for _, f := range r.Files {
		for _, d := range f.Diagnostics {
			bag.Add(d)
		}
	}
	bag.Sort()
	return bag
}

// HasErrors reports whether any file failed to load or has an Error diagnostic.
func (r *Report) HasErrors() bool {
	for _, f := range r.Files {
		if f.Err != nil || diag.HasErrors(f.Diagnostics) {
			return true
		}
	}
	return false
}

// Timings sums the per-file phase timings.
func (r *Report) Timings() observ.Report {
	reports := make([]observ.Report, 0, len(r.Files))
	for _, f := range r.Files {
		if f.Timing != nil {
			reports = append(reports, *f.Timing)
		}
	}
	return observ.Merge(reports...)
}

// Diagnose analyzes paths in parallel. Files are loaded up front into one
// FileSet; a file that cannot be read gets FileResult.Err and does not stop
// the others. The returned error is only the context's.
func Diagnose(ctx context.Context, paths []string, opts Options) (*Report, error) {
	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	report := &Report{FileSet: fileSet, Files: make([]FileResult, len(paths))}

	tracer := opts.Analysis.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	run := trace.Begin(tracer, trace.ScopeDriver, "diagnose", 0).
		WithExtra("files", itoa(len(paths)))
	defer run.End("")

	for i, path := range paths {
		report.Files[i].Path = path
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
		id, err := fileSet.Load(path)
		if err != nil {
			report.Files[i].Err = err
			continue
		}
		report.Files[i].FileID = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	var settings Digest
	if opts.Cache != nil {
		settings = SettingsDigest(opts.Analysis.Registry, opts.Analysis.MaxFindings)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(jobs, len(paths)), 1))
	for i := range report.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			fr := &report.Files[i]
			if fr.Err != nil {
				emit(opts.Progress, Event{File: fr.Path, Stage: StageRead, Status: StatusError, Err: fr.Err})
				return nil
			}
			diagnoseFile(fr, fileSet.Get(fr.FileID), settings, tracer, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	emit(opts.Progress, Event{Stage: StageAnalyze, Status: StatusDone})
	return report, nil
}

func diagnoseFile(fr *FileResult, file *source.File, settings Digest, tracer trace.Tracer, opts Options) {
	started := time.Now()
	var key Digest
	if opts.Cache != nil {
		emit(opts.Progress, Event{File: fr.Path, Stage: StageCache, Status: StatusWorking})
		key = CacheKey(file.Content, settings)
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			emit(opts.Progress, Event{File: fr.Path, Stage: StageCache, Status: StatusError, Err: err})
		}
		if hit {
			fr.Diagnostics = limit(fromPayload(&payload, file), opts.MaxDiagnostics)
			fr.Truncated = payload.Truncated
			fr.Cached = true
			emit(opts.Progress, Event{File: fr.Path, Stage: StageCache, Status: StatusDone, Cached: true, Elapsed: time.Since(started)})
			return
		}
	}

	emit(opts.Progress, Event{File: fr.Path, Stage: StageAnalyze, Status: StatusWorking})
	aopts := opts.Analysis
	aopts.Name = file.Path
	aopts.Tracer = tracer
	var rec *observ.Recorder
	if opts.Timings {
		rec = observ.NewRecorder(tracer)
		aopts.Tracer = rec
	}
	res := analysis.Analyze(string(file.Content), 0, aopts)
	fr.Result = res
	fr.Truncated = res.Truncated
	fr.Diagnostics = limit(remap(res.Diagnostics, file.ID), opts.MaxDiagnostics)
	if rec != nil {
		r := rec.Report()
		fr.Timing = &r
	}

	if opts.Cache != nil {
		hash := Digest(file.Hash)
		if err := opts.Cache.Put(key, toPayload(file.Path, hash, res.Diagnostics, res.Truncated)); err != nil {
			emit(opts.Progress, Event{File: fr.Path, Stage: StageCache, Status: StatusError, Err: err})
		}
	}
	status := StatusDone
	if diag.HasErrors(fr.Diagnostics) {
		status = StatusError
	}
	emit(opts.Progress, Event{File: fr.Path, Stage: StageAnalyze, Status: status, Elapsed: time.Since(started)})
}

// remap moves diagnostics of a standalone analysis onto file id. Offsets
// are unchanged: the FileSet and the analysis normalize text the same way.
func remap(diags []diag.Diagnostic, id source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(diags))
	for i, d := range diags {
		d.Span.File = id
		if len(d.Notes) > 0 {
			notes := make([]diag.Note, len(d.Notes))
			for j, n := range d.Notes {
				n.Span.File = id
				notes[j] = n
			}
			d.Notes = notes
		}
		out[i] = d
	}
	return out
}

func limit(diags []diag.Diagnostic, n int) []diag.Diagnostic {
	if n > 0 && len(diags) > n {
		return diags[:n]
	}
	return diags
}
