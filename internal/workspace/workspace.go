package workspace

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pseudo/internal/analysis"
	"pseudo/internal/trace"
)

var (
	// ErrSuperseded is returned by Update when a newer version arrived while
	// the analysis ran; the result was not published.
	ErrSuperseded = errors.New("workspace: version superseded")
	// ErrStale is returned for a version older than one already seen.
	ErrStale = errors.New("workspace: stale version")
	// ErrClosed is returned when the document was closed meanwhile.
	ErrClosed = errors.New("workspace: document closed")
)

// PublishFunc receives the result of the latest version of a document.
type PublishFunc func(uri string, res *analysis.Result)

type Options struct {
	Analysis analysis.Options
	Publish  PublishFunc
	// Debounce delays analyses started by Submit; 0 analyzes at once.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Workspace owns the per-URI document state of an editor session.
// Documents never share state, so analyses of different URIs run in
// parallel and never wait on each other.
type Workspace struct {
	opts  Options
	group singleflight.Group

	mu   sync.Mutex
	docs map[string]*document
	gen  uint64 // bumped for every opened document
}

type document struct {
	gen     uint64 // tells a reopened uri from the closed one
	text    string
	latest  int // latest version seen
	done    *analysis.Result
	timer   *time.Timer
	removed bool

	pubMu     sync.Mutex // serializes Publish for this document
	published *analysis.Result
}

func New(opts Options) *Workspace {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Workspace{opts: opts, docs: make(map[string]*document)}
}

// record stores text as the latest version of uri.
func (w *Workspace) record(uri, text string, version int) (*document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc := w.docs[uri]
	if doc == nil {
		w.gen++
		doc = &document{gen: w.gen, latest: version - 1}
		w.docs[uri] = doc
	}
	if version < doc.latest {
		return nil, ErrStale
	}
	doc.text = text
	doc.latest = version
	return doc, nil
}

// Update analyzes one (text, version) pair of uri and publishes the result
// if version is still the latest when the analysis finishes. Concurrent
// calls for the same pair share one analysis.
func (w *Workspace) Update(ctx context.Context, uri, text string, version int) (*analysis.Result, error) {
	doc, err := w.record(uri, text, version)
	if err != nil {
		return nil, err
	}
	return w.analyze(ctx, uri, doc, text, version)
}

// Submit records a new version and analyzes it after the debounce delay.
// Only the last version submitted within the delay is analyzed.
func (w *Workspace) Submit(ctx context.Context, uri, text string, version int) error {
	doc, err := w.record(uri, text, version)
	if err != nil {
		return err
	}
	run := func() {
		if _, err := w.analyze(ctx, uri, doc, text, version); err != nil && !isDrop(err) {
			w.opts.Logger.Warn("analysis failed", "uri", uri, "version", version, "err", err)
		}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if doc.timer != nil {
		doc.timer.Stop()
	}
	if w.opts.Debounce <= 0 {
		go run()
		return nil
	}
	doc.timer = time.AfterFunc(w.opts.Debounce, run)
	return nil
}

func isDrop(err error) bool {
	return errors.Is(err, ErrSuperseded) || errors.Is(err, ErrClosed) || errors.Is(err, context.Canceled)
}

func (w *Workspace) analyze(ctx context.Context, uri string, doc *document, text string, version int) (*analysis.Result, error) {
	key := uri + "#" + strconv.FormatUint(doc.gen, 10) + "@" + strconv.Itoa(version)
	ch := w.group.DoChan(key, func() (any, error) {
		opts := w.opts.Analysis
		opts.Name = uri
		if opts.Tracer == nil {
			opts.Tracer = trace.FromContext(ctx)
		}
		return analysis.Analyze(text, version, opts), nil
	})
	var res *analysis.Result
	select {
	case <-ctx.Done():
		// the shared analysis keeps running for other waiters
		return nil, ctx.Err()
	case r := <-ch:
		res, _ = r.Val.(*analysis.Result)
	}

	doc.pubMu.Lock()
	defer doc.pubMu.Unlock()

	w.mu.Lock()
	if doc.removed {
		w.mu.Unlock()
		return res, ErrClosed
	}
	if doc.done == nil || res.Version >= doc.done.Version {
		doc.done = res
	}
	latest := doc.latest == version
	w.mu.Unlock()

	if !latest {
		w.opts.Logger.Debug("dropping superseded analysis", "uri", uri, "version", version)
		return res, ErrSuperseded
	}
	// waiters that shared one analysis publish it once
	if w.opts.Publish != nil && doc.published != res {
		w.opts.Publish(uri, res)
	}
	doc.published = res
	return res, nil
}

// Snapshot returns the most recently completed analysis of uri. It may be
// older than the latest version; it never waits for a running analysis.
func (w *Workspace) Snapshot(uri string) (*analysis.Result, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc := w.docs[uri]
	if doc == nil || doc.done == nil {
		return nil, false
	}
	return doc.done, true
}

// Text returns the latest text and version recorded for uri.
func (w *Workspace) Text(uri string) (string, int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc := w.docs[uri]
	if doc == nil {
		return "", 0, false
	}
	return doc.text, doc.latest, true
}

// Close forgets uri. Analyses still running for it are discarded.
func (w *Workspace) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc := w.docs[uri]
	if doc == nil {
		return
	}
	if doc.timer != nil {
		doc.timer.Stop()
	}
	doc.removed = true
	delete(w.docs, uri)
}

// URIs lists the open documents.
func (w *Workspace) URIs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.docs))
	for uri := range w.docs {
		out = append(out, uri)
	}
	slices.Sort(out)
	return out
}
