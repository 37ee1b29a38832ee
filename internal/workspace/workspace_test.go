package workspace_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pseudo/internal/analysis"
	"pseudo/internal/trace"
	"pseudo/internal/workspace"
)

// gate blocks the first analysis that starts until release is called.
type gate struct {
	armed    atomic.Bool
	entered  chan struct{}
	released chan struct{}
}

func newGate() *gate {
	g := &gate{entered: make(chan struct{}), released: make(chan struct{})}
	g.armed.Store(true)
	return g
}

func (g *gate) Emit(ev *trace.Event) {
	if ev.Kind == trace.KindSpanBegin && ev.Name == "analyze" && g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.released
	}
}

func (g *gate) Flush() error { return nil }

func (g *gate) Close() error { return nil }

func (g *gate) Level() trace.Level { return trace.LevelDebug }

func (g *gate) Enabled() bool { return true }

func (g *gate) release() { close(g.released) }

func (g *gate) wait(t *testing.T) {
	t.Helper()
	waitFor(t, g.entered)
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

type recorder struct {
	mu   sync.Mutex
	seen []int
	ch   chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) publish(_ string, res *analysis.Result) {
	r.mu.Lock()
	r.seen = append(r.seen, res.Version)
	r.mu.Unlock()
	r.ch <- struct{}{}
}

func (r *recorder) versions() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.seen...)
}

func newWorkspace(rec *recorder, tr trace.Tracer) *workspace.Workspace {
	return workspace.New(workspace.Options{
		Analysis: analysis.Options{Tracer: tr},
		Publish:  rec.publish,
	})
}

func TestUpdatePublishesLatest(t *testing.T) {
	rec := newRecorder()
	ws := newWorkspace(rec, nil)
	res, err := ws.Update(context.Background(), "file:///a.pseudo", "print 1", 1)
	if err != nil || res == nil {
		t.Fatalf("update: %v", err)
	}
	if got := rec.versions(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("published = %v", got)
	}
	snap, ok := ws.Snapshot("file:///a.pseudo")
	if !ok || snap != res {
		t.Fatal("snapshot is not the last result")
	}
	if text, version, ok := ws.Text("file:///a.pseudo"); !ok || text != "print 1" || version != 1 {
		t.Fatalf("text = %q v%d %v", text, version, ok)
	}
}

func TestSupersededResultIsDropped(t *testing.T) {
	rec := newRecorder()
	g := newGate()
	ws := newWorkspace(rec, g)
	uri := "file:///a.pseudo"

	errc := make(chan error, 1)
	go func() {
		_, err := ws.Update(context.Background(), uri, "print 1", 1)
		errc <- err
	}()
	g.wait(t)

	res2, err := ws.Update(context.Background(), uri, "print 2", 2)
	if err != nil {
		t.Fatalf("v2: %v", err)
	}
	// completion reads v2 while v1 is still running
	if snap, ok := ws.Snapshot(uri); !ok || snap.Version != 2 {
		t.Fatalf("snapshot = %v", snap)
	}

	g.release()
	if err := <-errc; !errors.Is(err, workspace.ErrSuperseded) {
		t.Fatalf("v1 err = %v, want ErrSuperseded", err)
	}
	if got := rec.versions(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("published = %v, want [2]", got)
	}
	if snap, _ := ws.Snapshot(uri); snap != res2 {
		t.Fatal("older result replaced the snapshot")
	}
}

func TestDocumentsDoNotBlockEachOther(t *testing.T) {
	rec := newRecorder()
	g := newGate()
	ws := newWorkspace(rec, g)

	errc := make(chan error, 1)
	go func() {
		_, err := ws.Update(context.Background(), "file:///slow.pseudo", "print 1", 1)
		errc <- err
	}()
	g.wait(t)

	if _, err := ws.Update(context.Background(), "file:///fast.pseudo", "print 2", 1); err != nil {
		t.Fatalf("fast: %v", err)
	}
	g.release()
	if err := <-errc; err != nil {
		t.Fatalf("slow: %v", err)
	}
	if got := ws.URIs(); len(got) != 2 || got[0] != "file:///fast.pseudo" {
		t.Fatalf("uris = %v", got)
	}
}

func TestSharedAnalysisPublishesOnce(t *testing.T) {
	rec := newRecorder()
	g := newGate()
	ws := newWorkspace(rec, g)
	uri := "file:///a.pseudo"

	results := make(chan *analysis.Result, 2)
	for range 2 {
		go func() {
			res, err := ws.Update(context.Background(), uri, "print 1", 1)
			if err != nil {
				t.Errorf("update: %v", err)
			}
			results <- res
		}()
	}
	g.wait(t)
	// give the second caller time to join the running analysis
	time.Sleep(50 * time.Millisecond)
	g.release()
	a, b := <-results, <-results
	if a == nil || a != b {
		t.Fatal("callers did not share one analysis")
	}
	if got := rec.versions(); len(got) != 1 {
		t.Fatalf("published = %v, want one", got)
	}
}

func TestStaleVersionRejected(t *testing.T) {
	ws := newWorkspace(newRecorder(), nil)
	uri := "file:///a.pseudo"
	if _, err := ws.Update(context.Background(), uri, "print 2", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := ws.Update(context.Background(), uri, "print 1", 1); !errors.Is(err, workspace.ErrStale) {
		t.Fatalf("err = %v, want ErrStale", err)
	}
}

func TestCloseDiscardsRunningAnalysis(t *testing.T) {
	rec := newRecorder()
	g := newGate()
	ws := newWorkspace(rec, g)
	uri := "file:///a.pseudo"

	errc := make(chan error, 1)
	go func() {
		_, err := ws.Update(context.Background(), uri, "print 1", 1)
		errc <- err
	}()
	g.wait(t)
	ws.Close(uri)
	g.release()
	if err := <-errc; !errors.Is(err, workspace.ErrClosed) {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
	if _, ok := ws.Snapshot(uri); ok {
		t.Fatal("closed document still has a snapshot")
	}
	if got := rec.versions(); len(got) != 0 {
		t.Fatalf("published = %v", got)
	}
}

func TestSubmitDebounces(t *testing.T) {
	rec := newRecorder()
	ws := workspace.New(workspace.Options{Publish: rec.publish, Debounce: 50 * time.Millisecond})
	uri := "file:///a.pseudo"
	for v := 1; v <= 3; v++ {
		if err := ws.Submit(context.Background(), uri, "print 1", v); err != nil {
			t.Fatal(err)
		}
	}
	waitFor(t, rec.ch)
	if got := rec.versions(); got[0] != 3 {
		t.Fatalf("published = %v, want 3 first", got)
	}
}

func TestReopenDoesNotJoinClosedAnalysis(t *testing.T) {
	rec := newRecorder()
	g := newGate()
	ws := newWorkspace(rec, g)
	uri := "file:///a.pseudo"

	errc := make(chan error, 1)
	go func() {
		_, err := ws.Update(context.Background(), uri, "print 1", 1)
		errc <- err
	}()
	g.wait(t)
	ws.Close(uri)

	// same uri and version, new text
	reopened := make(chan *analysis.Result, 1)
	go func() {
		res, err := ws.Update(context.Background(), uri, "show 2", 1)
		if err != nil {
			t.Errorf("reopen: %v", err)
		}
		reopened <- res
	}()
	var res *analysis.Result
	select {
	case res = <-reopened:
	case <-time.After(5 * time.Second):
		g.release()
		t.Fatal("reopened document waited on the closed analysis")
	}
	if res == nil || string(res.File.Content) != "show 2" {
		t.Fatalf("reopened result = %v", res)
	}

	g.release()
	if err := <-errc; !errors.Is(err, workspace.ErrClosed) {
		t.Fatalf("closed analysis err = %v, want ErrClosed", err)
	}
	if snap, ok := ws.Snapshot(uri); !ok || snap != res {
		t.Fatal("snapshot is not the reopened result")
	}
	if got := rec.versions(); len(got) != 1 {
		t.Fatalf("published = %v, want one", got)
	}
}
