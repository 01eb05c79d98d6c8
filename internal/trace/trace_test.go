package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopePass, true},
		{LevelPhase, ScopeExpr, false},
		{LevelDetail, ScopeExpr, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel(" Detail "); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel: %v %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected an error for an unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
}

func TestRingKeepsNewest(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i, want := range []string{"c", "d", "e"} {
		if snap[i].Name != want {
			t.Errorf("snap[%d] = %q, want %q", i, snap[i].Name, want)
		}
	}
	if snap[0].Seq >= snap[2].Seq {
		t.Errorf("sequence numbers are not increasing: %d %d", snap[0].Seq, snap[2].Seq)
	}
}

func TestSpansNestThroughContext(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), r)

	ctx, run := Start(ctx, ScopeDriver, "run")
	_, expr := Start(ctx, ScopeExpr, "expr")
	expr.WithExtra("width", "8").End("ok")
	_, node := Start(ctx, ScopeNode, "filtered")
	node.End("")
	run.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("got %d events, want 4", len(snap))
	}
	if snap[1].ParentID != run.ID() {
		t.Errorf("expr parent = %d, want %d", snap[1].ParentID, run.ID())
	}
	if snap[2].Kind != KindSpanEnd || snap[2].Extra["width"] != "8" || snap[2].Detail != "ok" {
		t.Errorf("unexpected end event %+v", snap[2])
	}
	if node.ID() != 0 {
		t.Errorf("filtered span got an id")
	}
}

func TestStreamChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	s := Begin(st, ScopePass, "load", 0)
	s.End("3 exprs")
	Point(st, ScopeDriver, "cache", "hit", 0)
	if err := st.Close(); err != nil {
		t.Fatal(err)
	}
	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid chrome trace: %v\n%s", err, buf.String())
	}
	if len(doc.TraceEvents) != 3 {
		t.Fatalf("got %d events", len(doc.TraceEvents))
	}
	if doc.TraceEvents[0]["ph"] != "B" || doc.TraceEvents[1]["ph"] != "E" || doc.TraceEvents[2]["ph"] != "i" {
		t.Errorf("phases: %v", doc.TraceEvents)
	}
	st.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: "late"})
	if strings.Contains(buf.String(), "late") {
		t.Errorf("event written after Close")
	}
}

func TestRingDumpFormats(t *testing.T) {
	r := NewRingTracer(8, LevelPhase)
	r.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: ScopePass, Name: "load", Detail: "ok", Extra: map[string]string{"b": "2", "a": "1"}})

	var text bytes.Buffer
	if err := r.Dump(&text, FormatText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "[pass] • load (ok) {a=1, b=2}") {
		t.Errorf("text dump: %q", text.String())
	}

	var nd bytes.Buffer
	if err := r.Dump(&nd, FormatNDJSON); err != nil {
		t.Fatal(err)
	}
	var ev map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(nd.Bytes()), &ev); err != nil {
		t.Fatalf("ndjson dump: %v", err)
	}
	if ev["name"] != "load" || ev["scope"] != "pass" {
		t.Errorf("ndjson fields: %v", ev)
	}
}

func TestMultiCopiesEvents(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(4, LevelPhase)
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	m.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: "x"})
	if m.Ring() != ring || len(ring.Snapshot()) != 1 || buf.Len() == 0 {
		t.Fatalf("event did not reach both tracers")
	}
}

func TestNewPicksFormatFromPath(t *testing.T) {
	if FormatFor("t.chrome.json") != FormatChrome || FormatFor("t.ndjson") != FormatNDJSON || FormatFor("t.log") != FormatText {
		t.Fatalf("FormatFor mismatch")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff should give a disabled tracer")
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopePass, "p", "", 0)
	if !strings.Contains(buf.String(), "• p") {
		t.Errorf("stream output: %q", buf.String())
	}
}

func TestConcurrentEmit(t *testing.T) {
	r := NewRingTracer(1024, LevelDebug)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				Begin(r, ScopeNode, "n", 0).End("")
			}
		}()
	}
	wg.Wait()
	if got := len(r.Snapshot()); got != 800 {
		t.Fatalf("got %d events, want 800", got)
	}
}

func TestHeartbeatStops(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	h.Stop()
	h.Stop()
	n := len(r.Snapshot())
	if n == 0 {
		t.Fatalf("no heartbeats recorded")
	}
	time.Sleep(5 * time.Millisecond)
	if len(r.Snapshot()) != n {
		t.Errorf("heartbeats continued after Stop")
	}
	if StartHeartbeat(Nop, time.Second) != nil {
		t.Errorf("heartbeat started for a disabled tracer")
	}
}
