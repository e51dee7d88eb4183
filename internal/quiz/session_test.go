package quiz

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/xpquest/internal/catalog"
	"github.com/abhisek/xpquest/internal/events"
	"github.com/abhisek/xpquest/internal/loader"
	"github.com/abhisek/xpquest/internal/tiers"
)

func item(id string, order, xp int) catalog.Item {
	return catalog.Item{
		ID:      id,
		Order:   order,
		Prompt:  "prompt " + id,
		XPValue: xp,
		Options: []catalog.Option{
			{ID: "a", Label: "right", IsCorrect: true},
			{ID: "b", Label: "wrong"},
		},
	}
}

func staticSource(items ...catalog.Item) catalog.ItemSource {
	return catalog.NewStatic(catalog.Catalog{Items: items})
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("load did not resolve")
	}
}

func loadedSession(t *testing.T, items ...catalog.Item) *Session {
	t.Helper()
	s := New(staticSource(items...))
	waitDone(t, s.Load(context.Background()))
	if s.LifecycleStatus() != loader.Succeeded {
		t.Fatalf("load status = %s (%s)", s.LifecycleStatus(), s.ErrorMessage())
	}
	return s
}

func TestNewSessionIsIdle(t *testing.T) {
	s := New(staticSource())
	if s.LifecycleStatus() != loader.Idle {
		t.Errorf("status = %s, want idle", s.LifecycleStatus())
	}
	if s.CumulativeXP() != 0 || len(s.TierSet()) != 0 {
		t.Errorf("xp = %d tiers = %v", s.CumulativeXP(), s.TierSet())
	}
	if _, ok := s.CurrentItem(); ok {
		t.Error("expected no current item before load")
	}
	if s.ID() == "" {
		t.Error("expected generated session id")
	}
}

func TestScenarioA(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 50))

	if err := s.SubmitResponse("q1", "a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if s.CumulativeXP() != 50 {
		t.Errorf("xp = %d, want 50", s.CumulativeXP())
	}
	if len(s.TierSet()) != 0 {
		t.Errorf("tiers = %v, want none", s.TierSet())
	}

	if err := s.SubmitResponse("q1", "b"); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if s.CumulativeXP() != 0 {
		t.Errorf("xp after wrong re-answer = %d, want 0", s.CumulativeXP())
	}
	r, ok := s.ResponseFor("q1")
	if !ok || r.OptionID != "b" || r.IsCorrect || r.AwardedXP != 0 {
		t.Errorf("response = %+v, %v", r, ok)
	}
}

func TestReanswerIsIdempotent(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 120), item("q2", 2, 30))

	for i := 0; i < 5; i++ {
		s.SubmitResponse("q1", "a")
	}
	s.SubmitResponse("q2", "a")
	if s.CumulativeXP() != 150 {
		t.Errorf("xp = %d, want 150 (no double counting)", s.CumulativeXP())
	}
	if !s.TierSet().Equal(tiers.Set{tiers.Bronze}) {
		t.Errorf("tiers = %v, want bronze", s.TierSet())
	}

	s.SubmitResponse("q1", "b")
	if s.CumulativeXP() != 30 {
		t.Errorf("xp = %d, want 30", s.CumulativeXP())
	}
	if len(s.TierSet()) != 0 {
		t.Errorf("tiers = %v, want none", s.TierSet())
	}
}

func TestTotalXPMatchesLedger(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 100), item("q2", 2, 200), item("q3", 3, 150))
	seq := []struct{ item, opt string }{
		{"q1", "a"}, {"q2", "a"}, {"q1", "b"}, {"q3", "a"}, {"q2", "b"}, {"q2", "a"}, {"q3", "b"},
	}

	for _, step := range seq {
		s.SubmitResponse(step.item, step.opt)
		st := s.Snapshot()
		sum := 0
		for _, r := range st.Responses {
			sum += r.AwardedXP
		}
		if st.TotalXP != sum {
			t.Fatalf("after %v: total %d != ledger sum %d", step, st.TotalXP, sum)
		}
		if st.TotalXP < 0 {
			t.Fatalf("after %v: negative total %d", step, st.TotalXP)
		}
		if !st.Tiers.Equal(tiers.Evaluate(st.TotalXP)) {
			t.Fatalf("after %v: tiers %v not derived from %d", step, st.Tiers, st.TotalXP)
		}
	}
}

func TestTiersStackAtHighXP(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 250), item("q2", 2, 200))
	s.SubmitResponse("q1", "a")
	s.SubmitResponse("q2", "a")

	want := tiers.Set{tiers.Platinum, tiers.Gold, tiers.Silver}
	if !s.TierSet().Equal(want) {
		t.Errorf("tiers at %d = %v, want %v", s.CumulativeXP(), s.TierSet(), want)
	}
}

func TestSubmitResponse_UnknownIDsIgnored(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 50))
	s.SubmitResponse("q1", "a")

	if err := s.SubmitResponse("nope", "a"); err != nil {
		t.Errorf("unknown item should be ignored, got %v", err)
	}
	if err := s.SubmitResponse("q1", "zzz"); err != nil {
		t.Errorf("unknown option should be ignored, got %v", err)
	}
	if s.CumulativeXP() != 50 {
		t.Errorf("xp = %d, want 50 (ignored submits must not touch the ledger)", s.CumulativeXP())
	}
	if r, _ := s.ResponseFor("q1"); r.OptionID != "a" {
		t.Errorf("response replaced by unknown option: %+v", r)
	}
}

func TestSubmitResponse_StrictIDs(t *testing.T) {
	s := New(staticSource(item("q1", 1, 50)), WithStrictIDs())
	waitDone(t, s.Load(context.Background()))

	err := s.SubmitResponse("nope", "a")
	var cerr *ConsistencyError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want *ConsistencyError", err)
	}
	if cerr.ItemID != "nope" || cerr.Reason != "unknown item" {
		t.Errorf("err = %+v", cerr)
	}

	err = s.SubmitResponse("q1", "zzz")
	if !errors.As(err, &cerr) || cerr.Reason != "unknown option" {
		t.Errorf("err = %v, want unknown option", err)
	}
}

func TestSubmitBeforeLoadIsNoop(t *testing.T) {
	s := New(staticSource(item("q1", 1, 50)))
	s.SubmitResponse("q1", "a")
	if s.CumulativeXP() != 0 {
		t.Errorf("xp = %d, want 0", s.CumulativeXP())
	}
}

func TestNext_RequiresAnswer(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 10), item("q2", 2, 10))

	complete, err := s.Next()
	if !errors.Is(err, ErrUnanswered) || complete {
		t.Fatalf("Next on unanswered = (%v, %v), want ErrUnanswered", complete, err)
	}
	if s.Progress().Current != 1 {
		t.Errorf("cursor moved on rejected Next")
	}

	s.SubmitResponse("q1", "b")
	if complete, err := s.Next(); err != nil || complete {
		t.Fatalf("Next = (%v, %v)", complete, err)
	}
	cur, _ := s.CurrentItem()
	if cur.ID != "q2" {
		t.Errorf("current = %q, want q2", cur.ID)
	}
}

func TestNext_AtLastReportsComplete(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 10), item("q2", 2, 10))
	s.SubmitResponse("q1", "a")
	s.Next()
	s.SubmitResponse("q2", "a")

	complete, err := s.Next()
	if err != nil || !complete {
		t.Fatalf("Next at last = (%v, %v), want complete", complete, err)
	}
	p := s.Progress()
	if p.Current != 2 || p.Total != 2 || p.Answered != 2 {
		t.Errorf("progress = %+v, cursor should stay on last item", p)
	}
}

func TestNext_NoItems(t *testing.T) {
	s := New(staticSource())
	if complete, err := s.Next(); complete || err != nil {
		t.Errorf("Next with no items = (%v, %v)", complete, err)
	}
}

func TestPrevious_Clamped(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 10), item("q2", 2, 10))
	s.Previous()
	if s.Progress().Current != 1 {
		t.Errorf("Previous at first moved the cursor")
	}

	s.SubmitResponse("q1", "a")
	s.Next()
	s.Previous()
	if cur, _ := s.CurrentItem(); cur.ID != "q1" {
		t.Errorf("current = %q, want q1", cur.ID)
	}
}

func TestLoad_SortsByOrder(t *testing.T) {
	s := loadedSession(t, item("third", 30, 1), item("first", 10, 1), item("second", 20, 1))
	st := s.Snapshot()
	got := []string{st.Items[0].ID, st.Items[1].ID, st.Items[2].ID}
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestLoad_EmptyCatalogFails(t *testing.T) {
	s := New(staticSource())
	waitDone(t, s.Load(context.Background()))

	if s.LifecycleStatus() != loader.Failed {
		t.Errorf("status = %s, want failed", s.LifecycleStatus())
	}
	if s.ErrorMessage() != "no items available" {
		t.Errorf("error = %q", s.ErrorMessage())
	}
}

func TestLoad_SourceErrorFails(t *testing.T) {
	src := catalog.ItemSourceFunc(func(context.Context) ([]catalog.Item, error) {
		return nil, errors.New("disk on fire")
	})
	s := New(src)
	waitDone(t, s.Load(context.Background()))

	if s.LifecycleStatus() != loader.Failed || s.ErrorMessage() != "disk on fire" {
		t.Errorf("status = %s error = %q", s.LifecycleStatus(), s.ErrorMessage())
	}
}

func TestLoad_NilSource(t *testing.T) {
	s := New(nil)
	waitDone(t, s.Load(context.Background()))
	if s.ErrorMessage() != ErrNoSource.Error() {
		t.Errorf("error = %q", s.ErrorMessage())
	}
}

func TestLoad_SuccessResetsProgress(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 150), item("q2", 2, 10))
	s.SubmitResponse("q1", "a")
	s.Next()

	waitDone(t, s.Load(context.Background()))
	st := s.Snapshot()
	if st.Cursor != 0 || len(st.Responses) != 0 || st.TotalXP != 0 || len(st.Tiers) != 0 {
		t.Errorf("state after reload = %+v", st)
	}
}

func TestLoad_RetryAfterFailureClearsError(t *testing.T) {
	var mu sync.Mutex
	fail := true
	src := catalog.ItemSourceFunc(func(context.Context) ([]catalog.Item, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, nil
		}
		return []catalog.Item{item("q1", 1, 10)}, nil
	})
	s := New(src)
	waitDone(t, s.Load(context.Background()))
	if s.LifecycleStatus() != loader.Failed {
		t.Fatalf("status = %s", s.LifecycleStatus())
	}

	mu.Lock()
	fail = false
	mu.Unlock()
	waitDone(t, s.Load(context.Background()))
	if s.LifecycleStatus() != loader.Succeeded || s.ErrorMessage() != "" {
		t.Errorf("status = %s error = %q", s.LifecycleStatus(), s.ErrorMessage())
	}
}

type loadKey struct{}

// gatedSource blocks each call until the gate named by the context value is
// released, then returns that gate's items.
type gatedSource struct {
	gates map[string]chan struct{}
	items map[string][]catalog.Item
}

func (g *gatedSource) Items(ctx context.Context) ([]catalog.Item, error) {
	name := ctx.Value(loadKey{}).(string)
	<-g.gates[name]
	return g.items[name], nil
}

func newGatedSource() *gatedSource {
	return &gatedSource{
		gates: map[string]chan struct{}{"first": make(chan struct{}), "second": make(chan struct{})},
		items: map[string][]catalog.Item{
			"first":  {item("old", 1, 10)},
			"second": {item("new", 1, 10)},
		},
	}
}

func TestLoad_UnfencedLastResolvedWins(t *testing.T) {
	src := newGatedSource()
	s := New(src)
	bg := context.Background()

	first := s.Load(context.WithValue(bg, loadKey{}, "first"))
	second := s.Load(context.WithValue(bg, loadKey{}, "second"))
	if s.LifecycleStatus() != loader.Loading {
		t.Fatalf("status = %s, want loading", s.LifecycleStatus())
	}

	close(src.gates["second"])
	waitDone(t, second)
	close(src.gates["first"])
	waitDone(t, first)

	cur, _ := s.CurrentItem()
	if cur.ID != "old" {
		t.Errorf("current = %q, want old (the later resolution overwrites)", cur.ID)
	}
}

func TestLoad_FencedKeepsLatestCall(t *testing.T) {
	src := newGatedSource()
	s := New(src, WithLoadFencing())
	bg := context.Background()

	first := s.Load(context.WithValue(bg, loadKey{}, "first"))
	second := s.Load(context.WithValue(bg, loadKey{}, "second"))

	close(src.gates["second"])
	waitDone(t, second)
	close(src.gates["first"])
	waitDone(t, first)

	cur, _ := s.CurrentItem()
	if cur.ID != "new" {
		t.Errorf("current = %q, want new (stale result must be discarded)", cur.ID)
	}
}

func TestReset(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 300), item("q2", 2, 10))
	oldID := s.ID()
	s.SubmitResponse("q1", "a")
	s.Next()

	s.Reset()
	st := s.Snapshot()
	if st.Lifecycle != loader.Idle {
		t.Errorf("lifecycle = %s, want idle", st.Lifecycle)
	}
	if len(st.Responses) != 0 || st.TotalXP != 0 || len(st.Tiers) != 0 || st.Cursor != 0 {
		t.Errorf("state after reset = %+v", st)
	}
	if len(st.Items) != 0 {
		t.Errorf("items kept after reset: %d", len(st.Items))
	}
	if st.SessionID == oldID {
		t.Error("expected a fresh session id after reset")
	}
}

func TestResetFromFailed(t *testing.T) {
	s := New(staticSource())
	waitDone(t, s.Load(context.Background()))
	s.Reset()
	if s.LifecycleStatus() != loader.Idle || s.ErrorMessage() != "" {
		t.Errorf("status = %s error = %q", s.LifecycleStatus(), s.ErrorMessage())
	}
}

func TestReset_DiscardsInFlightLoad(t *testing.T) {
	for _, fenced := range []bool{false, true} {
		src := newGatedSource()
		var opts []Option
		if fenced {
			opts = append(opts, WithLoadFencing())
		}
		s := New(src, opts...)

		done := s.Load(context.WithValue(context.Background(), loadKey{}, "first"))
		s.Reset()
		close(src.gates["first"])
		waitDone(t, done)

		st := s.Snapshot()
		if st.Lifecycle != loader.Idle {
			t.Errorf("fenced=%v: lifecycle = %s, want idle", fenced, st.Lifecycle)
		}
		if len(st.Items) != 0 {
			t.Errorf("fenced=%v: late load restored %d items", fenced, len(st.Items))
		}
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := loadedSession(t, item("q1", 1, 50))
	s.SubmitResponse("q1", "a")

	st := s.Snapshot()
	delete(st.Responses, "q1")
	st.Items[0].XPValue = 9999

	if _, ok := s.ResponseFor("q1"); !ok {
		t.Error("deleting from a snapshot changed the session")
	}
	if cur, _ := s.CurrentItem(); cur.XPValue != 50 {
		t.Error("editing a snapshot item changed the session")
	}
}

type eventLog struct {
	mu    sync.Mutex
	types []events.Type
}

func (l *eventLog) HandleEvent(_ context.Context, e *events.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.types = append(l.types, e.Type)
	return nil
}

func TestEventsEmitted(t *testing.T) {
	bus := events.NewBus(nil)
	log := &eventLog{}
	bus.Subscribe(log)

	s := New(staticSource(item("q1", 1, 10), item("q2", 2, 10)), WithEmitter(bus))
	waitDone(t, s.Load(context.Background()))
	s.SubmitResponse("q1", "a")
	s.Next()
	s.Previous()
	s.Reset()

	want := []events.Type{
		events.QuizLoadStarted,
		events.QuizLoaded,
		events.QuizResponseSubmitted,
		events.QuizCursorMoved,
		events.QuizCursorMoved,
		events.QuizReset,
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(log.types) != len(want) {
		t.Fatalf("events = %v, want %v", log.types, want)
	}
	for i := range want {
		if log.types[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, log.types[i], want[i])
		}
	}
}

func TestHandlerMayReadSession(t *testing.T) {
	bus := events.NewBus(nil)
	s := New(staticSource(item("q1", 1, 10)), WithEmitter(bus))

	var seen int
	bus.Subscribe(events.HandlerFunc(func(_ context.Context, e *events.Event) error {
		if e.Type == events.QuizResponseSubmitted {
			seen = s.CumulativeXP()
		}
		return nil
	}))
	waitDone(t, s.Load(context.Background()))
	s.SubmitResponse("q1", "a")

	if seen != 10 {
		t.Errorf("handler saw xp %d, want 10", seen)
	}
}

type failingEmitter struct{}

func (failingEmitter) Emit(context.Context, *events.Event) error {
	return errors.New("subscriber down")
}

func TestEmitFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(staticSource(item("q1", 1, 50)), WithEmitter(failingEmitter{}), WithLogger(logger))
	waitDone(t, s.Load(context.Background()))

	out := buf.String()
	if !strings.Contains(out, `"msg":"event handler failed"`) || !strings.Contains(out, "subscriber down") {
		t.Errorf("expected a warning for the failed handler, got:\n%s", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) {
		t.Errorf("expected warn level, got:\n%s", out)
	}
}
