package quiz

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/xpquest/internal/catalog"
	"github.com/abhisek/xpquest/internal/events"
	"github.com/abhisek/xpquest/internal/loader"
	"github.com/abhisek/xpquest/internal/tiers"
)

// Session is a caller-owned quiz run: the loaded items, a cursor over them,
// one response per item and the XP and tiers derived from those responses.
//
// All commands are synchronous except Load, whose acquisition runs on its
// own goroutine. A mutex guards the state so that resolution and UI reads do
// not race; observers are notified after it is released.
type Session struct {
	mu sync.Mutex

	id        string
	source    catalog.ItemSource
	emitter   events.Emitter
	logger    *slog.Logger
	strictIDs bool

	load      *loader.Controller
	items     []catalog.Item
	index     map[string]int
	cursor    int
	responses map[string]Response
	totalXP   int
	tiers     tiers.Set
}

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	emitter   events.Emitter
	logger    *slog.Logger
	strictIDs bool
	fence     bool
	sessionID string
}

// WithEmitter sends change notifications to e.
func WithEmitter(e events.Emitter) Option {
	return func(c *sessionConfig) { c.emitter = e }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *sessionConfig) { c.logger = l }
}

// WithStrictIDs makes SubmitResponse return a *ConsistencyError for unknown
// item or option ids instead of ignoring them.
func WithStrictIDs() Option {
	return func(c *sessionConfig) { c.strictIDs = true }
}

// WithLoadFencing discards load results superseded by a later Load or Reset.
// Without it, overlapping loads resolve last-writer-wins.
func WithLoadFencing() Option {
	return func(c *sessionConfig) { c.fence = true }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(c *sessionConfig) { c.sessionID = id }
}

// New creates an Idle session reading items from src.
func New(src catalog.ItemSource, opts ...Option) *Session {
	cfg := sessionConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.emitter == nil {
		cfg.emitter = events.Nop{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.sessionID == "" {
		cfg.sessionID = uuid.New().String()
	}

	var loadOpts []loader.Option
	if cfg.fence {
		loadOpts = append(loadOpts, loader.WithFencing())
	}

	return &Session{
		id:        cfg.sessionID,
		source:    src,
		emitter:   cfg.emitter,
		logger:    cfg.logger.With("component", "quiz"),
		strictIDs: cfg.strictIDs,
		load:      loader.New(loadOpts...),
		index:     map[string]int{},
		responses: map[string]Response{},
		tiers:     tiers.Set{},
	}
}

// Load moves the session to Loading and acquires items in the background.
// The returned channel is closed once this call's acquisition has resolved.
//
// On success with at least one item the items are sorted by Order and the
// cursor, responses, XP and tiers are reset together. An empty result fails
// with ErrEmptyCatalog's message; a source error fails with its message.
// Calling Load while another load is outstanding is allowed.
func (s *Session) Load(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	ticket := s.load.Begin()
	id := s.id
	s.mu.Unlock()

	s.logger.Debug("load started", "session_id", id, "ticket", ticket)
	s.emit(ctx, events.QuizLoadStarted, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if s.source == nil {
			s.resolve(ctx, ticket, nil, ErrNoSource)
			return
		}
		items, err := s.source.Items(ctx)
		s.resolve(ctx, ticket, items, err)
	}()
	return done
}

func (s *Session) resolve(ctx context.Context, ticket loader.Ticket, items []catalog.Item, err error) {
	if err == nil && len(items) == 0 {
		err = ErrEmptyCatalog
	}

	var sorted []catalog.Item
	if err == nil {
		sorted = slices.Clone(items)
		slices.SortStableFunc(sorted, func(a, b catalog.Item) int {
			return cmp.Compare(a.Order, b.Order)
		})
	}

	s.mu.Lock()
	var applied bool
	if err != nil {
		applied = s.load.Fail(ticket, err.Error())
	} else if applied = s.load.Succeed(ticket); applied {
		s.items = sorted
		s.index = make(map[string]int, len(sorted))
		for i, it := range sorted {
			s.index[it.ID] = i
		}
		s.clearProgress()
	}
	s.mu.Unlock()

	switch {
	case !applied:
		s.logger.Debug("stale load result discarded", "ticket", ticket)
	case err != nil:
		s.logger.Warn("load failed", "error", err, "ticket", ticket)
		s.emit(ctx, events.QuizLoadFailed, map[string]any{"error": err.Error()})
	default:
		s.logger.Debug("load succeeded", "items", len(sorted), "ticket", ticket)
		s.emit(ctx, events.QuizLoaded, map[string]any{"items": len(sorted)})
	}
}

// SubmitResponse records optionID as the answer to itemID, replacing any
// earlier answer and its XP. Unknown ids are ignored unless the session is
// strict, in which case a *ConsistencyError is returned.
func (s *Session) SubmitResponse(itemID, optionID string) error {
	s.mu.Lock()
	idx, ok := s.index[itemID]
	if !ok {
		s.mu.Unlock()
		return s.inconsistent(itemID, optionID, "unknown item")
	}
	item := s.items[idx]
	opt, ok := item.Option(optionID)
	if !ok {
		s.mu.Unlock()
		return s.inconsistent(itemID, optionID, "unknown option")
	}

	if prior, ok := s.responses[itemID]; ok {
		s.totalXP -= prior.AwardedXP
	}
	awarded := 0
	if opt.IsCorrect {
		awarded = item.XPValue
	}
	s.responses[itemID] = Response{
		ItemID:    itemID,
		OptionID:  optionID,
		IsCorrect: opt.IsCorrect,
		AwardedXP: awarded,
	}
	s.totalXP += awarded
	if s.totalXP < 0 {
		s.totalXP = 0
	}
	s.tiers = tiers.Evaluate(s.totalXP)
	total := s.totalXP
	s.mu.Unlock()

	s.logger.Debug("response recorded", "item_id", itemID, "option_id", optionID, "correct", opt.IsCorrect, "total_xp", total)
	s.emit(context.Background(), events.QuizResponseSubmitted, map[string]any{
		"item_id":    itemID,
		"option_id":  optionID,
		"correct":    opt.IsCorrect,
		"awarded_xp": awarded,
		"total_xp":   total,
	})
	return nil
}

func (s *Session) inconsistent(itemID, optionID, reason string) error {
	if !s.strictIDs {
		s.logger.Debug("ignoring response", "item_id", itemID, "option_id", optionID, "reason", reason)
		return nil
	}
	return &ConsistencyError{ItemID: itemID, OptionID: optionID, Reason: reason}
}

// Next advances the cursor. It returns ErrUnanswered when the current item
// has no response, and complete=true without moving when the cursor is
// already on the last item. With no items loaded it does nothing.
func (s *Session) Next() (complete bool, err error) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return false, nil
	}
	if _, ok := s.responses[s.items[s.cursor].ID]; !ok {
		s.mu.Unlock()
		return false, ErrUnanswered
	}
	if s.cursor == len(s.items)-1 {
		s.mu.Unlock()
		return true, nil
	}
	s.cursor++
	cursor := s.cursor
	s.mu.Unlock()

	s.emit(context.Background(), events.QuizCursorMoved, map[string]any{"cursor": cursor})
	return false, nil
}

// Previous moves the cursor back one item; a no-op at the first item.
func (s *Session) Previous() {
	s.mu.Lock()
	if s.cursor == 0 {
		s.mu.Unlock()
		return
	}
	s.cursor--
	cursor := s.cursor
	s.mu.Unlock()

	s.emit(context.Background(), events.QuizCursorMoved, map[string]any{"cursor": cursor})
}

// Reset discards the loaded items and all progress and returns to Idle. The
// session gets a fresh id.
func (s *Session) Reset() {
	s.mu.Lock()
	s.load.Reset()
	s.items = nil
	s.index = map[string]int{}
	s.clearProgress()
	old := s.id
	s.id = uuid.New().String()
	s.mu.Unlock()

	s.logger.Debug("session reset", "previous_session_id", old)
	s.emit(context.Background(), events.QuizReset, map[string]any{"previous_session_id": old})
}

// clearProgress must be called with mu held.
func (s *Session) clearProgress() {
	s.cursor = 0
	s.responses = map[string]Response{}
	s.totalXP = 0
	s.tiers = tiers.Set{}
}

// ID returns the current session id.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Snapshot returns an immutable copy of the whole session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SessionID: s.id,
		Items:     slices.Clone(s.items),
		Cursor:    s.cursor,
		Responses: maps.Clone(s.responses),
		TotalXP:   s.totalXP,
		Tiers:     slices.Clone(s.tiers),
		Lifecycle: s.load.Status(),
		Error:     s.load.Err(),
	}
}

// CurrentItem returns the item under the cursor.
func (s *Session) CurrentItem() (catalog.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor >= len(s.items) {
		return catalog.Item{}, false
	}
	return s.items[s.cursor], true
}

// Progress returns the cursor position.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progressOf(len(s.items), s.cursor, len(s.responses))
}

// ResponseFor returns the live response for itemID.
func (s *Session) ResponseFor(itemID string) (Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.responses[itemID]
	return r, ok
}

// CumulativeXP returns the total XP over all live responses.
func (s *Session) CumulativeXP() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalXP
}

// TierSet returns the tiers held at the current XP.
func (s *Session) TierSet() tiers.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tiers)
}

// LifecycleStatus returns the load lifecycle state.
func (s *Session) LifecycleStatus() loader.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load.Status()
}

// ErrorMessage returns the last load failure message, if any.
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load.Err()
}

func (s *Session) emit(ctx context.Context, t events.Type, attrs map[string]any) {
	if err := s.emitter.Emit(ctx, events.New(t, s.ID(), attrs)); err != nil {
		s.logger.Warn("event handler failed", "event_type", string(t), "error", err)
	}
}
