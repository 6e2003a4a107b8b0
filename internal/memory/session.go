package memory

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// TimerInterval is the solo clock resolution.
const TimerInterval = time.Second

// Notifier receives cues for sound and animation.
// Notify is fire-and-forget: it cannot affect the round.
type Notifier interface {
	Notify(cue Cue, muted bool)
}

// Session owns the current round and every piece of scheduled work tied to
// it: the pending pair resolution and the solo clock.
//
// All mutations are serialised by one mutex, so selections, resolutions and
// clock ticks form a single timeline. Each round gets a new generation and
// scheduled callbacks carry the generation they were armed for, so work left
// over from a discarded round is dropped.
type Session struct {
	mu          sync.Mutex
	round       RoundState
	generation  uint64
	muted       bool
	stopTimer   func()
	stopPending func()

	sched    Scheduler
	notifier Notifier
	rng      *rand.Rand
	logger   *log.Logger
	onChange func(RoundState)
}

// Option configures a Session.
type Option func(*Session)

// WithScheduler replaces the wall-clock scheduler (used by tests).
func WithScheduler(sched Scheduler) Option {
	return func(s *Session) { s.sched = sched }
}

// WithNotifier sets the cue sink.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithRand sets the shuffle source.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithSeed seeds the shuffle source. Zero means time-based.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithOnChange registers a hook called with a snapshot after every change.
// It runs outside the session lock.
func WithOnChange(fn func(RoundState)) Option {
	return func(s *Session) { s.onChange = fn }
}

// NewSession creates a session sitting at the menu.
func NewSession(opts ...Option) *Session {
	s := &Session{
		round:  IdleRound(),
		sched:  WallClock{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartRound deals a new board and starts playing it.
// Any round in progress is discarded along with its scheduled work.
func (s *Session) StartRound(pool []Token, mode Mode, theme string, difficulty Difficulty) RoundState {
	s.mu.Lock()
	snap := s.startLocked(pool, mode, theme, difficulty).Clone()
	muted := s.muted
	s.mu.Unlock()

	s.publish(nil, muted, snap)
	return snap
}

// Restart re-deals the current round with the same distinct contents, mode,
// theme and difficulty. It returns false when no round exists.
func (s *Session) Restart() (RoundState, bool) {
	s.mu.Lock()
	cur := s.round
	if cur.Status == StatusIdle {
		s.mu.Unlock()
		return cur.Clone(), false
	}
	snap := s.startLocked(cur.DistinctContents(), cur.Mode, cur.Theme, cur.Difficulty).Clone()
	muted := s.muted
	s.mu.Unlock()

	s.publish(nil, muted, snap)
	return snap, true
}

// ReturnToMenu discards the current round. No card data survives.
func (s *Session) ReturnToMenu() {
	s.mu.Lock()
	s.cancelLocked()
	s.generation++
	s.round = IdleRound()
	s.round.Generation = s.generation
	snap := s.round.Clone()
	muted := s.muted
	s.mu.Unlock()

	s.logger.Debug("round discarded", "generation", snap.Generation)
	s.publish(nil, muted, snap)
}

// Close releases scheduled work. The session can still start new rounds.
func (s *Session) Close() {
	s.ReturnToMenu()
}

// SelectCard flips the card with the given id.
// It returns false when the selection is rejected; rejected selections
// change nothing and emit nothing.
func (s *Session) SelectCard(id int) bool {
	s.mu.Lock()
	next, res := Select(s.round, id)
	if !res.Accepted {
		s.mu.Unlock()
		return false
	}
	s.round = next
	if p := res.Pending; p != nil {
		gen := s.generation
		s.stopPending = s.sched.AfterFunc(p.Delay, func() { s.resolve(gen) })
		s.logger.Debug("pair pending", "first", p.First, "second", p.Second, "match", p.Match)
	}
	snap := next.Clone()
	muted := s.muted
	s.mu.Unlock()

	s.publish(res.Cues, muted, snap)
	return true
}

// ToggleMute flips the mute flag and returns the new value.
func (s *Session) ToggleMute() bool {
	s.mu.Lock()
	s.muted = !s.muted
	muted := s.muted
	snap := s.round.Clone()
	s.mu.Unlock()

	s.publish(nil, muted, snap)
	return muted
}

// Muted reports whether cues are muted.
func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Round returns a snapshot of the current round.
func (s *Session) Round() RoundState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round.Clone()
}

func (s *Session) startLocked(pool []Token, mode Mode, theme string, difficulty Difficulty) RoundState {
	s.cancelLocked()
	s.generation++

	rs := NewRound(pool, mode, theme, difficulty, s.rng)
	rs.Generation = s.generation
	s.round = rs
	s.syncTimerLocked()

	s.logger.Debug("round started",
		"generation", rs.Generation,
		"mode", rs.Mode,
		"difficulty", rs.Difficulty,
		"theme", rs.Theme,
		"cards", len(rs.Cards),
	)
	return rs
}

// resolve is the deferred continuation of a completed pair.
func (s *Session) resolve(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	next, cues := Resolve(s.round)
	if cues == nil {
		s.mu.Unlock()
		return
	}
	s.round = next
	s.stopPending = nil
	s.syncTimerLocked()
	snap := next.Clone()
	muted := s.muted
	s.mu.Unlock()

	if snap.Status.Terminal() {
		s.logger.Debug("round finished",
			"generation", snap.Generation,
			"status", snap.Status,
			"moves", snap.Moves,
			"seconds", snap.Timer,
		)
	}
	s.publish(cues, muted, snap)
}

// syncTimerLocked arms the solo clock exactly while the round is a solo
// round in play and disarms it otherwise.
func (s *Session) syncTimerLocked() {
	want := s.round.Status == StatusPlaying && s.round.Mode == ModeSingle
	switch {
	case want && s.stopTimer == nil:
		gen := s.generation
		s.stopTimer = s.sched.Every(TimerInterval, func() { s.tick(gen) })
	case !want && s.stopTimer != nil:
		s.stopTimer()
		s.stopTimer = nil
	}
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.round.Status != StatusPlaying || s.round.Mode != ModeSingle {
		s.mu.Unlock()
		return
	}
	s.round.Timer++
	snap := s.round.Clone()
	muted := s.muted
	s.mu.Unlock()

	s.publish(nil, muted, snap)
}

func (s *Session) cancelLocked() {
	if s.stopPending != nil {
		s.stopPending()
		s.stopPending = nil
	}
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

func (s *Session) publish(cues []Cue, muted bool, snap RoundState) {
	for _, c := range cues {
		s.notify(c, muted)
	}
	if s.onChange != nil {
		s.onChange(snap)
	}
}

func (s *Session) notify(c Cue, muted bool) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("notifier failed", "cue", c, "panic", r)
		}
	}()
	s.notifier.Notify(c, muted)
}
