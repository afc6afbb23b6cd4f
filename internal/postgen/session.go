package postgen

import (
	"context"
	"fmt"
	"sync"

	pkgerrors "github.com/lesmnif/echoes/internal/pkg/errors"
	"github.com/lesmnif/echoes/internal/pkg/logger"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseStreaming Phase = "streaming"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// Chunk is one item of the upstream channel: a growing partial, the terminal
// value, or a transport error. Exactly one field is set.
type Chunk struct {
	Partial map[string]any
	Done    map[string]any
	Err     error
}

// Snapshot is what subscribers observe after every transition.
type Snapshot struct {
	Partial map[string]any
	Result  *GenerationResult
	Phase   Phase
	Err     error
}

// Session is the per-request stream reducer. A single goroutine (Run) owns
// all mutation; everyone else reads snapshots. A new generation request gets
// a new Session, never a reused one.
type Session struct {
	mu      sync.RWMutex
	latest  map[string]any
	result  *GenerationResult
	phase   Phase
	err     error
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
	cancel  context.CancelFunc
	log     *logger.Logger
}

func NewSession(log *logger.Logger) *Session {
	return &Session{
		phase: PhaseIdle,
		subs:  make(map[int]chan Snapshot),
		log:   log.With("component", "StreamSession"),
	}
}

// BindCancel attaches the cancel func of the provider call's context so that
// Cancel can abort the outstanding request.
func (s *Session) BindCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
}

// Run consumes the chunk channel until a terminal chunk or channel close.
// It must be the only goroutine mutating the session.
func (s *Session) Run(chunks <-chan Chunk) {
	for ch := range chunks {
		switch {
		case ch.Err != nil:
			s.fail(fmt.Errorf("%w: %v", pkgerrors.ErrStreamFailed, ch.Err))
			return
		case ch.Done != nil:
			s.finish(ch.Done)
			return
		case ch.Partial != nil:
			s.reduce(ch.Partial)
		}
	}
	// Channel closed without an explicit terminal marker. Treat it as end of
	// stream and decide off the accumulated value.
	s.finish(nil)
}

func (s *Session) reduce(partial map[string]any) {
	if err := ValidatePartial(partial); err != nil {
		// A malformed intermediate snapshot is dropped, not fatal: the next
		// growing prefix replaces it entirely.
		s.log.Debug("dropping malformed partial", "error", err)
		return
	}
	s.mu.Lock()
	s.phase = PhaseStreaming
	s.latest = MergePartial(s.latest, partial)
	snap := s.snapshotLocked()
	s.publishLocked(snap)
	s.mu.Unlock()
}

func (s *Session) finish(done map[string]any) {
	s.mu.Lock()
	if done != nil {
		s.latest = MergePartial(s.latest, done)
	}
	merged := s.latest
	s.mu.Unlock()

	if err := ValidatePartial(merged); err != nil {
		s.fail(fmt.Errorf("terminal validation: %w", err))
		return
	}
	res, err := DecodeResult(merged)
	if err == nil {
		err = ValidateTerminal(res)
	}
	if err != nil {
		// An explicit terminal marker promised a complete result, so anything
		// less fails. A stream that just went quiet may still carry enough to
		// present; promote the accumulated partial in that case.
		if done != nil || !HasMinimumUsableData(merged) {
			s.fail(fmt.Errorf("terminal validation: %w", err))
			return
		}
		res = ResultFromPartial(merged)
		if res == nil {
			s.fail(fmt.Errorf("terminal validation: %w", err))
			return
		}
		s.log.Warn("stream stopped before a complete result, promoting usable partial", "error", err)
	}
	if err := ValidateColorContract(res); err != nil {
		s.log.Warn("generation ignored the color swap contract",
			"slide1_bg", res.Post.Slides[0].BackgroundColor,
			"slide2_bg", res.Post.Slides[1].BackgroundColor,
		)
	}

	s.mu.Lock()
	s.phase = PhaseCompleted
	s.result = res
	snap := s.snapshotLocked()
	s.publishLocked(snap)
	s.closeSubsLocked()
	s.mu.Unlock()
}

func (s *Session) fail(err error) {
	s.mu.Lock()
	s.phase = PhaseFailed
	s.err = err
	snap := s.snapshotLocked()
	s.publishLocked(snap)
	s.closeSubsLocked()
	s.mu.Unlock()
}

// Snapshot returns the latest published state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Partial: CloneMap(s.latest),
		Result:  s.result,
		Phase:   s.phase,
		Err:     s.err,
	}
}

// Subscribe registers an observer. Each subscriber holds a one-slot buffer:
// a slow consumer coalesces to the newest snapshot, but the terminal snapshot
// is always delivered because the channel closes only after it is buffered.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if s.closed {
		ch <- s.snapshotLocked()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

// Cancel aborts the outstanding provider call and detaches all subscribers.
// Any chunks still in flight are discarded silently; nothing is published
// after cancellation.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.closeSubsLocked()
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Session) publishLocked(snap Snapshot) {
	if s.closed {
		return
	}
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// drop the stale buffered snapshot, keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Session) closeSubsLocked() {
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
