package postgen

import (
	"sync"

	"github.com/lesmnif/echoes/internal/pkg/logger"
)

// Gate decides the single instant a generation becomes presentable and
// persistable. Two triggers can race: the subscriber goroutine delivering the
// reducer's terminal snapshot, and the handler re-checking the session state
// after its read loop ends. One latch guards the downstream action; onReady
// runs at most once per session.
type Gate struct {
	mu      sync.Mutex
	fired   bool
	errored bool

	onReady func(*GenerationResult)
	onError func(error)
	log     *logger.Logger
}

func NewGate(log *logger.Logger, onReady func(*GenerationResult), onError func(error)) *Gate {
	return &Gate{
		onReady: onReady,
		onError: onError,
		log:     log.With("component", "CompletionGate"),
	}
}

// Observe handles a snapshot. Only terminal phases act; the reducer owns the
// decision of whether a quiet stream's accumulated partial counts as a result,
// so by the time a snapshot reaches the gate it is either done or dead.
func (g *Gate) Observe(snap Snapshot) {
	switch snap.Phase {
	case PhaseCompleted:
		g.fire(snap.Result)
	case PhaseFailed:
		g.failOnce(snap.Err)
	}
}

// HasFired reports whether onReady has run.
func (g *Gate) HasFired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}

func (g *Gate) fire(res *GenerationResult) {
	if res == nil {
		return
	}
	g.mu.Lock()
	if g.fired || g.errored {
		g.mu.Unlock()
		return
	}
	g.fired = true
	g.mu.Unlock()

	if g.onReady != nil {
		g.onReady(res)
	}
}

func (g *Gate) failOnce(err error) {
	g.mu.Lock()
	if g.fired || g.errored {
		g.mu.Unlock()
		return
	}
	g.errored = true
	g.mu.Unlock()

	if g.onError != nil {
		g.onError(err)
	}
}
