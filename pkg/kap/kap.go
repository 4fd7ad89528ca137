package kap

import (
	"context"
	"fmt"
	"time"

	"kap/pkg/keys"
	"kap/pkg/logger"
)

// DefaultTick is the poll period used when none is configured.
const DefaultTick = 10 * time.Millisecond

// State is the engine's chain state.
type State int

const (
	// Next means ready, or the last guarded wait succeeded.
	Next State = iota
	// Fail means the last guarded wait missed its condition.
	Fail
	// Done terminates the chain.
	Done
)

func (s State) String() string {
	switch s {
	case Next:
		return "Next"
	case Fail:
		return "Fail"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Record is the ordered list of observed key snapshots.
type Record [][]keys.Keycode

// Last returns the most recent snapshot, or nil.
func (r Record) Last() []keys.Keycode {
	if len(r) == 0 {
		return nil
	}
	return r[len(r)-1]
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for i, snapshot := range r {
		out[i] = append([]keys.Keycode(nil), snapshot...)
	}
	return out
}

func (r Record) String() string {
	return fmt.Sprint([][]keys.Keycode(r))
}

// Option configures an engine.
type Option func(*Kap)

// WithTick sets the poll period.
func WithTick(d time.Duration) Option {
	return func(k *Kap) {
		if d > 0 {
			k.tick = d
		}
	}
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(k *Kap) {
		if c != nil {
			k.clock = c
		}
	}
}

// WithLogger sets the logger for state transitions.
func WithLogger(l logger.Logger) Option {
	return func(k *Kap) {
		if l != nil {
			k.log = l
		}
	}
}

// WithContext bounds every wait. A cancelled context ends the chain as if
// Done had been called.
func WithContext(ctx context.Context) Option {
	return func(k *Kap) {
		if ctx != nil {
			k.ctx = ctx
		}
	}
}

// Kap is one chain of trigger waits and callbacks. It is not safe for
// concurrent use; each wait blocks the calling goroutine until it resolves.
type Kap struct {
	state  State
	record Record

	ctx   context.Context
	clock Clock
	tick  time.Duration
	log   logger.Logger
	edges *EdgeDetector
}

// New creates an engine in state Next with an empty record.
func New(kb Keyboard, opts ...Option) *Kap {
	k := &Kap{
		state: Next,
		ctx:   context.Background(),
		clock: SystemClock{},
		tick:  DefaultTick,
		log:   logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(k)
	}
	k.edges = NewEdgeDetector(kb, k.clock, k.tick)
	return k
}

// State returns the current chain state.
func (k *Kap) State() State {
	return k.state
}

// Record returns a copy of everything matched so far.
func (k *Kap) Record() Record {
	return k.record.Clone()
}

// OnSuccess calls fn with a copy of the record if the state is Next.
func (k *Kap) OnSuccess(fn func(Record)) *Kap {
	if k.state == Next {
		fn(k.record.Clone())
	}
	return k
}

// OnSuccessAsync is OnSuccess with fn started on its own goroutine. The
// chain does not wait for it.
func (k *Kap) OnSuccessAsync(fn func(Record)) *Kap {
	if k.state == Next {
		go fn(k.record.Clone())
	}
	return k
}

// OnFailure calls fn with a copy of the record if the state is Fail.
func (k *Kap) OnFailure(fn func(Record)) *Kap {
	if k.state == Fail {
		fn(k.record.Clone())
	}
	return k
}

// Finally always calls fn, then ends the chain.
func (k *Kap) Finally(fn func(Record)) *Kap {
	fn(k.record.Clone())
	return k.Done()
}

// Done ends the chain without a callback.
func (k *Kap) Done() *Kap {
	k.state = Done
	return k
}

func (k *Kap) resolve(op string, state State, matched Record) {
	k.state = state
	k.record = append(k.record, matched...)
	k.log.Info("Kap: %s resolved %s, %d snapshot(s) recorded", op, state, len(matched))
}

// interrupted ends the chain after the context stopped a wait.
func (k *Kap) interrupted(op string, err error) {
	k.log.Warning("Kap: %s interrupted: %v", op, err)
	k.state = Done
}
