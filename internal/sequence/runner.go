// Package sequence runs declarative key sequences from the configuration
// as kap chains and reports their outcomes.
package sequence

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"kap/internal/config"
	"kap/pkg/kap"
	"kap/pkg/trigger"
)

// Outcome describes one finished run of a sequence.
type Outcome struct {
	RunID    string
	Sequence string
	// State is the state of the last wait that resolved, Next or Fail.
	State    kap.State
	Record   kap.Record
	Started  time.Time
	Finished time.Time
}

// Printer receives step messages.
type Printer interface {
	Println(line string)
	Clear()
}

// LogPrinter prints step messages through the standard logger.
type LogPrinter struct{}

func (LogPrinter) Println(line string) { log.Printf("Sequence: %s", line) }
func (LogPrinter) Clear()              {}

// Runner coordinates sequence runs against one keyboard
type Runner struct {
	mu      sync.Mutex
	kb      kap.Keyboard
	printer Printer
	opts    []kap.Option

	// Callbacks for UI notifications
	onOutcome func(Outcome)
	last      map[string]Outcome
}

// NewRunner creates a runner. opts are applied to every chain it builds.
func NewRunner(kb kap.Keyboard, printer Printer, opts ...kap.Option) *Runner {
	if printer == nil {
		printer = LogPrinter{}
	}
	return &Runner{
		kb:      kb,
		printer: printer,
		opts:    opts,
		last:    make(map[string]Outcome),
	}
}

// SetOnOutcome sets the callback for finished runs
func (r *Runner) SetOnOutcome(callback func(Outcome)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onOutcome = callback
}

// LastOutcome returns the most recent outcome of the named sequence.
func (r *Runner) LastOutcome(name string) (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.last[name]
	return o, ok
}

// LastOutcomes returns the most recent outcome of every sequence run so far.
func (r *Runner) LastOutcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Outcome, 0, len(r.last))
	for _, o := range r.last {
		out = append(out, o)
	}
	return out
}

type compiledStep struct {
	step  config.Step
	specs []trigger.Spec
}

func compile(seq config.Sequence) ([]compiledStep, error) {
	steps := make([]compiledStep, 0, len(seq.Steps))
	for i, step := range seq.Steps {
		specs, err := trigger.ParseAll(step.Keys)
		if err != nil {
			return nil, fmt.Errorf("sequence %q step %d: %w", seq.Name, i+1, err)
		}
		steps = append(steps, compiledStep{step: step, specs: specs})
	}
	return steps, nil
}

func blocks(seq config.Sequence) bool {
	for _, step := range seq.Steps {
		switch step.Op {
		case config.OpUntil, config.OpAny, config.OpWithin, config.OpAfter, config.OpSleep:
			return true
		}
	}
	return false
}

// Run executes seq once. A run cut short by ctx is not reported and
// returns ctx's error.
func (r *Runner) Run(ctx context.Context, seq config.Sequence) (Outcome, error) {
	steps, err := compile(seq)
	if err != nil {
		return Outcome{}, err
	}
	return r.run(ctx, seq.Name, steps)
}

func (r *Runner) run(ctx context.Context, name string, steps []compiledStep) (Outcome, error) {
	outcome := Outcome{
		RunID:    uuid.NewString(),
		Sequence: name,
		State:    kap.Next,
		Started:  time.Now(),
	}

	k := kap.New(r.kb, append(append([]kap.Option(nil), r.opts...), kap.WithContext(ctx))...)
	for _, cs := range steps {
		r.apply(k, cs)
		if s := k.State(); s != kap.Done {
			outcome.State = s
		}
	}

	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	outcome.Record = k.Record()
	outcome.Finished = time.Now()
	r.report(outcome)
	return outcome, nil
}

func (r *Runner) apply(k *kap.Kap, cs compiledStep) {
	step := cs.step
	switch step.Op {
	case config.OpUntil:
		k.UntilRepeat(step.Repeat, cs.specs...)
	case config.OpAny:
		k.Any()
	case config.OpWithin:
		maxRepeat := step.MaxRepeat
		if maxRepeat == 0 {
			maxRepeat = 1
		}
		k.WithinRepeat(step.Timeout.Duration, maxRepeat, step.Debounce, cs.specs...)
	case config.OpAfter:
		k.AfterRepeat(step.Timeout.Duration, step.Repeat, cs.specs...)
	case config.OpSleep:
		k.Sleep(step.Timeout.Duration)
	case config.OpSuccess:
		k.OnSuccess(r.printStep(step))
	case config.OpFailure:
		k.OnFailure(r.printStep(step))
	case config.OpFinally:
		k.Finally(r.printStep(step))
	}
}

func (r *Runner) printStep(step config.Step) func(kap.Record) {
	return func(record kap.Record) {
		if step.Clear {
			r.printer.Clear()
		}
		if step.Message != "" {
			r.printer.Println(expand(step.Message, record))
		}
	}
}

func (r *Runner) report(outcome Outcome) {
	r.mu.Lock()
	r.last[outcome.Sequence] = outcome
	onOutcome := r.onOutcome
	r.mu.Unlock()

	log.Printf("Sequence: %s finished %s (%s)", outcome.Sequence, outcome.State, FormatRecord(outcome.Record))
	if onOutcome != nil {
		onOutcome(outcome)
	}
}

// Loop runs seq again and again until ctx is done.
func (r *Runner) Loop(ctx context.Context, seq config.Sequence) error {
	if !blocks(seq) {
		return fmt.Errorf("loop %q: %w", seq.Name, ErrNoWait)
	}
	steps, err := compile(seq)
	if err != nil {
		return err
	}

	for {
		if _, err := r.run(ctx, seq.Name, steps); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// RunSequence runs seq once, or in a loop when seq.Loop is set.
func (r *Runner) RunSequence(ctx context.Context, seq config.Sequence) error {
	if seq.Loop {
		return r.Loop(ctx, seq)
	}
	_, err := r.Run(ctx, seq)
	return err
}

// RunNamed looks up name in cfg and runs it with RunSequence.
func (r *Runner) RunNamed(ctx context.Context, cfg *config.Config, name string) error {
	for _, seq := range cfg.Sequences {
		if seq.Name == name {
			return r.RunSequence(ctx, seq)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}
