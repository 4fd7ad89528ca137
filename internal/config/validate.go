package config

import (
	"fmt"

	"kap/pkg/trigger"
)

// Validate checks general settings and every sequence.
func Validate(cfg *Config) error {
	switch cfg.General.Source {
	case SourceGlobal, SourceTerminal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSource, cfg.General.Source)
	}
	if cfg.General.TickInterval.Duration < 0 {
		return fmt.Errorf("negative tick_interval %s", cfg.General.TickInterval)
	}

	seen := make(map[string]bool, len(cfg.Sequences))
	for _, seq := range cfg.Sequences {
		if err := validateSequence(seq); err != nil {
			return err
		}
		if seen[seq.Name] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidSequence, seq.Name)
		}
		seen[seq.Name] = true
	}
	return nil
}

func validateSequence(seq Sequence) error {
	if seq.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSequence)
	}
	for i, step := range seq.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("sequence %q step %d: %w", seq.Name, i+1, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch step.Op {
	case OpUntil, OpWithin, OpAfter:
		if len(step.Keys) == 0 {
			return fmt.Errorf("%w: %s needs keys", ErrInvalidStep, step.Op)
		}
		if _, err := trigger.ParseAll(step.Keys); err != nil {
			return err
		}
	case OpAny, OpSuccess, OpFailure, OpFinally:
	case OpSleep:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStep, step.Op)
	}

	switch step.Op {
	case OpWithin, OpAfter, OpSleep:
		if step.Timeout.Duration <= 0 {
			return fmt.Errorf("%w: %s needs a positive timeout", ErrInvalidStep, step.Op)
		}
	}
	if step.Repeat < 0 || step.MaxRepeat < 0 {
		return fmt.Errorf("%w: negative repeat", ErrInvalidStep)
	}
	return nil
}
