package main

import (
	"context"
	"log"
	"sync"

	"kap/internal/config"
	"kap/internal/sequence"
)

// supervisor keeps one goroutine per enabled sequence and restarts them
// all when the configuration changes.
type supervisor struct {
	runner *sequence.Runner

	restartMu sync.Mutex
	mu        sync.Mutex
	cancel    context.CancelFunc
	running   []string
	wg        sync.WaitGroup
}

func newSupervisor(runner *sequence.Runner) *supervisor {
	return &supervisor{runner: runner}
}

// Restart stops the current runs and starts every enabled sequence of cfg.
func (s *supervisor) Restart(parent context.Context, cfg *config.Config) {
	s.restartMu.Lock()
	defer s.restartMu.Unlock()

	s.Stop()
	if parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	var names []string
	for _, seq := range cfg.Sequences {
		if !seq.Enabled {
			continue
		}
		names = append(names, seq.Name)
		s.wg.Add(1)
		go func(seq config.Sequence) {
			defer s.wg.Done()
			if err := s.runner.RunSequence(ctx, seq); err != nil {
				log.Printf("Sequence: %s stopped: %v", seq.Name, err)
			}
		}(seq)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.running = names
	s.mu.Unlock()

	log.Printf("Sequence: running %d enabled sequence(s) %v", len(names), names)
}

// Running returns the names started by the last Restart.
func (s *supervisor) Running() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.running...)
}

// Stop cancels every run and waits for them to return.
func (s *supervisor) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.running = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
