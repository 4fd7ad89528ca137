package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"kap/internal/config"
	"kap/internal/hotkey"
	"kap/internal/sequence"
	"kap/internal/term"
	"kap/pkg/kap"
	"kap/pkg/keys"
)

// source is a keyboard plus somewhere to print.
type source interface {
	kap.Keyboard
	sequence.Printer
}

// consolePrinter prints to a plain stream. Clear uses the terminal reset
// sequence.
type consolePrinter struct {
	w io.Writer
}

func (p consolePrinter) Println(line string) {
	fmt.Fprintln(p.w, line)
}

func (p consolePrinter) Clear() {
	fmt.Fprint(p.w, "\x1bc")
}

// globalSource reads the OS-wide keyboard through the hotkey manager
// and prints to stdout.
type globalSource struct {
	hkMgr *hotkey.Manager
	out   consolePrinter
}

func (s globalSource) PressedKeys() []keys.Keycode { return s.hkMgr.PressedKeys() }
func (s globalSource) OnKeyDown(handler func()) func() { return s.hkMgr.OnKeyDown(handler) }
func (s globalSource) Println(line string) { s.out.Println(line) }
func (s globalSource) Clear() { s.out.Clear() }

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withSource opens the configured keyboard, runs fn and releases the
// keyboard again. For the terminal source Ctrl+C cancels ctx.
func withSource(ctx context.Context, e *env, fn func(context.Context, source) error) error {
	switch e.source {
	case config.SourceTerminal:
		return withTerminal(ctx, fn)
	default:
		return withGlobal(ctx, e, fn)
	}
}

func withGlobal(ctx context.Context, e *env, fn func(context.Context, source) error) error {
	hkMgr := hotkey.NewManager()
	hkMgr.SetDevice(e.cfgMgr.Get().General.Device)
	if err := hkMgr.Start(); err != nil {
		return fmt.Errorf("start global keyboard: %w", err)
	}
	defer func() {
		if err := hkMgr.Stop(); err != nil {
			log.Printf("Hotkey Engine: stop failed: %v", err)
		}
	}()

	return fn(ctx, globalSource{hkMgr: hkMgr, out: consolePrinter{w: os.Stdout}})
}

func withTerminal(ctx context.Context, fn func(context.Context, source) error) error {
	t, err := term.NewTerminal()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := t.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer t.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	t.OnInterrupt(cancel)
	go t.Run(ctx)

	return fn(ctx, t)
}
