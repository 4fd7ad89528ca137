package kap

import (
	"context"
	"reflect"
	"testing"
	"time"

	"kap/pkg/keys"
)

func TestEdgeDetectorIgnoresEarlierPress(t *testing.T) {
	h := newHarness(t)
	d := NewEdgeDetector(h.kb, h.clk, time.Millisecond)

	// a key-down before Run must not leak into it
	d.edge.Store(true)
	h.kb.pressed = []keys.Keycode{keys.A}

	var seen [][]keys.Keycode
	h.start(func() *Kap {
		d.Run(context.Background(), func(_ time.Time, pressed []keys.Keycode) bool {
			if pressed != nil {
				seen = append(seen, pressed)
			}
			return len(seen) == 1
		})
		return nil
	})
	if !h.pending(10 * time.Millisecond) {
		t.Fatal("Expected no edge before the first notification")
	}
	h.press(20*time.Millisecond, keys.B)
	h.wait()

	if !reflect.DeepEqual(seen, [][]keys.Keycode{{keys.B}}) {
		t.Errorf("Expected [[B]], got %v", seen)
	}
}

func TestEdgeDetectorPassesTickTime(t *testing.T) {
	h := newHarness(t)
	d := NewEdgeDetector(h.kb, h.clk, time.Millisecond)

	var stamps []time.Time
	h.start(func() *Kap {
		d.Run(context.Background(), func(now time.Time, _ []keys.Keycode) bool {
			stamps = append(stamps, now)
			return len(stamps) == 2
		})
		return nil
	})
	h.tick(5 * time.Millisecond)
	h.tick(15 * time.Millisecond)
	h.wait()

	want := []time.Time{h.base.Add(5 * time.Millisecond), h.base.Add(15 * time.Millisecond)}
	if !reflect.DeepEqual(stamps, want) {
		t.Errorf("Expected %v, got %v", want, stamps)
	}
}

func TestEdgeDetectorReadsStateOncePerEdge(t *testing.T) {
	h := newHarness(t)
	d := NewEdgeDetector(h.kb, h.clk, time.Millisecond)

	ticks := 0
	h.start(func() *Kap {
		d.Run(context.Background(), func(time.Time, []keys.Keycode) bool {
			ticks++
			return ticks == 6
		})
		return nil
	})
	h.press(10*time.Millisecond, keys.A)
	for i := 0; i < 4; i++ {
		if !h.tick(20 * time.Millisecond) {
			t.Fatal("Expected detector to keep polling")
		}
	}
	h.wait()

	h.kb.mu.Lock()
	reads := h.kb.reads
	h.kb.mu.Unlock()
	if reads != 1 {
		t.Errorf("Expected one state read for one edge, got %d", reads)
	}
}

func TestEdgeDetectorDefaults(t *testing.T) {
	d := NewEdgeDetector(newFakeKeyboard(), nil, 0)
	if d.tick != DefaultTick {
		t.Errorf("Expected default tick %v, got %v", DefaultTick, d.tick)
	}
	if _, ok := d.clock.(SystemClock); !ok {
		t.Errorf("Expected SystemClock, got %T", d.clock)
	}
}

func TestEdgeDetectorWithSystemClock(t *testing.T) {
	kb := newFakeKeyboard()
	d := NewEdgeDetector(kb, SystemClock{}, time.Millisecond)

	done := make(chan []keys.Keycode, 1)
	go func() {
		var got []keys.Keycode
		d.Run(context.Background(), func(_ time.Time, pressed []keys.Keycode) bool {
			got = pressed
			return pressed != nil
		})
		done <- got
	}()

	<-kb.subscribed
	kb.press(keys.Enter)

	select {
	case got := <-done:
		if !reflect.DeepEqual(got, []keys.Keycode{keys.Enter}) {
			t.Errorf("Expected [Enter], got %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for edge")
	}
}
