// Package kap sequences keyboard triggers into chains of reactions.
//
// A Kap engine waits for keys, records what was pressed, and gates callbacks
// on the outcome:
//
//	kap.New(kb).
//		Until(trigger.FromKeys(keys.Meta, keys.LShift, keys.A)).
//		OnSuccess(func(kap.Record) { fmt.Println("Nice! Then press <Esc>") }).
//		Within(time.Second, trigger.FromKey(keys.Escape)).
//		OnSuccess(func(kap.Record) { fmt.Println("Done") }).
//		OnFailure(func(kap.Record) { fmt.Println("Too slow, try again!") }).
//		Finally(func(kap.Record) {})
//
// # States
//
// An engine starts in Next. A guarded wait that misses its condition moves
// it to Fail; the next successful wait moves it back to Next. Finally and
// Done move it to Done, after which every wait is a no-op.
//
// # Timing
//
// Waits poll the keyboard on a fixed tick (10ms by default). Key-down
// notifications mark an edge; the pressed set is read once per edge so a
// held key is never counted twice. Deadlines are checked once per tick
// against the tick time, before any pending press is examined.
package kap
