package main

import (
	"context"
	"fmt"
	"time"

	"kap/internal/sequence"
	"kap/pkg/kap"
	"kap/pkg/keys"
	"kap/pkg/trigger"

	"github.com/urfave/cli"
)

// example is a hand-written chain run against a keyboard source.
type example func(ctx context.Context, src source, opts []kap.Option) error

var examples = []struct {
	name  string
	usage string
	run   example
}{
	{"basic", "press A twice", basicExample},
	{"group", "walk through every key group", groupExample},
	{"hotkey", "press Cmd+Shift+A, then Escape within a second", hotkeyExample},
	{"within", "keep typing digits, at most 10, each within a second", withinExample},
	{"loop", "press A, forever", loopExample},
}

func exampleCommands() []cli.Command {
	cmds := make([]cli.Command, 0, len(examples))
	for _, ex := range examples {
		cmds = append(cmds, cli.Command{
			Name:   ex.name,
			Usage:  ex.usage,
			Action: exampleAction(ex.run),
		})
	}
	return cmds
}

func exampleAction(run example) func(*cli.Context) error {
	return func(c *cli.Context) error {
		e, err := loadEnv(c)
		if err != nil {
			return err
		}
		ctx, stop := signalContext()
		defer stop()

		return withSource(ctx, e, func(ctx context.Context, src source) error {
			return run(ctx, src, e.engineOptions())
		})
	}
}

func newKap(ctx context.Context, src source, opts []kap.Option) *kap.Kap {
	return kap.New(src, append(append([]kap.Option(nil), opts...), kap.WithContext(ctx))...)
}

func say(p sequence.Printer, format string, args ...interface{}) func(kap.Record) {
	return func(record kap.Record) {
		p.Println(fmt.Sprintf(format, args...))
	}
}

func sayLast(p sequence.Printer, prefix string) func(kap.Record) {
	return func(record kap.Record) {
		p.Println(prefix + sequence.FormatSnapshot(record.Last()))
	}
}

func basicExample(ctx context.Context, src source, opts []kap.Option) error {
	src.Println("[info]: Basic example, press A twice")

	newKap(ctx, src, opts).
		UntilRepeat(2, trigger.FromKey(keys.A)).
		OnSuccess(func(record kap.Record) {
			src.Println("[info]: Pressed " + sequence.FormatRecord(record))
		}).
		Finally(say(src, "[info]: Done"))
	return nil
}

var groupPrompts = []struct {
	prompt string
	group  keys.Group
}{
	{"[info]: Press any alphabetic key", keys.Alphabet},
	{"[info]: Press any number", keys.Number},
	{"[info]: Press any function key", keys.FunctionKey},
	{"[info]: Press any modifier key i.e (Ctrl, Alt, Shift, Meta/Command/Windows)", keys.ModifierKey},
	{"[info]: Press any navigation key", keys.NavigationKey},
	{"[info]: Press any symbol i.e (`, -, =, [, ], \\, /, ;, ')", keys.Symbol},
	{"[info]: Press any numeric key", keys.NumericKey},
}

const groupPause = 500 * time.Millisecond

func groupExample(ctx context.Context, src source, opts []kap.Option) error {
	for ctx.Err() == nil {
		src.Println("[info]: Press any key")

		k := newKap(ctx, src, opts).
			Any().
			OnSuccess(sayLast(src, "[info]: You pressed: ")).
			Sleep(groupPause)

		for _, gp := range groupPrompts {
			k.OnSuccess(say(src, "%s", gp.prompt)).
				Until(trigger.FromGroup(gp.group)).
				OnSuccess(sayLast(src, "[info]: You pressed ")).
				Sleep(groupPause)
		}

		k.Finally(say(src, "[info]: Done"))
	}
	return nil
}

// hotkeyPause is how long the result stays on screen before the next round.
var hotkeyPause = time.Second

func hotkeyExample(ctx context.Context, src source, opts []kap.Option) error {
	for ctx.Err() == nil {
		src.Println("Press Cmd+Shift+A")

		newKap(ctx, src, opts).
			Until(
				trigger.FromKeys(keys.Meta, keys.LShift, keys.A),
				trigger.FromKeys(keys.LControl, keys.LShift, keys.A),
			).
			OnSuccess(func(kap.Record) {
				src.Clear()
				src.Println("Nice! Then press <Esc>")
			}).
			Within(time.Second, trigger.FromKey(keys.Escape)).
			OnSuccess(func(kap.Record) {
				src.Clear()
				src.Println("Let's go!")
			}).
			OnFailure(say(src, "Too slow, try again!")).
			Sleep(hotkeyPause).
			Finally(func(kap.Record) { src.Clear() })
	}
	return nil
}

func withinExample(ctx context.Context, src source, opts []kap.Option) error {
	src.Println("[info]: Keep typing numbers within 1 second. Maximum of 10 digits.")

	for ctx.Err() == nil {
		newKap(ctx, src, opts).
			WithinRepeat(time.Second, 10, true, trigger.FromGroup(keys.Number)).
			OnSuccess(func(record kap.Record) {
				src.Println("[info]: Pressed " + sequence.FormatRecord(record))
			}).
			OnFailure(func(record kap.Record) {
				src.Println("[info]: Catch, pressed keys " + sequence.FormatRecord(record))
			}).
			Done()
	}
	return nil
}

func loopExample(ctx context.Context, src source, opts []kap.Option) error {
	src.Println("[info]: Basic example, press A")

	for ctx.Err() == nil {
		newKap(ctx, src, opts).
			Until(trigger.FromKey(keys.A)).
			OnSuccess(say(src, "[info]: Pressed A")).
			Sleep(groupPause).
			Finally(say(src, "[info]: Done"))
	}
	return nil
}
