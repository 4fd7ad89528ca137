package main

import (
	"context"
	"errors"

	"kap/internal/sequence"

	"github.com/urfave/cli"
)

var errMissingName = errors.New("missing sequence name")

func runSequence(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		cli.ShowCommandHelp(c, c.Command.Name)
		return errMissingName
	}

	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	cfg := e.cfgMgr.Get()

	ctx, stop := signalContext()
	defer stop()

	return withSource(ctx, e, func(ctx context.Context, src source) error {
		runner := sequence.NewRunner(src, src, e.engineOptions()...)
		return runner.RunNamed(ctx, cfg, name)
	})
}
