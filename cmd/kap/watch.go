package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kap/internal/network"
	"kap/internal/protocol"

	"github.com/urfave/cli"
)

var errMissingAddr = errors.New("missing server address")

var watchFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "token",
		Usage: "API token; defaults to api_token from the configuration",
	},
	cli.DurationFlag{
		Name:  "retry",
		Value: network.DefaultRetryDelay,
		Usage: "pause between reconnection attempts",
	},
}

func watch(c *cli.Context) error {
	addr := c.Args().First()
	if addr == "" {
		cli.ShowCommandHelp(c, c.Command.Name)
		return errMissingAddr
	}

	token := c.String("token")
	if token == "" {
		e, err := loadEnv(c)
		if err != nil {
			return err
		}
		token = e.cfgMgr.Get().General.APIToken
	}

	w := c.App.Writer
	client := network.NewWSClient(addr, token)
	client.RetryDelay = c.Duration("retry")
	client.OnStatus = func(st protocol.StatusResponsePayload) {
		fmt.Fprint(w, formatStatus(st))
	}
	client.OnOutcome = func(o protocol.OutcomePayload) {
		fmt.Fprintln(w, formatOutcome(o))
	}

	ctx, stop := signalContext()
	defer stop()

	client.Start()
	<-ctx.Done()
	client.Close()
	return nil
}

func formatStatus(st protocol.StatusResponsePayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d sequence(s):\n", len(st.Sequences))
	for _, seq := range st.Sequences {
		state := "disabled"
		if seq.Enabled {
			state = "enabled"
		}
		if seq.Loop {
			state += ", loop"
		}
		fmt.Fprintf(&b, "  %s (%s)", seq.Name, state)
		if seq.LastOutcome != nil {
			fmt.Fprintf(&b, " last: %s", seq.LastOutcome.State)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatOutcome(o protocol.OutcomePayload) string {
	snapshots := make([]string, len(o.Record))
	for i, snapshot := range o.Record {
		snapshots[i] = strings.Join(snapshot, "+")
	}
	return fmt.Sprintf("%s %s %s [%s] %s",
		o.Finished.Format(time.TimeOnly), o.Sequence, o.State,
		strings.Join(snapshots, " "), o.Finished.Sub(o.Started).Round(time.Millisecond))
}
