package main

import (
	"fmt"
	"path/filepath"

	"kap/internal/autostart"

	"github.com/urfave/cli"
)

func autostartCommands() []cli.Command {
	return []cli.Command{
		{
			Name:  "enable",
			Usage: "start kap serve on login",
			Action: func(c *cli.Context) error {
				m, err := newAutostart(c)
				if err != nil {
					return err
				}
				if err := m.Enable(); err != nil {
					return fmt.Errorf("enable autostart: %w", err)
				}
				fmt.Fprintf(c.App.Writer, "Autostart enabled: %s\n", m.Command())
				return nil
			},
		},
		{
			Name:  "disable",
			Usage: "stop starting kap serve on login",
			Action: func(c *cli.Context) error {
				m, err := newAutostart(c)
				if err != nil {
					return err
				}
				if err := m.Disable(); err != nil {
					return fmt.Errorf("disable autostart: %w", err)
				}
				fmt.Fprintln(c.App.Writer, "Autostart disabled")
				return nil
			},
		},
		{
			Name:  "status",
			Usage: "report whether kap serve starts on login",
			Action: func(c *cli.Context) error {
				m, err := newAutostart(c)
				if err != nil {
					return err
				}
				if m.IsEnabled() {
					fmt.Fprintf(c.App.Writer, "Autostart enabled: %s\n", m.Command())
				} else {
					fmt.Fprintln(c.App.Writer, "Autostart disabled")
				}
				return nil
			},
		},
	}
}

// newAutostart builds the login item for "kap [--config path] serve".
func newAutostart(c *cli.Context) (*autostart.Manager, error) {
	var args []string
	if path := c.GlobalString("config"); path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		args = append(args, "--config", abs)
	}
	args = append(args, "serve")
	return autostart.New(args...)
}
