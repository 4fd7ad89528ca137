package main

import (
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"time"

	"kap/internal/config"
	"kap/pkg/kap"
	"kap/pkg/keys"
	"kap/pkg/logger"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "configuration file (.toml or .json); defaults to the per-user config",
	},
	cli.StringFlag{
		Name:  "source, s",
		Usage: "keyboard source: global (OS hooks) or terminal",
	},
	cli.DurationFlag{
		Name:  "tick, t",
		Usage: "key polling interval, overrides the configuration",
	},
	cli.BoolFlag{
		Name:  "verbose, V",
		Usage: "log every engine state transition",
	},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "kap"
	app.HelpName = "kap"
	app.Usage = "wait for key presses, combinations and groups with deadlines"
	app.UsageText = "kap [global options] <command> [arguments...]"
	app.Version = fmt.Sprintf("%s (%s_%s)", version, runtime.GOOS, runtime.GOARCH)
	app.Flags = globalFlags
	app.Commands = []cli.Command{
		{
			Name:        "example",
			Aliases:     []string{"e"},
			Usage:       "run one of the bundled example flows",
			Subcommands: exampleCommands(),
		},
		{
			Name:      "run",
			Aliases:   []string{"r"},
			Usage:     "run a configured sequence",
			ArgsUsage: "<name>",
			Action:    runSequence,
		},
		{
			Name:   "serve",
			Usage:  "run every enabled sequence with tray menu, API and hot reload",
			Action: serve,
			Flags:  serveFlags,
		},
		{
			Name:      "watch",
			Aliases:   []string{"w"},
			Usage:     "print sequence outcomes from a running kap serve",
			ArgsUsage: "<host:port>",
			Action:    watch,
			Flags:     watchFlags,
		},
		{
			Name:        "autostart",
			Usage:       "manage starting kap serve on login",
			Subcommands: autostartCommands(),
		},
		{
			Name:    "keys",
			Aliases: []string{"k"},
			Usage:   "list key names and key groups",
			Action:  listKeys,
		},
	}
	return app
}

// env is what every command needs: the loaded configuration and the
// engine options derived from it and the global flags.
type env struct {
	cfgMgr *config.Manager
	source string
	tick   time.Duration
	log    logger.Logger
}

func loadEnv(c *cli.Context) (*env, error) {
	var cfgMgr *config.Manager
	if path := c.GlobalString("config"); path != "" {
		cfgMgr = config.NewManagerWithPath(afero.NewOsFs(), path)
	} else {
		var err error
		cfgMgr, err = config.NewManager()
		if err != nil {
			return nil, fmt.Errorf("initialize config: %w", err)
		}
	}
	if err := cfgMgr.Load(); err != nil {
		log.Printf("Warning: failed to load config: %v", err)
	}

	cfg := cfgMgr.Get()
	e := &env{
		cfgMgr: cfgMgr,
		source: cfg.General.Source,
		tick:   cfg.General.TickInterval.Duration,
		log:    logger.NopLogger{},
	}
	if s := c.GlobalString("source"); s != "" {
		e.source = strings.ToLower(s)
	}
	if e.source != config.SourceGlobal && e.source != config.SourceTerminal {
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidSource, e.source)
	}
	if d := c.GlobalDuration("tick"); d > 0 {
		e.tick = d
	}
	if c.GlobalBool("verbose") {
		e.log = logger.NewStandardLogger(nil)
	}
	return e, nil
}

func (e *env) engineOptions() []kap.Option {
	return []kap.Option{kap.WithTick(e.tick), kap.WithLogger(e.log)}
}

func listKeys(c *cli.Context) error {
	w := c.App.Writer
	fmt.Fprintln(w, "Keys:")
	printNames(w, keyNames(keys.All()))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Groups (use as @Name, combine with |):")
	for _, g := range keys.Groups() {
		fmt.Fprintf(w, "  @%-14s %s\n", g, strings.Join(keyNames(g.Keys()), " "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Aliases: Ctrl, Shift, Alt, Cmd/Win/Super, Esc, Return, 0-9")
	return nil
}

func keyNames(ks []keys.Keycode) []string {
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.String()
	}
	return names
}

// printNames wraps names into indented lines of at most 72 columns.
func printNames(w io.Writer, names []string) {
	line := " "
	for _, name := range names {
		if len(line)+len(name)+1 > 72 {
			fmt.Fprintln(w, line)
			line = " "
		}
		line += " " + name
	}
	if strings.TrimSpace(line) != "" {
		fmt.Fprintln(w, line)
	}
}
