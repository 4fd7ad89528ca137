package main

import (
	"context"
	"log"
	"sync"
	"time"

	"kap/internal/api"
	"kap/internal/config"
	"kap/internal/sequence"
	"kap/internal/tray"

	"github.com/urfave/cli"
)

var serveFlags = []cli.Flag{
	cli.BoolFlag{
		Name:  "no-tray",
		Usage: "run without the system tray icon",
	},
	cli.StringFlag{
		Name:  "quit-hotkey, q",
		Usage: "global hotkey that stops the service, e.g. Ctrl+Alt+Q",
	},
}

func serve(c *cli.Context) error {
	e, err := loadEnv(c)
	if err != nil {
		return err
	}
	log.Println("kap service starting...")

	ctx, stop := signalContext()
	defer stop()

	return withSource(ctx, e, func(ctx context.Context, src source) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		runner := sequence.NewRunner(src, src, e.engineOptions()...)
		sup := newSupervisor(runner)
		defer sup.Stop()

		cfg := e.cfgMgr.Get()
		if cfg.General.APIEnabled {
			apiServer := api.NewServer(e.cfgMgr, runner)
			runner.SetOnOutcome(apiServer.BroadcastOutcome)
			go func() {
				if err := apiServer.Start(cfg.General.APIPort); err != nil {
					log.Printf("API server error: %v", err)
				}
			}()
			defer func() {
				shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
				defer done()
				if err := apiServer.Shutdown(shutdownCtx); err != nil {
					log.Printf("API server shutdown: %v", err)
				}
			}()
		}

		if hk := c.String("quit-hotkey"); hk != "" {
			gs, ok := src.(globalSource)
			if !ok {
				log.Printf("Warning: --quit-hotkey needs the global keyboard source, ignoring %q", hk)
			} else if _, err := gs.hkMgr.Register(hk, cancel); err != nil {
				return err
			}
		}

		var menu *serveMenu
		if !c.Bool("no-tray") {
			menu = newServeMenu(e.cfgMgr, func() { sup.Restart(ctx, e.cfgMgr.Get()) }, cancel)
		}

		// Config edits from the API, the tray or the file restart every run
		e.cfgMgr.RegisterChangeCallback(func() {
			cfg := e.cfgMgr.Get()
			sup.Restart(ctx, cfg)
			if menu != nil {
				menu.refresh(cfg)
			}
		})
		go func() {
			if err := e.cfgMgr.Watch(ctx); err != nil {
				log.Printf("Config: Watch stopped: %v", err)
			}
		}()

		sup.Restart(ctx, cfg)

		if menu == nil {
			<-ctx.Done()
			log.Println("kap service stopping...")
			return nil
		}

		go func() {
			<-ctx.Done()
			menu.tray.Stop()
		}()
		// This is blocking
		menu.tray.Run()
		cancel()
		log.Println("kap service stopping...")
		return nil
	})
}

// serveMenu is the tray menu of kap serve: one checkbox per sequence,
// reload and quit.
type serveMenu struct {
	tray *tray.Tray

	mu  sync.Mutex
	ids map[string]int
}

func newServeMenu(cfgMgr *config.Manager, restart func(), quit func()) *serveMenu {
	m := &serveMenu{
		tray: tray.New("kap", "kap - keyboard sequences"),
		ids:  make(map[string]int),
	}

	for _, seq := range cfgMgr.Get().Sequences {
		name := seq.Name
		id := m.tray.AddCheckboxItem(name, seq.Enabled, func(checked bool) {
			if !cfgMgr.SetSequenceEnabled(name, checked) {
				return
			}
			log.Printf("Tray: %s enabled=%v", name, checked)
			if err := cfgMgr.Save(); err != nil {
				log.Printf("Tray: Failed to save config: %v", err)
			}
			restart()
		})
		m.ids[name] = id
	}

	m.tray.AddSeparator()
	m.tray.AddMenuItem("Reload config", func() {
		if err := cfgMgr.Load(); err != nil {
			log.Printf("Tray: Reload failed: %v", err)
		}
	})
	m.tray.AddMenuItem("Quit", quit)
	return m
}

// refresh syncs the checkboxes with cfg.
func (m *serveMenu) refresh(cfg *config.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, seq := range cfg.Sequences {
		if id, ok := m.ids[seq.Name]; ok {
			m.tray.SetItemChecked(id, seq.Enabled)
		}
	}
}
