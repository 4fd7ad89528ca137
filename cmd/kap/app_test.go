package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kap/internal/config"

	"github.com/urfave/cli"
)

// probeApp returns the app with an extra command that captures the env.
func probeApp(out *bytes.Buffer, got **env, gotErr *error) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = out
	app.Commands = append(app.Commands, cli.Command{
		Name: "probe",
		Action: func(c *cli.Context) error {
			*got, *gotErr = loadEnv(c)
			return nil
		},
	})
	return app
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	var out bytes.Buffer
	var e *env
	var err error
	app := probeApp(&out, &e, &err)

	if runErr := app.Run([]string{"kap", "--config", path, "--source", "Terminal", "--tick", "20ms", "probe"}); runErr != nil {
		t.Fatalf("Run failed: %v", runErr)
	}
	if err != nil {
		t.Fatalf("loadEnv failed: %v", err)
	}
	if e.source != config.SourceTerminal {
		t.Errorf("Expected source terminal, got %s", e.source)
	}
	if e.tick != 20*time.Millisecond {
		t.Errorf("Expected tick 20ms, got %v", e.tick)
	}
	if e.cfgMgr.Path() != path {
		t.Errorf("Expected config path %s, got %s", path, e.cfgMgr.Path())
	}
	if len(e.engineOptions()) != 2 {
		t.Errorf("Expected 2 engine options, got %d", len(e.engineOptions()))
	}
}

func TestDefaultsFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	var out bytes.Buffer
	var e *env
	var err error
	app := probeApp(&out, &e, &err)

	if runErr := app.Run([]string{"kap", "--config", path, "probe"}); runErr != nil {
		t.Fatalf("Run failed: %v", runErr)
	}
	if err != nil {
		t.Fatalf("loadEnv failed: %v", err)
	}
	if e.source != config.SourceGlobal {
		t.Errorf("Expected source global, got %s", e.source)
	}
	if e.tick != 10*time.Millisecond {
		t.Errorf("Expected tick 10ms, got %v", e.tick)
	}
}

func TestInvalidSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	var out bytes.Buffer
	var e *env
	var err error
	app := probeApp(&out, &e, &err)

	app.Run([]string{"kap", "--config", path, "--source", "bluetooth", "probe"})
	if !errors.Is(err, config.ErrInvalidSource) {
		t.Errorf("Expected ErrInvalidSource, got %v", err)
	}
}

func TestKeysCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	if err := app.Run([]string{"kap", "keys"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"LControl", "Numpad3", "@Number", "@FunctionKey", "Key1"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected keys output to contain %q", want)
		}
	}
}

func TestRunRequiresName(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run([]string{"kap", "run"})
	if !errors.Is(err, errMissingName) {
		t.Errorf("Expected errMissingName, got %v", err)
	}
}

func TestWatchRequiresAddress(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run([]string{"kap", "watch"})
	if !errors.Is(err, errMissingAddr) {
		t.Errorf("Expected errMissingAddr, got %v", err)
	}
}

func TestPrintNamesWraps(t *testing.T) {
	var out bytes.Buffer
	names := make([]string, 30)
	for i := range names {
		names[i] = "Numpad0"
	}
	printNames(&out, names)

	for _, line := range strings.Split(strings.TrimRight(out.String(), "\n"), "\n") {
		if len(line) > 72 {
			t.Errorf("Expected lines of at most 72 columns, got %d", len(line))
		}
	}
}
