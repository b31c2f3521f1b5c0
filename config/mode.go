package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/inferadb/ferment/core"
)

// Env is the slice of the process environment that decides the mode.
type Env struct {
	Getenv    func(string) string
	StdinTTY  bool
	StdoutTTY bool
	NoColor   bool
}

// ProcessEnv reads the real process environment and terminal.
func ProcessEnv() Env {
	return Env{
		Getenv:    os.Getenv,
		StdinTTY:  isTerminal(os.Stdin),
		StdoutTTY: isTerminal(os.Stdout),
		NoColor:   termenv.EnvNoColor(),
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Detected is the outcome of mode detection, fixed for the process lifetime.
type Detected struct {
	Mode         core.Mode
	NoColor      bool
	ReduceMotion bool
	// Reason names the first input that selected accessible mode.
	Reason string
}

// DetectMode combines configuration and environment. Accessible mode wins
// when requested or when either stdio stream is not a terminal.
func DetectMode(cfg Config, env Env) Detected {
	getenv := env.Getenv
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	d := Detected{
		Mode:         core.ModeInteractive,
		NoColor:      cfg.NoColor || env.NoColor || getenv("NO_COLOR") != "",
		ReduceMotion: cfg.ReduceMotion || truthy(getenv("REDUCE_MOTION")),
	}
	switch {
	case cfg.Accessible:
		d.Reason = "config"
	case truthy(getenv("ACCESSIBLE")):
		d.Reason = "ACCESSIBLE"
	case truthy(getenv("CI")):
		d.Reason = "CI"
	case !env.StdinTTY:
		d.Reason = "stdin is not a terminal"
	case !env.StdoutTTY:
		d.Reason = "stdout is not a terminal"
	}
	if d.Reason != "" {
		d.Mode = core.ModeAccessible
	}
	return d
}

func truthy(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "yes", "y", "on":
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// ProgramOptions turns the configuration into Program options.
func ProgramOptions(cfg Config, d Detected) []core.ProgramOption {
	opts := []core.ProgramOption{
		core.WithMode(d.Mode),
		core.WithFPS(cfg.FPS),
		core.WithShutdownTimeout(cfg.ShutdownTimeout),
		core.WithTickInterval(cfg.TickInterval),
	}
	if !cfg.Mouse {
		opts = append(opts, core.WithoutMouse())
	}
	if !cfg.AltScreen {
		opts = append(opts, core.WithoutAltScreen())
	}
	if d.NoColor {
		opts = append(opts, core.WithNoColor())
	}
	if d.ReduceMotion {
		opts = append(opts, core.WithReduceMotion())
	}
	return opts
}
