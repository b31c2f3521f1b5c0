package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/inferadb/ferment/config"
	"github.com/inferadb/ferment/core"
	"github.com/inferadb/ferment/internal/logging"
	"github.com/inferadb/ferment/journal"
	"github.com/inferadb/ferment/widgets"
)

// demo is one runnable example. report prints the outcome once the
// Program has released the terminal.
type demo struct {
	summary string
	inline  bool
	model   func(env) core.Model
	report  func(core.Model, io.Writer)
}

// env is what a demo knows about the Program it runs in.
type env struct {
	mode core.Mode
}

var demos = map[string]demo{
	"counter":   {summary: "counter with a clock, keys and $EDITOR hand-off", model: newCounter},
	"dashboard": {summary: "tabbed layout with boxes, a status badge and a help overlay", model: newDashboard},
	"table":     {summary: "full-screen scrollable table", model: newServiceTable, report: reportTable},
	"spinner":   {summary: "spinner over a sequence of background steps", inline: true, model: newBuild, report: reportBuild},
	"confirm":   {summary: "yes/no prompt", inline: true, model: newConfirm, report: reportConfirm},
	"select":    {summary: "pick one option", inline: true, model: newSelect, report: reportSelect},
	"input":     {summary: "bubbles text input hosted through teabridge", inline: true, model: newNameInput, report: reportNameInput},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("ferment-demo", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Bool("accessible", false, "line-oriented prompts instead of full-screen drawing")
	fs.Bool("no-color", false, "disable colors")
	fs.Bool("reduce-motion", false, "disable animations")
	fs.Bool("alt-screen", true, "draw full-screen demos on the alternate screen")
	fs.Int("fps", 60, "maximum frames per second")
	fs.String("log-file", "", "write debug logs to this file")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("journal", "", "record sessions into this SQLite file")
	inspect := fs.String("inspect", "", "list recorded sessions, or dump one with --inspect=<id>")
	fs.Lookup("inspect").NoOptDefVal = "list"
	prune := fs.Int("prune", -1, "keep only the newest N journal sessions and exit")
	save := fs.Bool("save-config", false, "write the effective configuration to the config file and exit")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "ferment-demo: config: %v\n", err)
		return 1
	}
	log, closeLog, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "ferment-demo: log: %v\n", err)
		return 1
	}
	defer closeLog()

	detected := config.DetectMode(cfg, config.ProcessEnv())
	widgets.UseColor(!detected.NoColor)

	ctx := context.Background()
	switch {
	case *save:
		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(stderr, "ferment-demo: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", config.Path())
		return 0
	case *prune >= 0:
		if err := pruneJournal(ctx, stdout, cfg.Journal.Path, *prune, log); err != nil {
			fmt.Fprintf(stderr, "ferment-demo: %v\n", err)
			return 1
		}
		return 0
	case *inspect != "":
		if err := inspectJournal(ctx, stdout, cfg.Journal.Path, *inspect, log); err != nil {
			fmt.Fprintf(stderr, "ferment-demo: %v\n", err)
			return 1
		}
		return 0
	}

	name := "counter"
	if fs.NArg() > 0 {
		name = fs.Arg(0)
	}
	d, ok := demos[name]
	if !ok {
		fmt.Fprintf(stderr, "ferment-demo: unknown demo %q\n", name)
		usage(stderr, fs)
		return 2
	}

	log.Info("starting demo", "demo", name, "mode", detected.Mode, "reason", detected.Reason)

	opts := append(config.ProgramOptions(cfg, detected), core.WithLogger(log))
	if d.inline {
		opts = append(opts, core.WithoutAltScreen())
	}
	if cfg.Journal.Path != "" {
		j, err := journal.Open(cfg.Journal.Path, log)
		if err != nil {
			fmt.Fprintf(stderr, "ferment-demo: %v\n", err)
			return 1
		}
		defer j.Close()
		rec := j.Recorder()
		defer func() {
			if err := rec.Close(); err != nil {
				log.Warn("journal incomplete", "session", rec.SessionID(), "error", err)
			}
		}()
		opts = append(opts, core.WithTracer(rec))
	}

	m, err := core.NewProgram(d.model(env{mode: detected.Mode}), opts...).Run()
	if err != nil {
		fmt.Fprintf(stderr, "ferment-demo: %v\n", err)
		return core.ExitCode(err)
	}
	if m != nil && d.report != nil {
		d.report(m, stdout)
	}
	return 0
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: ferment-demo [flags] [demo]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "demos:")
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, demos[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	fmt.Fprint(w, fs.FlagUsages())
}

var errNoJournal = errors.New("no journal configured: pass --journal or set FERMENT_JOURNAL_PATH")

func pruneJournal(ctx context.Context, w io.Writer, path string, keep int, log *slog.Logger) error {
	if path == "" {
		return errNoJournal
	}
	j, err := journal.Open(path, log)
	if err != nil {
		return err
	}
	defer j.Close()

	removed, err := j.Prune(ctx, keep)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "removed %d sessions\n", removed)
	return nil
}

func inspectJournal(ctx context.Context, w io.Writer, path, target string, log *slog.Logger) error {
	if path == "" {
		return errNoJournal
	}
	j, err := journal.Open(path, log)
	if err != nil {
		return err
	}
	defer j.Close()

	if target != "list" {
		return j.Dump(ctx, w, target)
	}
	sessions, err := j.Sessions(ctx, 20)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(w, "no sessions recorded")
		return nil
	}
	t := widgets.Table{Columns: []widgets.Column{
		{Title: "ID"},
		{Title: "Mode"},
		{Title: "Size", Align: widgets.AlignRight},
		{Title: "Started"},
		{Title: "Entries", Align: widgets.AlignRight},
		{Title: "Result"},
	}}
	for _, s := range sessions {
		result := "ok"
		switch {
		case s.EndedAt == nil:
			result = "running"
		case s.ExitError != nil:
			result = *s.ExitError
		}
		t.Rows = append(t.Rows, []string{
			s.ID,
			s.Mode,
			fmt.Sprintf("%dx%d", s.Width, s.Height),
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprint(s.Entries),
			result,
		})
	}
	for _, line := range t.Lines() {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return nil
}
