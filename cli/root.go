// Package cli wires the backup-tool command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"backup-tool/style"
)

const Version = "0.1.0"

// Options carries everything the command reads from its environment.
type Options struct {
	Home   string
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time

	// Color enables ANSI colors on Stderr, StatusColor on Stdout.
	Color       bool
	StatusColor bool
}

type flags struct {
	target   string
	include  []string
	exclude  []string
	keep     int
	minFree  string
	report   string
	schedule string
	verbose  bool
	quiet    bool
	noColor  bool
	pace     bool
}

type app struct {
	opts  Options
	flags flags
	log   *style.Logger
	out   *style.Printer
}

// usageError marks errors caused by a malformed command line.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func newApp(opts Options) *app {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &app{opts: opts}
	a.configure()
	return a
}

// configure (re)builds the logger and printer from the parsed flags.
func (a *app) configure() {
	level := style.LevelInfo
	switch {
	case a.flags.verbose:
		level = style.LevelDebug
	case a.flags.quiet:
		level = style.LevelWarning
	}
	logOpts := []style.Option{
		style.WithLevel(level),
		style.WithColor(a.opts.Color && !a.flags.noColor),
	}
	if a.flags.pace {
		logOpts = append(logOpts, style.WithPacer(style.RandomPace(50*time.Millisecond, 500*time.Millisecond)))
	}
	a.log = style.NewLogger(a.opts.Stderr, logOpts...)
	a.out = style.NewPrinter(a.opts.Stdout, a.opts.StatusColor && !a.flags.noColor)
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup-tool [-t target_dir] source_dir",
		Short: "Copy a directory tree into a timestamped backup directory",
		Long: `Copy source_dir into "<target>/Backup YYYY-MM-DD HH-MM-SS", keeping file permissions.

The target directory is read from ~/.config/backup_tool.conf and falls back
to /media/pi/piBackup. Use -t to store a new default target; that run does
not back anything up.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError{fmt.Errorf("expected one source_dir, got %d arguments", len(args))}
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.keep < 0 {
				return usageError{fmt.Errorf("--keep must not be negative, got %d", a.flags.keep)}
			}
			a.configure()
			return nil
		},
		RunE: a.run,
	}

	cmd.SetOut(a.opts.Stdout)
	cmd.SetErr(a.opts.Stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	f := cmd.Flags()
	f.StringVarP(&a.flags.target, "target", "t", "", "store `target_dir` as the default backup directory and exit")
	f.StringArrayVar(&a.flags.include, "include", nil, "only copy files matching this glob (repeatable)")
	f.StringArrayVarP(&a.flags.exclude, "exclude", "x", nil, "skip files and directories matching this glob (repeatable)")
	f.IntVar(&a.flags.keep, "keep", 0, "keep only the newest `N` backups in the target directory (0 keeps all)")
	f.StringVar(&a.flags.minFree, "min-free", "", "require this much free space on the target, e.g. 500mb or 2gb")
	f.StringVar(&a.flags.report, "report", "", "write a YAML report of the run to `file`")
	f.StringVar(&a.flags.schedule, "schedule", "", "run repeatedly on a cron schedule, e.g. \"0 3 * * *\"")
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "show debug output")
	f.BoolVarP(&a.flags.quiet, "quiet", "q", false, "only show warnings and errors")
	f.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	f.BoolVar(&a.flags.pace, "pace", false, "pause briefly before each log line")
	_ = f.MarkHidden("pace")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	return cmd
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, opts Options, args []string) int {
	a := newApp(opts)
	cmd := a.command()
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		a.log.Fatal("%v", err)
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(a.opts.Stderr, "Usage: %s\n", cmd.UseLine())
		}
		return 1
	}
	return 0
}

// Execute runs the CLI with the process stdio and environment.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := Options{
		Stdout:      style.Writer(os.Stdout),
		Stderr:      style.Writer(os.Stderr),
		Now:         time.Now,
		Color:       style.Terminal(os.Stderr),
		StatusColor: style.Terminal(os.Stdout),
	}

	home, err := os.UserHomeDir()
	if err != nil {
		style.NewLogger(opts.Stderr, style.WithColor(opts.Color)).Fatal("Cannot determine home directory: %v", err)
		return 1
	}
	opts.Home = home

	return Run(ctx, opts, os.Args[1:])
}
