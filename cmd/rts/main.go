package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"git.sr.ht/~sircmpwn/getopt"

	"github.com/miruji/RTS-sub000/pkg/driver"
	"github.com/miruji/RTS-sub000/pkg/interpreter"
)

const cliToolVersion = "rts 0.1.0"

var errUsage = errors.New("invalid usage")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	c := &cli{stdout: os.Stdout, stderr: os.Stderr}
	return c.run(ctx, args)
}

// cli holds the streams a command writes to.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	debug  bool
	logger *slog.Logger
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "--help", "-h", "help":
			c.printUsage()
			return 0
		case "--version", "-V", "version":
			fmt.Fprintln(c.stdout, cliToolVersion)
			return 0
		}
	}

	opts, optind, err := getopt.Getopts(append([]string{"rts"}, args...), "de:")
	if err != nil {
		fmt.Fprintf(c.stderr, "rts: %v\n", err)
		c.printUsage()
		return 1
	}
	remaining := args[optind-1:]

	var (
		script  string
		hasEval bool
	)
	for _, opt := range opts {
		switch opt.Option {
		case 'd':
			c.debug = true
		case 'e':
			script = opt.Value
			hasEval = true
		}
	}
	c.logger = c.newLogger()

	if hasEval {
		return c.finish(driver.Run(ctx, []byte(script), c.runOptions(remaining)))
	}
	if len(remaining) == 0 {
		c.printUsage()
		return 1
	}

	switch remaining[0] {
	case "run":
		return c.finish(c.runEntry(ctx, remaining[1:]))
	case "repl":
		return c.finish(c.runRepl(ctx))
	case "watch":
		return c.finish(c.runWatch(ctx, remaining[1:]))
	case "new":
		return c.finish(c.runNew(remaining[1:]))
	case "delete":
		return c.finish(c.runDelete(remaining[1:]))
	case "deps":
		return c.finish(c.runDeps(ctx, remaining[1:]))
	default:
		return c.finish(c.runEntry(ctx, remaining))
	}
}

func (c *cli) newLogger() *slog.Logger {
	if !c.debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(c.stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func (c *cli) runOptions(args []string) driver.RunOptions {
	return driver.RunOptions{
		Args:   args,
		Stdout: c.stdout,
		Logger: c.logger,
		Debug:  c.debug,
	}
}

// runEntry runs the given script, or the manifest entry point when no path
// is given.
func (c *cli) runEntry(ctx context.Context, args []string) error {
	path, rest, err := entryPath(args)
	if err != nil {
		return err
	}
	return driver.RunFile(ctx, path, c.runOptions(rest))
}

func entryPath(args []string) (string, []string, error) {
	if len(args) > 0 {
		return args[0], args[1:], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	manifest, err := loadManifestFrom(cwd)
	if err != nil {
		return "", nil, err
	}
	return manifest.MainPath(), nil, nil
}

func loadManifestFrom(dir string) (*driver.Manifest, error) {
	path, err := driver.FindManifest(dir)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(path)
}

func (c *cli) runNew(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("new: expected a package name: %w", errUsage)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	root, err := driver.NewPackage(cwd, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "created %s\n", root)
	return nil
}

func (c *cli) runDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete: expected a package name: %w", errUsage)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	if err := driver.DeletePackage(cwd, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "deleted %s\n", args[0])
	return nil
}

func (c *cli) runDeps(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != "install" && args[0] != "update") {
		return fmt.Errorf("deps: expected install or update: %w", errUsage)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	manifest, err := loadManifestFrom(cwd)
	if err != nil {
		return err
	}
	cacheDir, err := driver.CacheDir()
	if err != nil {
		return err
	}
	lock, err := driver.Install(ctx, manifest, driver.InstallOptions{
		CacheDir: cacheDir,
		Tool:     cliToolVersion,
		Update:   args[0] == "update",
		Logger:   c.logger,
	})
	if err != nil {
		return err
	}
	for _, pkg := range lock.Packages {
		fmt.Fprintf(c.stdout, "%s %s\n", pkg.Name, pkg.Version)
	}
	return nil
}

// finish maps a command error onto a process status.
func (c *cli) finish(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := interpreter.ExitCodeFromError(err); ok {
		return code
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	fmt.Fprintf(c.stderr, "rts: %v\n", err)
	if errors.Is(err, errUsage) {
		c.printUsage()
	}
	return 1
}
