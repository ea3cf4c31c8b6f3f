package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/tui"
	"github.com/1broseidon/floatdesk/internal/workspace"
	"github.com/1broseidon/floatdesk/internal/x11"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesk(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "arrangement":
		os.Exit(runArrangement(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: floatdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the desk (terminal or X11)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config edit         Edit configuration in a form")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout list         List saved layouts")
	fmt.Fprintln(w, "  layout show         Show a saved layout")
	fmt.Fprintln(w, "  layout delete       Delete a saved layout")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrangement list    List tiling arrangements")
	fmt.Fprintln(w, "  arrangement show    Preview a tiling arrangement")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'floatdesk <command> --help' for command-specific options.")
}

// parseFlags parses args and maps the outcome to an exit code: -1 to
// continue, 0 for --help, 2 for a usage error.
func parseFlags(fs *flag.FlagSet, args []string) int {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	return -1
}

func newFlagSet(name string, usage ...string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		for _, line := range usage {
			fmt.Fprintln(stderr, line)
		}
		if len(usage) > 0 {
			fmt.Fprintln(stderr, "")
		}
		fs.PrintDefaults()
	}
	return fs
}

// loadConfig loads path, or the default config file when path is empty.
// It returns the path that was used.
func loadConfig(path string) (*config.LoadResult, string, error) {
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	return res, path, nil
}

func openStore(cfg *config.Config) (*workspace.Store, error) {
	dir, err := cfg.StoreDir()
	if err != nil {
		return nil, err
	}
	return workspace.NewStore(dir), nil
}

// newLogger writes to the configured log file. The terminal belongs to the
// desk while it runs, so nothing is logged to stderr.
func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	path, err := cfg.LogFile()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	return slog.New(handler), f, nil
}

func runDesk(args []string) int {
	fs := newFlagSet("run",
		"Usage: floatdesk run [--backend tui|x11] [--config PATH] [--layout NAME]",
		"",
		"Open the desk. The terminal backend draws windows with the mouse in",
		"the current terminal; the x11 backend opens a window on $DISPLAY.",
	)
	backend := fs.String("backend", "tui", "Backend: tui or x11")
	path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
	layout := fs.String("layout", "", "Layout to restore at start and save on quit (default: store.autosave_name)")
	if rc := parseFlags(fs, args); rc >= 0 {
		return rc
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}
	if *backend != "tui" && *backend != "x11" {
		fmt.Fprintf(stderr, "unknown backend %q (want tui or x11)\n", *backend)
		return 2
	}
	if *layout != "" {
		if err := workspace.ValidateName(*layout); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	res, cfgPath, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg := res.Config

	logger, closer, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer closer.Close()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting desk", "backend", *backend, "config", cfgPath, "store", store.Dir())
	if *backend == "x11" {
		err = x11.Run(ctx, x11.Options{
			Config: cfg,
			Store:  store,
			Layout: *layout,
			Logger: logger,
		})
	} else {
		err = tui.Run(ctx, tui.Options{
			Config:      cfg,
			ConfigPath:  cfgPath,
			ConfigFiles: res.Files,
			Store:       store,
			Layout:      *layout,
			Logger:      logger,
		})
	}
	if err != nil {
		logger.Error("desk exited", "error", err)
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger.Info("desk closed")
	return 0
}
