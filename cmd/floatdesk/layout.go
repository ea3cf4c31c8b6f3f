package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/tui"
	"github.com/1broseidon/floatdesk/internal/workspace"
)

type layoutSummaryJSON struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Windows int       `json:"windows"`
}

func printLayoutUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  floatdesk layout list [--config PATH] [--json]      List saved layouts")
	fmt.Fprintln(stderr, "  floatdesk layout show [--config PATH] [--yaml] <name>  Print a saved layout")
	fmt.Fprintln(stderr, "  floatdesk layout delete [--config PATH] <name>      Delete a saved layout")
}

// storeFromFlag loads the config at path and opens its layout store.
func storeFromFlag(path string) (*workspace.Store, error) {
	res, _, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	return openStore(res.Config)
}

func runLayout(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printLayoutUsage()
		return 2
	}

	switch args[0] {
	case "list":
		fs := newFlagSet("list", "Usage: floatdesk layout list [--config PATH] [--json]")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		asJSON := fs.Bool("json", false, "Print JSON")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		store, err := storeFromFlag(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		summaries, err := store.List()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		if *asJSON {
			out := make([]layoutSummaryJSON, 0, len(summaries))
			for _, s := range summaries {
				out = append(out, layoutSummaryJSON{Name: s.Name, SavedAt: s.SavedAt, Windows: s.Windows})
			}
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			return 0
		}

		if len(summaries) == 0 {
			fmt.Fprintf(stdout, "no saved layouts in %s\n", store.Dir())
			return 0
		}
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tWINDOWS\tSAVED")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", s.Name, s.Windows, humanize.Time(s.SavedAt))
		}
		if err := tw.Flush(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0

	case "show":
		fs := newFlagSet("show", "Usage: floatdesk layout show [--config PATH] [--yaml] <name>")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		asYAML := fs.Bool("yaml", false, "Print YAML instead of JSON")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "layout show requires <name>")
			fs.Usage()
			return 2
		}
		store, err := storeFromFlag(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		layout, err := store.Load(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}

		if *asYAML {
			data, err := yaml.Marshal(layout)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			fmt.Fprint(stdout, string(data))
			return 0
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(layout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0

	case "delete":
		fs := newFlagSet("delete", "Usage: floatdesk layout delete [--config PATH] <name>")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "layout delete requires <name>")
			fs.Usage()
			return 2
		}
		name := fs.Arg(0)
		store, err := storeFromFlag(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := store.Delete(name); err != nil {
			if errors.Is(err, workspace.ErrNotFound) {
				fmt.Fprintf(stderr, "layout %q not found\n", name)
				return 1
			}
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "deleted layout %s\n", name)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown layout subcommand: %s\n", args[0])
		return 2
	}
}

func printArrangementUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  floatdesk arrangement list [--config PATH] [--count N]         List arrangements")
	fmt.Fprintln(stderr, "  floatdesk arrangement show [--config PATH] [--count N] <name>  Preview an arrangement")
}

func runArrangement(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printArrangementUsage()
		return 2
	}

	switch args[0] {
	case "list":
		fs := newFlagSet("list", "Usage: floatdesk arrangement list [--config PATH] [--count N]")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		count := fs.Int("count", 4, "Number of windows to summarize for")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		res, _, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg := res.Config

		names := make([]string, 0, len(cfg.Arrangements))
		for name := range cfg.Arrangements {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(stdout, "active: %s\n", cfg.Tiling.Arrangement)
		tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
		for _, name := range names {
			a := cfg.Arrangements[name]
			fmt.Fprintf(tw, "- %s\t%s\t%s\n", name, a.Mode, tui.SummarizeArrangement(a, *count, cfg.Tiling.Gap))
		}
		if err := tw.Flush(); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0

	case "show":
		fs := newFlagSet("show", "Usage: floatdesk arrangement show [--config PATH] [--count N] <name>")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		count := fs.Int("count", 4, "Number of windows to preview")
		width := fs.Int("width", 48, "Preview width in columns")
		height := fs.Int("height", 14, "Preview height in rows")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		if fs.NArg() > 1 {
			fs.Usage()
			return 2
		}
		res, _, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg := res.Config

		name := cfg.Tiling.Arrangement
		if fs.NArg() == 1 {
			name = fs.Arg(0)
		}
		a, ok := cfg.Arrangements[name]
		if !ok {
			fmt.Fprintf(stderr, "arrangement %q not found\n", name)
			return 1
		}
		printArrangement(name, a, *count, *width, *height, cfg.Tiling.Gap)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown arrangement subcommand: %s\n", args[0])
		return 2
	}
}

func printArrangement(name string, a config.Arrangement, count, width, height, gap int) {
	fmt.Fprintf(stdout, "%s (%s)\n", name, a.Mode)
	fmt.Fprintln(stdout, tui.SummarizeArrangement(a, count, gap))
	for _, line := range tui.PreviewArrangement(a, count, width, height) {
		fmt.Fprintln(stdout, line)
	}
}
