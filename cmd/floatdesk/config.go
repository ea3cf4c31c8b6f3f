package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/tui"
)

func printConfigUsage() {
	fmt.Fprintln(stderr, "Usage:")
	fmt.Fprintln(stderr, "  floatdesk config validate [--config PATH]")
	fmt.Fprintln(stderr, "  floatdesk config print [--config PATH] [--defaults]")
	fmt.Fprintln(stderr, "  floatdesk config explain [--config PATH] <yaml.path>")
	fmt.Fprintln(stderr, "  floatdesk config edit [--config PATH]")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage()
		return 2
	}

	switch args[0] {
	case "validate":
		fs := newFlagSet("validate", "Usage: floatdesk config validate [--config PATH]")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		if _, _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, "config: ok")
		return 0

	case "print":
		fs := newFlagSet("print", "Usage: floatdesk config print [--config PATH] [--defaults]")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		defaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}

		cfg := config.DefaultConfig()
		if !*defaults {
			res, _, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprint(stdout, string(data))
		return 0

	case "explain":
		fs := newFlagSet("explain", "Usage: floatdesk config explain [--config PATH] <yaml.path>")
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, _, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "path: %s\n", queryPath)
		fmt.Fprintf(stdout, "source: %s\n", src)
		fmt.Fprintf(stdout, "value:\n%s", string(out))
		return 0

	case "edit":
		fs := newFlagSet("edit",
			"Usage: floatdesk config edit [--config PATH]",
			"",
			"Edit common settings in a form. The result is written back as a",
			"single file; includes are flattened into it.",
		)
		path := fs.String("config", "", "Config file path (default: ~/.config/floatdesk/config.yaml)")
		if rc := parseFlags(fs, args[1:]); rc >= 0 {
			return rc
		}

		res, cfgPath, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		edited, save, err := tui.EditConfig(res.Config)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if !save {
			fmt.Fprintln(stdout, "config: unchanged")
			return 0
		}
		if err := config.Save(cfgPath, edited); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "config: saved %s\n", cfgPath)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
