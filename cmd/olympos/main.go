// Olympos is a tick-based tactical simulation played on a grid.
// Usage: olympos [--version] [--plain] [--script <file>] [--trace] [--config <file>] [scenario.lua]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nathoo/olympos/cli"
	"github.com/nathoo/olympos/config"
	"github.com/nathoo/olympos/engine"
	"github.com/nathoo/olympos/loader"
	"github.com/nathoo/olympos/logging"
	"github.com/nathoo/olympos/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: olympos [--version] [--plain] [--script <file>] [--trace] [--config <file>] [scenario.lua]"

func main() {
	plain := false
	trace := false
	configPath := "olympos.yaml"
	explicitConfig := false
	var scenario string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("olympos %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--config":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a file path\n", args[i])
				os.Exit(1)
			}
			if args[i] == "--script" {
				scriptFile = args[i+1]
			} else {
				configPath = args[i+1]
				explicitConfig = true
			}
			i++
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			if scenario == "" {
				scenario = args[i]
			}
		}
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) && !explicitConfig {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if scenario != "" {
		cfg.Scenario = scenario
	}

	interactive := scriptFile == "" && !plain && isTerminal()

	// The full-screen UI owns the terminal: logs go to the configured
	// file or nowhere.
	var fallback io.Writer = os.Stderr
	if interactive {
		fallback = io.Discard
	}
	log, closer, err := logging.New(cfg.Log, fallback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	defs, err := loader.LoadDefs(cfg.Abilities, cfg.Behaviors, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading definitions: %v\n", err)
		os.Exit(1)
	}
	sc, err := loader.LoadScenario(cfg.Scenario, defs, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}
	eng, err := engine.NewFromScenario(defs, sc, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building world: %v\n", err)
		os.Exit(1)
	}
	eng.EventRange = cfg.EventRange

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	if !interactive {
		c := cli.New(eng)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(eng, cfg.TickInterval()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
