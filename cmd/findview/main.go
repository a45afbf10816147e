// Package main is the entry point for the findview editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/calebmartin/findview/internal/app"
	"github.com/calebmartin/findview/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}

	// Ensure the terminal is restored on all exit paths.
	defer application.Shutdown()

	// Signals request a clean quit through the event loop rather than
	// tearing the terminal down underneath it.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Quit()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() app.Options {
	var opts app.Options
	var showVersion bool

	flag.BoolVar(&opts.Gutter, "gutter", true, "Show the line-number gutter")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "findview - search and highlight viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: findview [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-F  open the find bar    Esc     close it\n")
		fmt.Fprintf(os.Stderr, "  Enter   next match           F3      next match\n")
		fmt.Fprintf(os.Stderr, "  Alt-C   match case           Alt-W   whole word\n")
		fmt.Fprintf(os.Stderr, "  Alt-R   regular expression   Ctrl-L  reformat\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-S  save                 Ctrl-Q  quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("findview %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.Path = args[0]
	}
	return opts
}
