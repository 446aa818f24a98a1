// Package main is the entry point for the tilestorm window manager.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dshills/tilestorm/internal/app"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	display    string
	configDirs []string
	logLevel   string
	debug      bool
	version    bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if cli.version {
		fmt.Printf("tilestorm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	log, err := app.NewLogger(app.LoggerConfig{Level: cli.logLevel, Development: cli.debug})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: creating logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting", zap.String("version", version), zap.String("commit", commit))

	application := app.New(app.Options{
		Display:    cli.display,
		ConfigDirs: cli.configDirs,
		Logger:     log,
	})
	defer func() {
		if err := application.Shutdown(); err != nil {
			log.Warn("shutdown", zap.Error(err))
		}
	}()

	err = application.Run(context.Background())
	switch {
	case err == nil, errors.Is(err, app.ErrQuit):
		log.Info("exiting")
		return 0
	default:
		log.Error("window manager stopped", zap.Error(err))
		return 1
	}
}

func parseFlags(args []string) (cliOptions, error) {
	var cli cliOptions

	fs := pflag.NewFlagSet("tilestorm", pflag.ContinueOnError)
	fs.StringVar(&cli.display, "display", "", "X display to manage (default $DISPLAY)")
	fs.StringSliceVarP(&cli.configDirs, "config-dir", "c", nil, "Configuration directory, repeatable (default XDG search path)")
	fs.StringVar(&cli.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.BoolVarP(&cli.debug, "debug", "d", false, "Human-readable development logging")
	fs.BoolVarP(&cli.version, "version", "v", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "tilestorm - tiling window manager for X11\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tilestorm [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return cli, err
	}
	if fs.NArg() > 0 {
		return cli, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if _, err := app.ParseLogLevel(cli.logLevel); err != nil {
		return cli, err
	}
	return cli, nil
}
