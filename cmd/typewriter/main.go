package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"typewriter-cli/internal/config"
	"typewriter-cli/internal/editor"
	"typewriter-cli/internal/events"
	"typewriter-cli/internal/history"
	"typewriter-cli/internal/logger"
	"typewriter-cli/internal/source"
	"typewriter-cli/internal/tui"
	"typewriter-cli/internal/typewriter"

	"github.com/google/uuid"
)

var log = logger.Named("cli")

// defaultLines greet the user when no file or --line is given.
var defaultLines = []string{
	"Welcome, sir or madam",
	"Loading interface..........",
	"Started up successfully",
}

func main() {
	logger.Configure()

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		exitOnError("parse args", err)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "play":
			exitOnError("play", runPlay(root, rest[1:], os.Stdout))
			return
		case "exec":
			exitOnError("exec", runExec(root, rest[1:], os.Stdout))
			return
		case "config":
			exitOnError("config", runConfig(root, rest[1:], os.Stdout))
			return
		case "features":
			exitOnError("features", runFeatures(root, rest[1:], os.Stdout))
			return
		}
	}

	exitOnError("interactive", runInteractive(root, rest))
}

// exitOnError reports err on stderr as well as the log, because the log may
// be redirected to a file while the TUI owns the terminal.
func exitOnError(what string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	log.Errorf("%s: %v", what, err)
	fmt.Fprintf(os.Stderr, "typewriter %s: %v\n", what, err)
	os.Exit(1)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runInteractive(root rootArgs, args []string) error {
	fs, cli := newInteractiveFlagSet("typewriter")
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cli.finalizeFile(fs)

	cfg, engineCfg, err := loadRuntimeConfig(root, &cli.sessionFlags)
	if err != nil {
		return err
	}
	text, err := initialText(cli, os.Stdin)
	if err != nil {
		return err
	}

	if logFile, path, err := logger.SetupFile(cfg.LogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
		log.Infof("logging to %s", path)
	}

	ctx, cancel := signalContext()
	defer cancel()

	bus := events.NewBus()
	defer bus.Close()
	id := uuid.NewString()
	engine, err := typewriter.New(engineCfg, text, typewriter.Options{
		ID:      id,
		Running: cfg.StartRunning,
		OnEmit:  bus.Emitter(id),
	})
	if err != nil {
		return err
	}
	defer engine.Close()
	elog := logger.ForEngine("cli", id)
	ed := editor.New(engine, text, editor.Options{
		Running: cfg.StartRunning,
		OnLinesChanged: func(lines string) {
			elog.Debugf("lines changed (%d bytes)", len(lines))
		},
		OnRunningChanged: func(running bool) {
			elog.Infof("running=%v", running)
		},
	})
	engine.Start(ctx)

	store, err := history.NewDefault()
	if err != nil {
		log.Warnf("history disabled: %v", err)
	}
	res, err := tui.Run(tui.Options{
		Engine:   engine,
		Editor:   ed,
		Bus:      bus,
		Style:    cfg.Style,
		History:  store,
		Features: cfg.Features,
	})
	if err != nil {
		return fmt.Errorf("program exit: %w", err)
	}
	log.Infof("session ended with %d lines", len(source.SplitLines(res.Lines)))
	return nil
}

// initialText picks the first configured source: a file, --line values, or
// the welcome lines.
func initialText(cli *interactiveArgs, stdin io.Reader) (string, error) {
	switch {
	case cli.file == "-":
		return source.ReadAll(stdin)
	case cli.file != "":
		return source.ReadFile(cli.file)
	case len(cli.lines) > 0:
		return source.Lines(cli.lines), nil
	default:
		return source.Lines(defaultLines), nil
	}
}

func runConfig(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var flags sessionFlags
	registerSessionFlags(fs, &flags)
	if err := fs.Parse(args); err != nil {
		return err
	}
	action := "show"
	if fs.NArg() > 0 {
		action = fs.Arg(0)
	}
	cfg, _, err := loadRuntimeConfig(root, &flags)
	if err != nil {
		return err
	}
	switch action {
	case "show":
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	case "save":
		path := cfg.Source
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "saved %s\n", path)
		return err
	case "path":
		_, err := fmt.Fprintln(out, cfg.Source)
		return err
	default:
		return fmt.Errorf("unknown config action %q (want show|save|path)", action)
	}
}
