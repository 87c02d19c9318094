package main

import (
	"context"
	"flag"
	"io"
	"strings"

	"typewriter-cli/internal/logger"
	"typewriter-cli/internal/render"
	"typewriter-cli/internal/source"
	"typewriter-cli/internal/typewriter"
)

// runExec runs a command under a pty and types its output while it grows.
func runExec(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("exec", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var flags sessionFlags
	var workdir string
	var shell string
	registerSessionFlags(fs, &flags)
	fs.StringVar(&workdir, "cd", "", "Working directory for the command")
	fs.StringVar(&workdir, "C", "", "Alias for --cd")
	fs.StringVar(&shell, "shell", "bash", "Shell used to run the command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	command := strings.Join(fs.Args(), " ")

	_, engineCfg, err := loadRuntimeConfig(root, &flags)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()
	return typeCommand(ctx, engineCfg, source.Command{Shell: shell, Workdir: workdir}, command, out)
}

func typeCommand(ctx context.Context, cfg typewriter.Config, cmd source.Command, command string, out io.Writer) error {
	sw := render.NewStreamWriter(out)
	idle := make(chan struct{}, 1)
	engine, err := typewriter.New(cfg, "", typewriter.Options{
		Running: true,
		OnEmit: func(st typewriter.State) {
			sw.Emit(st)
			if st.Done() {
				select {
				case idle <- struct{}{}:
				default:
				}
			}
		},
	})
	if err != nil {
		return err
	}
	defer engine.Close()
	log := logger.ForEngine("exec", engine.ID())

	cmd.OnOutput = func(text string) {
		engine.SetTargetText(text)
		engine.SetRunning(true)
	}
	engine.Start(ctx)
	output, runErr := cmd.Run(ctx, command)
	log.WithField("bytes", len(output)).WithField("exit_code", source.ExitCode(runErr)).Info("command finished")

	// keep typing until the whole output is shown
	for !engine.State().Done() {
		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := sw.Err(); err != nil {
		return err
	}
	return runErr
}
