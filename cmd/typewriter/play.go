package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"typewriter-cli/internal/render"
	"typewriter-cli/internal/source"
	"typewriter-cli/internal/typewriter"
)

// runPlay types a file (or stdin) to out and returns when it is fully shown.
func runPlay(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var flags sessionFlags
	registerSessionFlags(fs, &flags)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := "-"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	_, engineCfg, err := loadRuntimeConfig(root, &flags)
	if err != nil {
		return err
	}
	var text string
	if path == "-" {
		text, err = source.ReadAll(os.Stdin)
	} else {
		text, err = source.ReadFile(path)
	}
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := render.Play(ctx, engineCfg, text, out, typewriter.Options{}); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}
