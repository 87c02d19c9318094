package main

import (
	"flag"
)

// interactiveArgs captures flags of the default interactive entrypoint.
type interactiveArgs struct {
	sessionFlags
	lines stringSlice
	file  string
}

func registerSessionFlags(fs *flag.FlagSet, s *sessionFlags) {
	s.delayMs = unsetDelay
	s.lineDelayMs = unsetDelay
	fs.StringVar(&s.cfgPath, "config", "", "Path to config file (default ~/.typewriter/config.toml)")
	fs.Var(&s.configOverrides, "c", "Override config value key=value (repeatable)")
	fs.IntVar(&s.delayMs, "delay", unsetDelay, "Delay per character in milliseconds")
	fs.IntVar(&s.lineDelayMs, "line-delay", unsetDelay, "Extra delay after each newline in milliseconds")
	fs.StringVar(&s.initial, "initial", "", "Text shown before typing starts")
	fs.BoolVar(&s.paused, "paused", false, "Start paused")
}

func newInteractiveFlagSet(name string) (*flag.FlagSet, *interactiveArgs) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	args := &interactiveArgs{}
	registerSessionFlags(fs, &args.sessionFlags)
	fs.Var(&args.lines, "line", "Initial line (repeatable)")
	fs.Var(&args.lines, "l", "Alias for --line")
	fs.StringVar(&args.file, "file", "", "Read initial lines from a file (- for stdin)")
	fs.StringVar(&args.file, "f", "", "Alias for --file")
	return fs, args
}

// finalizeFile treats a single positional argument as the file to type.
func (i *interactiveArgs) finalizeFile(fs *flag.FlagSet) {
	if i.file == "" && fs.NArg() > 0 {
		i.file = fs.Arg(0)
	}
}
