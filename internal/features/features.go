package features

// Stage is the lifecycle bucket of a feature flag.
type Stage string

const (
	StageStable       Stage = "stable"
	StageBeta         Stage = "beta"
	StageExperimental Stage = "experimental"
)

// Spec describes a feature flag exposed by the CLI.
type Spec struct {
	Key            string
	Stage          Stage
	DefaultEnabled bool
	Description    string
}

const (
	Cursor     = "cursor"
	Mouse      = "mouse"
	AltScreen  = "alt_screen"
	StatusLine = "status_line"
	History    = "history"
)

// Specs lists every toggle of the interactive surface.
var Specs = []Spec{
	{Key: Cursor, Stage: StageStable, DefaultEnabled: true, Description: "draw a cursor after the typed text while running"},
	{Key: Mouse, Stage: StageStable, DefaultEnabled: true, Description: "scroll the pane with the mouse wheel"},
	{Key: AltScreen, Stage: StageStable, DefaultEnabled: true, Description: "run the TUI on the alternate screen"},
	{Key: StatusLine, Stage: StageBeta, DefaultEnabled: true, Description: "show progress and elapsed time under the pane"},
	{Key: History, Stage: StageBeta, DefaultEnabled: true, Description: "remember submitted lines across sessions"},
}

var known = func() map[string]Spec {
	m := make(map[string]Spec, len(Specs))
	for _, spec := range Specs {
		m[spec.Key] = spec
	}
	return m
}()

// IsKnown reports whether the feature key is recognized.
func IsKnown(key string) bool {
	_, ok := known[key]
	return ok
}

// StageFor returns the lifecycle stage for a feature, defaulting to experimental.
func StageFor(key string) Stage {
	if spec, ok := known[key]; ok {
		return spec.Stage
	}
	return StageExperimental
}

// DefaultEnabled reports the default value for the given feature key.
func DefaultEnabled(key string) bool {
	if spec, ok := known[key]; ok {
		return spec.DefaultEnabled
	}
	return false
}

// Resolve returns the effective value of key given explicit overrides.
func Resolve(key string, overrides map[string]bool) bool {
	if v, ok := overrides[key]; ok {
		return v
	}
	return DefaultEnabled(key)
}
