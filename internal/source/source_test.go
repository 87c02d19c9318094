package source

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLines(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"one"}, "one"},
		{[]string{"Welcome, sir or madam", "Loading interface..........", "Started up successfully"}, "Welcome, sir or madam\nLoading interface..........\nStarted up successfully"},
		{[]string{"a", "", "b"}, "a\n\nb"},
	}
	for _, tc := range cases {
		if got := Lines(tc.in); got != tc.want {
			t.Fatalf("Lines(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	if got := SplitLines(""); got != nil {
		t.Fatalf("SplitLines(\"\") = %q, want nil", got)
	}
	got := SplitLines("a\r\nb\nc")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitLines = %q, want %q", got, want)
	}
}

func TestReadFileNormalizesCRLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.txt")
	if err := os.WriteFile(path, []byte("first\r\nsecond\r\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "first\nsecond\n" {
		t.Fatalf("ReadFile = %q", got)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("ReadFile of missing file should fail")
	}
}

func TestAccumulatorHoldsSplitCRLF(t *testing.T) {
	var seen []string
	acc := &accumulator{onOutput: func(s string) { seen = append(seen, s) }}
	for _, chunk := range []string{"ab\r", "\ncd", "\r", "\n"} {
		_, _ = acc.Write([]byte(chunk))
	}
	if got := acc.final(); got != "ab\ncd\n" {
		t.Fatalf("final() = %q", got)
	}
	for i := 1; i < len(seen); i++ {
		if !strings.HasPrefix(seen[i], seen[i-1]) {
			t.Fatalf("output %d (%q) does not extend %q", i, seen[i], seen[i-1])
		}
	}
	if len(seen) == 0 || seen[len(seen)-1] != "ab\ncd\n" {
		t.Fatalf("outputs = %q", seen)
	}
}

func TestCommandRunStreamsOutput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var last string
	out, err := Command{
		Shell:    "sh",
		OnOutput: func(s string) { last = s },
	}.Run(ctx, "echo one; echo two")
	if err != nil {
		if strings.Contains(err.Error(), "failed to start pty") {
			t.Skipf("pty unavailable: %v", err)
		}
		t.Fatalf("Run: %v (out=%q)", err, out)
	}
	if out != "one\ntwo\n" {
		t.Fatalf("Run output = %q", out)
	}
	if last != out {
		t.Fatalf("last OnOutput = %q, want %q", last, out)
	}
}

func TestCommandRunExitCode(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Command{Shell: "sh"}.Run(ctx, "exit 3")
	if err != nil && strings.Contains(err.Error(), "failed to start pty") {
		t.Skipf("pty unavailable: %v", err)
	}
	if code := ExitCode(err); code != 3 {
		t.Fatalf("ExitCode = %d, want 3 (err=%v)", code, err)
	}
	if _, err := (Command{}).Run(ctx, "  "); err == nil {
		t.Fatalf("empty command should fail")
	}
}
