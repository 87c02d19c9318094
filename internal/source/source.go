// Package source produces target text for the typewriter engine from line
// lists, files, pipes and commands running under a pseudo terminal.
package source

import (
	"io"
	"os"
	"strings"
)

// Lines joins lines with '\n', the form the engine expects.
func Lines(lines []string) string {
	return strings.Join(lines, "\n")
}

// SplitLines is the inverse of Lines. An empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(Normalize(text), "\n")
}

// Normalize rewrites CRLF line endings to '\n'.
func Normalize(text string) string {
	if !strings.Contains(text, "\r\n") {
		return text
	}
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return Normalize(string(data)), nil
}

// ReadFile reads path; "-" reads stdin.
func ReadFile(path string) (string, error) {
	if path == "-" {
		return ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ReadAll(f)
}
