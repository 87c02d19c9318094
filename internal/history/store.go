package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultLimit caps how many entries Load returns when no limit is given.
const DefaultLimit = 500

var errNoPath = errors.New("history store path is empty")

// Entry is one submitted line or slash command, stored as a JSON line.
type Entry struct {
	Text   string    `json:"text"`
	TS     time.Time `json:"ts"`
	Engine string    `json:"engine,omitempty"`
}

// Store appends entries to a JSONL file shared by every interactive session.
type Store struct {
	Path  string
	Clock func() time.Time
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".typewriter", "history.jsonl"), nil
}

func NewDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: path}, nil
}

func (s *Store) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Append records text for the given engine. Blank text is ignored.
func (s *Store) Append(engineID, text string) error {
	if s == nil {
		return errors.New("history store is nil")
	}
	if strings.TrimSpace(s.Path) == "" {
		return errNoPath
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(Entry{Text: text, TS: s.now(), Engine: engineID})
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load returns the newest limit texts, oldest first. Malformed lines are
// skipped and a missing file yields no entries. limit <= 0 means DefaultLimit.
func (s *Store) Load(limit int) ([]string, error) {
	if s == nil {
		return nil, errors.New("history store is nil")
	}
	if strings.TrimSpace(s.Path) == "" {
		return nil, errNoPath
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var out []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if strings.TrimSpace(e.Text) == "" {
			continue
		}
		out = append(out, e.Text)
		if len(out) > limit {
			out = out[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
