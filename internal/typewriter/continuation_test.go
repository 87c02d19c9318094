package typewriter

import (
	"strings"
	"testing"
)

func TestIsBeingAppended(t *testing.T) {
	long := strings.Repeat("a", 150)
	cases := []struct {
		name     string
		existing string
		next     string
		want     bool
	}{
		{name: "empty existing", existing: "", next: "anything", want: true},
		{name: "both empty", existing: "", next: "", want: true},
		{name: "equal", existing: "Hello", next: "Hello", want: true},
		{name: "appended", existing: "Hello", next: "Hello, world", want: true},
		{name: "different", existing: "Hello", next: "Goodbye", want: false},
		{name: "shorter", existing: "Hello", next: "Hell", want: false},
		{name: "short existing long next mismatch", existing: "abc", next: "abd" + long, want: false},
		{name: "long bounded match", existing: long, next: strings.Repeat("a", 100) + strings.Repeat("b", 60), want: true},
		{name: "long mismatch in first 100", existing: long, next: "b" + strings.Repeat("a", 200), want: false},
		{name: "existing long next exactly 100", existing: long, next: strings.Repeat("a", 100), want: false},
		{name: "unicode appended", existing: "héllo", next: "héllo wörld", want: true},
		{name: "unicode mismatch", existing: "héllo", next: "hello wörld", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isBeingAppended(tc.existing, tc.next); got != tc.want {
				t.Fatalf("isBeingAppended(%q, %q) = %v, want %v", tc.existing, tc.next, got, tc.want)
			}
		})
	}
}

func TestIsBeingAppendedCountsCharacters(t *testing.T) {
	// 101 characters but more than 101 bytes; the bound is in characters.
	existing := strings.Repeat("é", 101)
	next := strings.Repeat("é", 100) + "x" + strings.Repeat("y", 10)
	if !isBeingAppended(existing, next) {
		t.Fatalf("first 100 characters match, want append")
	}
}

func TestHeadAndSkipRunes(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		head string
		tail string
	}{
		{in: "", n: 0, head: "", tail: ""},
		{in: "abc", n: 0, head: "", tail: "abc"},
		{in: "abc", n: 2, head: "ab", tail: "c"},
		{in: "abc", n: 3, head: "abc", tail: ""},
		{in: "abc", n: 5, head: "abc", tail: ""},
		{in: "héllo", n: 2, head: "hé", tail: "llo"},
	}
	for _, tc := range cases {
		if got := headRunes(tc.in, tc.n); got != tc.head {
			t.Fatalf("headRunes(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.head)
		}
		if got := skipRunes(tc.in, tc.n); got != tc.tail {
			t.Fatalf("skipRunes(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.tail)
		}
	}
}
