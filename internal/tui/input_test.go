package tui

import (
	"strings"
	"testing"
)

func TestEditRuneAddCharacters(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   string
		want  string
	}{
		{"append to empty", "", "a", "a"},
		{"append letter", "hel", "l", "hell"},
		{"append digit", "abc", "1", "abc1"},
		{"append space", "hello", " ", "hello "},
		{"named space key", "hello", "space", "hello "},
		{"append special", "a", "@", "a@"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, tc.key)
			if got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key, got, tc.want)
			}
		})
	}
}

func TestEditRuneBackspace(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"single char", "a", ""},
		{"longer string", "hello", "hell"},
		{"empty does nothing", "", ""},
		{"multi-byte rune", "hellé", "hell"},
		{"emoji", "hello\U0001f600", "hello"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := editRune(tc.start, "backspace")
			if got != tc.want {
				t.Errorf("editRune(%q, backspace) = %q, want %q", tc.start, got, tc.want)
			}
		})
	}
}

func TestEditRuneIgnoresNonPrintableKeys(t *testing.T) {
	for _, key := range []string{"enter", "esc", "up", "down", "ctrl+c", "ctrl+s", "tab", "shift+tab", "f1", "pgup"} {
		t.Run(key, func(t *testing.T) {
			if got := editRune("hello", key); got != "hello" {
				t.Errorf("editRune(hello, %q) = %q, want unchanged", key, got)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	atLimit := strings.Repeat("a", maxInputLen)
	if got := editRune(atLimit, "b"); got != atLimit {
		t.Errorf("editRune at limit accepted a rune: len=%d", len([]rune(got)))
	}
	below := strings.Repeat("a", maxInputLen-1)
	if got := editRune(below, "b"); got != below+"b" {
		t.Error("editRune below limit should accept a rune")
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		name   string
		s      string
		maxLen int
		want   string
	}{
		{"under limit", "hello", 10, "hello"},
		{"at limit", "hello", 5, "hello"},
		{"over limit", "hello world", 5, "hell…"},
		{"empty string", "", 5, ""},
		{"zero width", "hello", 0, ""},
		{"CJK chars", "你好世界", 3, "你好…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncStr(tt.s, tt.maxLen); got != tt.want {
				t.Errorf("truncStr(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateToHeight(t *testing.T) {
	input := "line1\nline2\nline3\nline4\nline5\n"

	got := truncateToHeight(input, 3)
	if strings.Count(got, "\n") > 3 || strings.Contains(got, "line4") {
		t.Errorf("truncateToHeight(5 lines, 3) = %q", got)
	}
	if got := truncateToHeight(input, 10); got != input {
		t.Errorf("within limit should be unchanged, got %q", got)
	}
	if got := truncateToHeight(input, 0); got != input {
		t.Errorf("maxLines=0 should be unchanged, got %q", got)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight should not cut, got %q", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a.png, ,b.jpg ,")
	if len(got) != 2 || got[0] != "a.png" || got[1] != "b.jpg" {
		t.Errorf("splitList = %v", got)
	}
}
