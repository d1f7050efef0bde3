package logger

import "testing"

func TestTruncateForLog(t *testing.T) {
	cases := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 5, "hello..."},
		{"trimmed", "  padded  ", 10, "padded"},
		{"zero limit", "hello", 0, ""},
		{"multibyte", "привет мир", 6, "привет..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateForLog(tc.input, tc.limit); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		for _, debug := range []bool{false, true} {
			if _, err := New(json, debug); err != nil {
				t.Fatalf("unexpected error for json=%v debug=%v: %v", json, debug, err)
			}
		}
	}
}
