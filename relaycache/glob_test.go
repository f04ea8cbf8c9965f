package relaycache

import "testing"

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern string
		key     string
		want    bool
	}{
		{"key*", "key123", true},
		{"key*", "ke1", false},
		{"key?", "key1", true},
		{"key?", "key12", false},
		{"key[1-2]", "key1", true},
		{"key[1-2]", "key3", false},
		{"key[^3]", "key3", false},
		{"key[^3]", "key4", true},
		{"key[a-c]", "keyb", true},
		{"key[a-c]", "keyz", false},
		{`h\*llo`, "h*llo", true},
		{`h\*llo`, "hello", false},
	}

	for _, tc := range cases {
		if got := matchGlob(tc.pattern, tc.key); got != tc.want {
			t.Errorf("matchGlob(%q, %q) = %v, want %v", tc.pattern, tc.key, got, tc.want)
		}
	}
}
