package relaycache

import (
	"regexp"
	"strings"
)

// globToRegexp translates the glob grammar from spec.md §4.1 ("Glob→regex
// semantics") into an anchored regexp: `*`, `?`, `[abc]`, `[^abc]`/`[!abc]`,
// with `\*`, `\?`, `\[`, `\]` treated as escaped literals.
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && isGlobMeta(runes[i+1]):
			sb.WriteString(regexp.QuoteMeta(string(runes[i+1])))
			i++
		case r == '*':
			sb.WriteString(".*")
		case r == '?':
			sb.WriteString(".")
		case r == '[':
			j := i + 1
			negate := false
			if j < len(runes) && (runes[j] == '^' || runes[j] == '!') {
				negate = true
				j++
			}
			start := j
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// unterminated class: treat '[' as a literal
				sb.WriteString(regexp.QuoteMeta("["))
				continue
			}
			class := string(runes[start:j])
			sb.WriteString("[")
			if negate {
				sb.WriteString("^")
			}
			sb.WriteString(class)
			sb.WriteString("]")
			i = j
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")

	return regexp.Compile(sb.String())
}

func isGlobMeta(r rune) bool {
	switch r {
	case '*', '?', '[', ']', '\\':
		return true
	default:
		return false
	}
}

// matchGlob reports whether key matches pattern per globToRegexp's grammar.
func matchGlob(pattern, key string) bool {
	re, err := globToRegexp(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(key)
}
