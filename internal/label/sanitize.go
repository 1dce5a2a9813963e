// Package label sanitizes metric and label names into valid Prometheus
// identifiers and parses the bracketed `[k=v]` label syntax used by
// OpenConfig subscription paths.
package label

import "strings"

// Sanitize rewrites a raw metric or label name into a valid Prometheus
// identifier: "-" becomes "_", "/" becomes "__".
func Sanitize(name string) string {
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, "/", "__")
	return name
}

// Pair is one extracted `[k=v]` bracket capture, in left-to-right match
// order.
type Pair struct {
	Key   string
	Value string
}

// ExtractBrackets scans s for `[k=v]` occurrences and returns them in
// left-to-right appearance order. Bracket content is split on the first "=",
// with both sides stripped of surrounding single quotes and "-" rewritten to
// "_" on both sides. "/" inside the value is left untouched (see spec.md §9
// open question 2 — e.g. "et-0/0/8" becomes "et_0/0/8", not "et_0__0__8").
func ExtractBrackets(s string) []Pair {
	var pairs []Pair

	for {
		start := strings.IndexByte(s, '[')
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start:], ']')
		if end < 0 {
			break
		}
		end += start

		content := s[start+1 : end]
		s = s[end+1:]

		eq := strings.IndexByte(content, '=')
		if eq < 0 {
			continue
		}

		k := strings.Trim(strings.TrimSpace(content[:eq]), "'")
		v := strings.Trim(strings.TrimSpace(content[eq+1:]), "'")
		k = strings.ReplaceAll(k, "-", "_")
		v = strings.ReplaceAll(v, "-", "_")

		pairs = append(pairs, Pair{Key: k, Value: v})
	}

	return pairs
}

// StripBrackets removes every `[...]` occurrence from s (brackets and
// content), leaving the surrounding path intact.
func StripBrackets(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
