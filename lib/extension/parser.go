package extension

import "strings"

// Parse matches driver-advertised extension tokens against the
// capability table. Drivers before GL 3.0 hand over one big
// space-separated string, newer ones a per-index list; each input
// element is therefore split on whitespace so both shapes work.
// Unknown tokens are skipped: a future driver advertising extensions
// we have never heard of must not break detection. Duplicate tokens
// collapse, the result is a set.
func Parse(announced []string) Set {
	var s Set
	for _, chunk := range announced {
		for _, token := range strings.Fields(chunk) {
			if i, ok := FromName(token); ok {
				s.Add(i)
			}
		}
	}
	return s
}

// Normalize splits the announced extension strings into individual
// tokens, preserving the driver's order and keeping unknown tokens.
func Normalize(announced []string) []string {
	var out []string
	for _, chunk := range announced {
		out = append(out, strings.Fields(chunk)...)
	}
	return out
}
