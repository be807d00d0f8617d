package diag

import "strings"

// Interpolate replaces every `{{ key }}` placeholder in template with
// data[key]. Unknown keys become the empty string; unterminated braces are
// copied as is.
func Interpolate(template string, data map[string]string) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	rest := template
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closeIdx := strings.Index(rest[open+2:], "}}")
		if closeIdx < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		key := strings.TrimSpace(rest[open+2 : open+2+closeIdx])
		b.WriteString(data[key])
		rest = rest[open+2+closeIdx+2:]
	}
	return b.String()
}
