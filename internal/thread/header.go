package thread

import (
	"regexp"
	"sort"
	"strings"
)

// fieldRe is the shared field grammar for header and entry sub-header lines.
var fieldRe = regexp.MustCompile(`^([A-Za-z0-9 _-]+):\s*(.+)$`)

// preferredKeys is the canonical ordering for well-known header fields
// that were added after the document was first written.
var preferredKeys = []string{"Status", "Priority", "Ball", "Spec", "Topic", "Created"}

// parseHeader extracts the title, the field map, and the original key
// order from header lines. A leading "# ..." line sets the title,
// otherwise defaultTitle is used. Lines that do not match the field
// grammar are tolerated and skipped. fieldOrder records every match, so
// it may contain duplicates; dedup happens at render time.
func parseHeader(lines []string, defaultTitle string, dup DuplicatePolicy) (title string, meta map[string]string, fieldOrder []string) {
	title = defaultTitle
	meta = make(map[string]string)

	rest := lines
	if len(rest) > 0 && strings.HasPrefix(rest[0], "#") {
		if t := strings.TrimSpace(strings.TrimLeft(rest[0], "#")); t != "" {
			title = t
		}
		rest = rest[1:]
	}

	for _, line := range rest {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := fieldRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if _, exists := meta[key]; exists && dup == FirstWins {
			fieldOrder = append(fieldOrder, key)
			continue
		}
		meta[key] = value
		fieldOrder = append(fieldOrder, key)
	}

	return title, meta, fieldOrder
}

// renderHeader writes the title line and one "key: value" line per field
// with a non-blank value. Output order is the deduplicated original
// order, then any preferred key not yet emitted, then remaining keys
// sorted for determinism. Fields whose value trims to empty are omitted,
// which is how a field is deleted.
func renderHeader(title string, meta map[string]string, fieldOrder []string) string {
	seen := make(map[string]bool, len(meta))
	keys := make([]string, 0, len(meta))

	emit := func(k string) {
		if seen[k] {
			return
		}
		seen[k] = true
		keys = append(keys, k)
	}

	for _, k := range fieldOrder {
		emit(k)
	}
	for _, k := range preferredKeys {
		if _, ok := meta[k]; ok {
			emit(k)
		}
	}
	var remaining []string
	for k := range meta {
		if !seen[k] {
			remaining = append(remaining, k)
		}
	}
	sort.Strings(remaining)
	for _, k := range remaining {
		emit(k)
	}

	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n")
	for _, k := range keys {
		v := strings.TrimSpace(meta[k])
		if v == "" {
			continue
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}
