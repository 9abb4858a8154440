package thread

import (
	"regexp"
	"strings"
)

// entryPrefix marks the first sub-header line of a genuine entry. A bare
// "---" only delimits entries when the next line carries this prefix;
// otherwise it is a horizontal rule inside an entry body and survives
// verbatim.
const entryPrefix = "Entry:"

// entryLineRe decomposes an Entry field value into author, optional
// parenthesized actor, and ISO-8601 timestamp.
var entryLineRe = regexp.MustCompile(
	`^(.+?)(?:\s+\((.+?)\))?\s+(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?)\s*$`)

// splitEntries partitions body text into entries using a two-token
// lookahead: a delimiter line plus a peek at the line after it. An empty
// body yields no entries.
func splitEntries(body string) []Entry {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	lines := strings.Split(body, "\n")
	var segments [][]string
	var current []string

	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" &&
			i+1 < len(lines) && strings.HasPrefix(lines[i+1], entryPrefix) {
			segments = append(segments, current)
			current = nil
			continue
		}
		current = append(current, lines[i])
	}
	segments = append(segments, current)

	var entries []Entry
	for _, seg := range segments {
		if blank(seg) {
			continue
		}
		entries = append(entries, parseEntry(seg))
	}
	return entries
}

// parseEntry reads a contiguous run of field-grammar lines from the top
// of the segment as the entry sub-header; everything after the first
// blank or non-matching line is body.
func parseEntry(lines []string) Entry {
	e := Entry{Metadata: make(map[string]string)}

	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			break
		}
		m := fieldRe.FindStringSubmatch(line)
		if m == nil {
			break
		}
		e.Metadata[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
		i++
	}
	e.Body = strings.TrimSpace(strings.Join(lines[i:], "\n"))

	if v, ok := e.Metadata["Entry"]; ok {
		if m := entryLineRe.FindStringSubmatch(v); m != nil {
			e.Author = strings.TrimSpace(m[1])
			e.Actor = m[2]
			e.Timestamp = m[3]
		} else {
			e.Author = v
		}
	}
	e.Title = e.Metadata["Title"]
	e.Role = e.Metadata["Role"]
	e.Type = e.Metadata["Type"]
	return e
}

func blank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return false
		}
	}
	return true
}
