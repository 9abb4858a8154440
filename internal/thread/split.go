package thread

import "strings"

// splitDocument separates raw text into header lines and body text. Every
// line up to the first bare "---" belongs to the header; the delimiter
// line itself is consumed. Without a delimiter the whole text is header.
// This stage cannot fail.
func splitDocument(raw string) (headerLines []string, body string) {
	lines := strings.Split(raw, "\n")

	delim := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			delim = i
			break
		}
	}

	header := lines
	var rest []string
	if delim >= 0 {
		header = lines[:delim]
		rest = lines[delim+1:]
	}

	// Trailing blank header lines carry no fields.
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}

	// A duplicated delimiter would otherwise produce a phantom empty
	// first entry.
	for len(rest) > 0 && strings.TrimSpace(rest[0]) == "---" {
		rest = rest[1:]
	}

	return header, strings.Join(rest, "\n")
}
