package thread

import (
	"regexp"
	"strings"
)

var parenSuffixRe = regexp.MustCompile(`\s*\([^)]*\)$`)

// normalizeOwner canonicalizes an owner name for comparison: the trailing
// parenthesized suffix ("X (Y)" becomes "X") is stripped, surrounding
// whitespace removed, and the result lowercased.
func normalizeOwner(name string) string {
	name = parenSuffixRe.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.ToLower(strings.TrimSpace(name))
}

// computeDerived fills the derived fields of a parsed document: entry
// count, last update, last title, and the has-new flag. The is-new mark
// is only ever assigned to the chronologically last entry.
func computeDerived(d *Document) {
	d.EntryCount = len(d.Entries)

	d.LastUpdate = d.Metadata["Created"]
	for i := len(d.Entries) - 1; i >= 0; i-- {
		if ts := d.Entries[i].Timestamp; ts != "" {
			d.LastUpdate = ts
			break
		}
	}

	d.LastTitle = ""
	for i := len(d.Entries) - 1; i >= 0; i-- {
		if t := d.Entries[i].Title; t != "" {
			d.LastTitle = t
			break
		}
	}

	d.HasNew = false
	for i := range d.Entries {
		d.Entries[i].IsNew = false
	}
	if len(d.Entries) == 0 {
		return
	}

	last := len(d.Entries) - 1
	author := normalizeOwner(d.Entries[last].Author)
	ball := normalizeOwner(d.Metadata["Ball"])
	closed := strings.EqualFold(strings.TrimSpace(d.Metadata["Status"]), "CLOSED")

	if author != "" && author != ball && !closed {
		d.HasNew = true
		d.Entries[last].IsNew = true
	}
}
