package thread

import "strings"

// TitleKey is the special update key that changes the document title
// instead of a metadata field.
const TitleKey = "Title"

// uppercaseKeys are the fields whose values are forced to upper case on
// update. No other value validation is performed.
var uppercaseKeys = map[string]bool{"Status": true, "Priority": true}

// Rewrite applies a partial metadata update to raw document text and
// returns the full replacement text. A nil or blank value removes the
// field (the renderer skips blank values); non-blank values are trimmed
// and stored, with the key appended to the field order when new. The
// body is carried over byte-for-byte apart from outer trimming and a
// single trailing newline; entries are never touched.
func (p Parser) Rewrite(raw []byte, defaultTitle string, updates map[string]*string) []byte {
	headerLines, body := splitDocument(string(raw))
	title, meta, order := parseHeader(headerLines, defaultTitle, p.Duplicates)

	for key, val := range updates {
		if key == TitleKey {
			if val != nil && strings.TrimSpace(*val) != "" {
				title = strings.TrimSpace(*val)
			}
			continue
		}
		if val == nil || strings.TrimSpace(*val) == "" {
			delete(meta, key)
			continue
		}
		v := strings.TrimSpace(*val)
		if uppercaseKeys[key] {
			v = strings.ToUpper(v)
		}
		meta[key] = v
		if !containsKey(order, key) {
			order = append(order, key)
		}
	}

	var b strings.Builder
	b.WriteString(renderHeader(title, meta, order))
	b.WriteString("\n---\n")
	if body = strings.TrimSpace(body); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Rewrite applies updates with the default last-occurrence-wins policy.
func Rewrite(raw []byte, defaultTitle string, updates map[string]*string) []byte {
	return Parser{}.Rewrite(raw, defaultTitle, updates)
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
