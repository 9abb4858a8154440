package mcpserver

// ThreadFormatContract describes the plain-text thread document format
// that LLM consumers should follow when reading or updating threads.
const ThreadFormatContract = `# Watercooler Thread Format Contract

Every thread stored in a ` + "`" + `*-threads` + "`" + ` folder MUST follow this structure.

## Structure

` + "```" + `text
# Human-readable title
Status: OPEN
Priority: HIGH
Ball: alice (eng)
Created: 2025-01-15T09:00:00Z
---
Entry: alice (eng) 2025-01-15T09:05:00Z
Title: Kickoff

Free-form body text of the first entry.
---
Entry: bob 2025-01-16T14:30:00Z

Reply body. A reply may contain --- rules as long as the next
line does not start with "Entry:".
` + "```" + `

## Rules

1. **Header** is everything before the first line that is exactly ` + "`" + `---` + "`" + `.
   It holds an optional ` + "`" + `# title` + "`" + ` line and ` + "`" + `Key: Value` + "`" + ` fields.
2. **Keys** contain letters, digits, spaces, underscores and hyphens.
   ` + "`" + `Status` + "`" + ` and ` + "`" + `Priority` + "`" + ` values are upper-cased on write.
3. **Entries** are separated by ` + "`" + `---` + "`" + ` lines immediately followed by a
   line starting with ` + "`" + `Entry:` + "`" + `. Other ` + "`" + `---` + "`" + ` lines belong to the body.
4. **Entry line** format: ` + "`" + `Entry: <author> (<actor>) <ISO-8601 timestamp>` + "`" + `.
   The parenthesized actor is optional.
5. **Ball** names who owes the next reply. A thread is "new" when the
   last entry's author differs from the ball holder and the thread is
   not CLOSED.
6. **Updates touch the header only.** Entries are append-only history;
   never rewrite them. Passing ` + "`" + `null` + "`" + ` for a field removes it,
   ` + "`" + `Title` + "`" + ` replaces the ` + "`" + `# title` + "`" + ` line.
7. **File paths** end with ` + "`" + `.md` + "`" + ` inside a folder named ` + "`" + `<repo>-threads` + "`" + `.
   ` + "`" + `README.md` + "`" + ` and ` + "`" + `INDEX.md` + "`" + ` are not threads.
8. **Encoding** is UTF-8 with a trailing newline.
`
