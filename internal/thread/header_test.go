package thread

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParseHeader_TitleLine(t *testing.T) {
	title, meta, order := parseHeader([]string{"# Billing rollout", "Status: OPEN"}, "fallback", LastWins)
	assert.Equal(t, "Billing rollout", title)
	assert.Equal(t, map[string]string{"Status": "OPEN"}, meta)
	assert.Equal(t, []string{"Status"}, order)
}

func TestParseHeader_DefaultTitle(t *testing.T) {
	title, _, _ := parseHeader([]string{"Status: OPEN"}, "my-topic", LastWins)
	assert.Equal(t, "my-topic", title)
}

func TestParseHeader_SkipsMalformedLines(t *testing.T) {
	lines := []string{
		"# T",
		"Status: OPEN",
		"this line is prose and has no field shape",
		"",
		"Ball: alice",
		"bad::", // still matches: key "bad", value ":"
	}
	_, meta, order := parseHeader(lines, "t", LastWins)
	assert.Equal(t, map[string]string{"Status": "OPEN", "Ball": "alice", "bad": ":"}, meta)
	assert.Equal(t, []string{"Status", "Ball", "bad"}, order)
}

func TestParseHeader_DuplicateKeyLastWins(t *testing.T) {
	lines := []string{"Status: OPEN", "Status: CLOSED"}
	_, meta, order := parseHeader(lines, "t", LastWins)
	assert.Equal(t, "CLOSED", meta["Status"])
	// fieldOrder keeps both occurrences; dedup happens at render time.
	assert.Equal(t, []string{"Status", "Status"}, order)
}

func TestParseHeader_DuplicateKeyFirstWins(t *testing.T) {
	lines := []string{"Status: OPEN", "Status: CLOSED"}
	_, meta, _ := parseHeader(lines, "t", FirstWins)
	assert.Equal(t, "OPEN", meta["Status"])
}

func TestRenderHeader_PreservesOriginalOrder(t *testing.T) {
	out := renderHeader("T",
		map[string]string{"Ball": "alice", "Status": "OPEN", "Custom": "x"},
		[]string{"Custom", "Ball", "Status"})

	want := "# T\nCustom: x\nBall: alice\nStatus: OPEN\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHeader_PreferredKeysAppendedAfterOriginals(t *testing.T) {
	out := renderHeader("T",
		map[string]string{"Created": "2024-01-01T00:00:00Z", "Status": "OPEN", "Zeta": "z", "Alpha": "a"},
		[]string{"Status"})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := []string{"# T", "Status: OPEN", "Created: 2024-01-01T00:00:00Z", "Alpha: a", "Zeta: z"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderHeader_BlankValuesOmitted(t *testing.T) {
	out := renderHeader("T",
		map[string]string{"Status": "OPEN", "Ball": "   "},
		[]string{"Status", "Ball"})
	assert.NotContains(t, out, "Ball")
}

func TestHeaderRoundTrip(t *testing.T) {
	lines := []string{
		"# Round trip",
		"",
		"Status: OPEN",
		"not a field at all",
		"Ball: bob (api)",
		"",
		"Priority: P1",
	}
	title, meta, order := parseHeader(lines, "t", LastWins)
	out := renderHeader(title, meta, order)

	got := strings.Split(strings.TrimRight(out, "\n"), "\n")
	want := []string{"# Round trip", "Status: OPEN", "Ball: bob (api)", "Priority: P1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
