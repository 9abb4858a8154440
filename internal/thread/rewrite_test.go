package thread

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Billing rollout
Status: OPEN
Priority: P2
Ball: alice
Created: 2024-01-01T00:00:00Z

---
Entry: alice 2024-01-02T03:04:05Z
Title: Kickoff

Initial plan below.
---
not an entry delimiter, just a rule
---
Entry: bob (ci) 2024-01-03T03:04:05Z

Build is green.
`

func strp(s string) *string { return &s }

func TestRewrite_ChangesOnlyTargetField(t *testing.T) {
	before := Parse([]byte(sampleDoc), "billing-rollout")
	out := Rewrite([]byte(sampleDoc), "billing-rollout", map[string]*string{"Priority": strp("p0")})
	after := Parse(out, "billing-rollout")

	assert.Equal(t, "P0", after.Metadata["Priority"])
	assert.Equal(t, before.EntryCount, after.EntryCount)
	assert.Equal(t, before.Title, after.Title)

	// Body is byte-identical: everything after the first delimiter block.
	wantBody := bodyOf(t, sampleDoc)
	gotBody := bodyOf(t, string(out))
	if diff := cmp.Diff(wantBody, gotBody); diff != "" {
		t.Errorf("body changed (-want +got):\n%s", diff)
	}
}

func TestRewrite_BlankValueRemovesField(t *testing.T) {
	out := Rewrite([]byte(sampleDoc), "t", map[string]*string{"Priority": strp("")})
	after := Parse(out, "t")
	_, ok := after.Metadata["Priority"]
	assert.False(t, ok)
	assert.NotContains(t, string(out), "Priority:")
}

func TestRewrite_NilValueRemovesField(t *testing.T) {
	out := Rewrite([]byte(sampleDoc), "t", map[string]*string{"Ball": nil})
	after := Parse(out, "t")
	_, ok := after.Metadata["Ball"]
	assert.False(t, ok)
}

func TestRewrite_NewKeyAppendedToFieldOrder(t *testing.T) {
	out := Rewrite([]byte(sampleDoc), "t", map[string]*string{"Spec": strp("specs/billing.md")})
	after := Parse(out, "t")
	assert.Equal(t, "specs/billing.md", after.Metadata["Spec"])
	// New key renders after the originals.
	lines := strings.Split(string(out), "\n")
	assert.Equal(t, "Spec: specs/billing.md", lines[5])
}

func TestRewrite_TitleKeyUpdatesTitle(t *testing.T) {
	out := Rewrite([]byte(sampleDoc), "t", map[string]*string{"Title": strp("Renamed thread")})
	after := Parse(out, "t")
	assert.Equal(t, "Renamed thread", after.Title)
	_, ok := after.Metadata["Title"]
	assert.False(t, ok)
}

func TestRewrite_FieldOrderStable(t *testing.T) {
	out := Rewrite([]byte(sampleDoc), "t", map[string]*string{"Status": strp("in_review")})
	lines := strings.Split(string(out), "\n")
	want := []string{
		"# Billing rollout",
		"Status: IN_REVIEW",
		"Priority: P2",
		"Ball: alice",
		"Created: 2024-01-01T00:00:00Z",
		"",
		"---",
	}
	if diff := cmp.Diff(want, lines[:7]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestRewrite_EmptyBodyDocument(t *testing.T) {
	raw := "# T\nStatus: OPEN\n"
	out := Rewrite([]byte(raw), "t", map[string]*string{"Ball": strp("carol")})
	assert.Equal(t, "# T\nStatus: OPEN\nBall: carol\n\n---\n", string(out))

	after := Parse(out, "t")
	assert.Equal(t, 0, after.EntryCount)
}

func bodyOf(t *testing.T, raw string) string {
	t.Helper()
	i := strings.Index(raw, "\n---\n")
	require.GreaterOrEqual(t, i, 0, "document has no delimiter")
	return strings.TrimSpace(raw[i+len("\n---\n"):])
}
