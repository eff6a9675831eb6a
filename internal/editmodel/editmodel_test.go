package editmodel_test

import (
	"testing"

	"github.com/docxredline/api/internal/editmodel"
)

func TestDecodeJSON(t *testing.T) {
	raw := []byte(`[
		{"blockId":"b005","operation":"replace","newText":"hello","diff":true,"comment":"c"},
		{"blockId":"b010","operation":"delete"},
		{"afterBlockId":"b010","operation":"insert","text":"new para","type":"paragraph"},
		{"blockId":"b020","operation":"comment","comment":"review"}
	]`)

	edits, err := editmodel.DecodeJSON(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edits) != 4 {
		t.Fatalf("expected 4 edits, got %d", len(edits))
	}
	if edits[0].Operation != editmodel.OpReplace || !edits[0].EffectiveDiff() {
		t.Fatalf("unexpected first edit: %+v", edits[0])
	}
	if edits[1].Operation != editmodel.OpDelete || edits[1].BlockId != "b010" {
		t.Fatalf("unexpected second edit: %+v", edits[1])
	}
	if edits[2].TargetRef() != "b010" {
		t.Fatalf("insert should resolve against afterBlockId, got %s", edits[2].TargetRef())
	}
}

func TestDecodeJSONRejectsNonArray(t *testing.T) {
	if _, err := editmodel.DecodeJSON([]byte(`{}`)); err == nil {
		t.Fatalf("expected an error for a JSON object instead of an array")
	}
}

func TestDiffDefaultsToTrueWhenOmitted(t *testing.T) {
	edits, err := editmodel.DecodeJSON([]byte(`[{"blockId":"b001","operation":"replace","newText":"x"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !edits[0].EffectiveDiff() {
		t.Fatalf("diff should default to true when omitted")
	}
}

func TestLooksLikeMarkdown(t *testing.T) {
	cases := map[string]bool{
		"# Edits\n\nsomething":        true,
		"## Edits Table\n| a | b |":   true,
		"## Metadata\nVersion: 1":     true,
		"| Block | Op | Diff |":       true,
		`[{"blockId":"b1"}]`:          false,
		"just some prose":             false,
	}
	for input, want := range cases {
		if got := editmodel.LooksLikeMarkdown(input); got != want {
			t.Errorf("LooksLikeMarkdown(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestDecodeMarkdownCommentRow(t *testing.T) {
	doc := "## Edits Table\n\n| Block | Op | Diff | Comment |\n|---|---|---|---|\n| b003 | comment | - | hi |\n"
	edits, _, warnings, err := editmodel.DecodeMarkdown(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v (warnings=%v)", err, warnings)
	}
	if len(edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(edits))
	}
	e := edits[0]
	if e.Operation != editmodel.OpComment || e.BlockId != "b003" || e.Comment != "hi" {
		t.Fatalf("unexpected edit: %+v", e)
	}
}

func TestDecodeMarkdownReplaceWithReplacementText(t *testing.T) {
	doc := `## Edits Table

| Block | Op | Diff | Comment |
|---|---|---|---|
| b005 | replace | true | - |

## Replacement Text

### b005 newText
new content here
`
	edits, _, _, err := editmodel.DecodeMarkdown(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edits) != 1 || edits[0].NewText != "new content here" {
		t.Fatalf("unexpected edits: %+v", edits)
	}
}

func TestDecodeMarkdownMissingReplacementWarns(t *testing.T) {
	doc := "## Edits Table\n\n| Block | Op | Diff | Comment |\n|---|---|---|---|\n| b005 | replace | true | - |\n"
	edits, _, warnings, err := editmodel.DecodeMarkdown(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edits[0].NewText != "" {
		t.Fatalf("expected unset newText, got %q", edits[0].NewText)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected a warning about the missing newText section")
	}
}

func TestDecodeMarkdownMalformedRowSkipped(t *testing.T) {
	doc := "## Edits Table\n\n| Block | Op | Diff | Comment |\n|---|---|---|---|\n| b001 | delete |\n| b002 | delete | - | - |\n"
	edits, _, warnings, err := editmodel.DecodeMarkdown(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("expected malformed row to be skipped, got %d edits", len(edits))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(warnings))
	}
}

func TestEncodeDecodeMarkdownRoundTrip(t *testing.T) {
	original := []editmodel.Edit{
		{Operation: editmodel.OpReplace, BlockId: "b001", NewText: "replaced text", DiffSet: true, Diff: true},
		{Operation: editmodel.OpDelete, BlockId: "b002"},
		{Operation: editmodel.OpInsert, AfterBlockId: "b002", Text: "inserted text"},
		{Operation: editmodel.OpComment, BlockId: "b003", Comment: "please review"},
	}

	rendered := editmodel.EncodeMarkdown(original, editmodel.Metadata{})
	decoded, _, warnings, err := editmodel.DecodeMarkdown(rendered)
	if err != nil {
		t.Fatalf("unexpected error: %v (warnings=%v)", err, warnings)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings on round trip: %v", warnings)
	}
	if len(decoded) != len(original) {
		t.Fatalf("expected %d edits, got %d", len(original), len(decoded))
	}
	for i := range original {
		if decoded[i].Operation != original[i].Operation {
			t.Fatalf("edit %d: operation mismatch: %+v vs %+v", i, decoded[i], original[i])
		}
		if decoded[i].TargetRef() != original[i].TargetRef() {
			t.Fatalf("edit %d: target ref mismatch: %+v vs %+v", i, decoded[i], original[i])
		}
	}
	if decoded[0].NewText != original[0].NewText {
		t.Fatalf("newText round trip failed: got %q", decoded[0].NewText)
	}
	if decoded[2].Text != original[2].Text {
		t.Fatalf("insertText round trip failed: got %q", decoded[2].Text)
	}
}
