package validator_test

import (
	"testing"

	"github.com/docxredline/api/internal/editmodel"
	"github.com/docxredline/api/internal/ir"
	"github.com/docxredline/api/internal/validator"
)

func sampleDoc() *ir.Document {
	return &ir.Document{
		Blocks: []ir.Block{
			{ID: "uuid-1", SeqId: "b001", Text: "The quick brown fox jumps over the lazy dog."},
			{ID: "uuid-2", SeqId: "b002", Text: ""},
			{ID: "uuid-3", SeqId: "b003", Text: "Table of contents entry", IsTOC: true},
		},
	}
}

func TestValidateNeverShortCircuits(t *testing.T) {
	doc := sampleDoc()
	edits := []editmodel.Edit{
		{Operation: editmodel.OpReplace, BlockId: "b001", NewText: "x"},
		{Operation: "bogus", BlockId: "b001"},
		{Operation: editmodel.OpReplace, BlockId: "bZZZ", NewText: "y"},
	}

	result := validator.Validate(edits, doc)

	if len(result.Issues) != 2 {
		t.Fatalf("expected issues for edits 1 and 2, got %d: %+v", len(result.Issues), result.Issues)
	}
	if result.Valid {
		t.Fatalf("batch with issues must be invalid")
	}
	if result.Summary.TotalEdits != 3 || result.Summary.InvalidEdits != 2 || result.Summary.ValidEdits != 1 {
		t.Fatalf("unexpected summary: %+v", result.Summary)
	}
}

func TestValidateMissingBlock(t *testing.T) {
	doc := sampleDoc()
	edits := []editmodel.Edit{
		{Operation: editmodel.OpReplace, BlockId: "b001", NewText: "x"},
		{Operation: editmodel.OpReplace, BlockId: "bZZZ", NewText: "y"},
	}
	result := validator.Validate(edits, doc)
	if len(result.Issues) != 1 {
		t.Fatalf("expected exactly one issue, got %+v", result.Issues)
	}
	issue := result.Issues[0]
	if issue.EditIndex != 1 || issue.Type != validator.IssueMissingBlock {
		t.Fatalf("unexpected issue: %+v", issue)
	}
}

func TestValidateEmptySourceForDiff(t *testing.T) {
	doc := sampleDoc()
	edits := []editmodel.Edit{
		{Operation: editmodel.OpReplace, BlockId: "b002", NewText: "x", DiffSet: true, Diff: true},
	}
	result := validator.Validate(edits, doc)
	if len(result.Issues) != 1 || result.Issues[0].Type != validator.IssueEmptySourceForDiff {
		t.Fatalf("expected empty_source_for_diff issue, got %+v", result.Issues)
	}
}

func TestValidateTruncationWarning(t *testing.T) {
	doc := sampleDoc()
	edits := []editmodel.Edit{
		{Operation: editmodel.OpReplace, BlockId: "b001", NewText: "x"},
	}
	result := validator.Validate(edits, doc)
	if !result.Valid {
		t.Fatalf("warnings must not invalidate the batch")
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Type != validator.WarningTruncationRisk {
		t.Fatalf("expected a truncation_risk warning, got %+v", result.Warnings)
	}
}

func TestValidateTOCWarning(t *testing.T) {
	doc := sampleDoc()
	edits := []editmodel.Edit{
		{Operation: editmodel.OpComment, BlockId: "b003", Comment: "hi"},
	}
	result := validator.Validate(edits, doc)
	if !result.Valid {
		t.Fatalf("TOC warning must not invalidate the batch")
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Type != validator.WarningTOCBlock {
		t.Fatalf("expected a toc_block warning, got %+v", result.Warnings)
	}
}

func TestValidateMissingField(t *testing.T) {
	doc := sampleDoc()
	edits := []editmodel.Edit{
		{Operation: editmodel.OpReplace, BlockId: "b001"},
	}
	result := validator.Validate(edits, doc)
	if len(result.Issues) != 1 || result.Issues[0].Type != validator.IssueMissingField {
		t.Fatalf("expected missing_field issue, got %+v", result.Issues)
	}
}
