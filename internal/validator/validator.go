// Package validator checks a batch of edits against a Document IR and
// produces a structured, non-short-circuiting validation report.
package validator

import (
	"fmt"

	"github.com/docxredline/api/internal/editmodel"
	"github.com/docxredline/api/internal/ir"
)

// IssueType is the closed enumeration of validation issue kinds.
type IssueType string

const (
	IssueInvalidOperation   IssueType = "invalid_operation"
	IssueMissingField       IssueType = "missing_field"
	IssueMissingBlock       IssueType = "missing_block"
	IssueEmptySourceForDiff IssueType = "empty_source_for_diff"
	WarningTruncationRisk   IssueType = "truncation_risk"
	WarningTOCBlock         IssueType = "toc_block"
)

// Issue is one finding against a specific edit.
type Issue struct {
	EditIndex int       `json:"editIndex"`
	BlockId   string    `json:"blockId,omitempty"`
	Type      IssueType `json:"type"`
	Message   string    `json:"message"`
}

// Summary tallies the result of validating a batch.
type Summary struct {
	TotalEdits   int `json:"totalEdits"`
	ValidEdits   int `json:"validEdits"`
	InvalidEdits int `json:"invalidEdits"`
	WarningCount int `json:"warningCount"`
}

// Result is the full validation report for one batch of edits.
type Result struct {
	Valid    bool    `json:"valid"`
	Issues   []Issue `json:"issues"`
	Warnings []Issue `json:"warnings"`
	Summary  Summary `json:"summary"`
}

// truncationRiskRatio is the fraction of the original length below which a
// replacement is flagged as a possible content loss.
const truncationRiskRatio = 0.5

// Validate checks every edit against doc in order. It never mutates edits
// or doc, and it never short-circuits: every edit is checked and reported.
func Validate(edits []editmodel.Edit, doc *ir.Document) Result {
	result := Result{
		Issues:   []Issue{},
		Warnings: []Issue{},
	}
	result.Summary.TotalEdits = len(edits)

	invalidIdx := make(map[int]bool, len(edits))

	for i, e := range edits {
		ok := validateOne(i, e, doc, &result)
		if !ok {
			invalidIdx[i] = true
		}
	}

	result.Summary.InvalidEdits = len(invalidIdx)
	result.Summary.ValidEdits = result.Summary.TotalEdits - result.Summary.InvalidEdits
	result.Summary.WarningCount = len(result.Warnings)
	result.Valid = len(result.Issues) == 0

	return result
}

func validateOne(idx int, e editmodel.Edit, doc *ir.Document, result *Result) bool {
	addIssue := func(blockId string, t IssueType, msg string) {
		result.Issues = append(result.Issues, Issue{EditIndex: idx, BlockId: blockId, Type: t, Message: msg})
	}
	addWarning := func(blockId string, t IssueType, msg string) {
		result.Warnings = append(result.Warnings, Issue{EditIndex: idx, BlockId: blockId, Type: t, Message: msg})
	}

	// 1. operation must be in the closed set.
	if !editmodel.IsValidOperation(e.Operation) {
		addIssue(e.TargetRef(), IssueInvalidOperation, fmt.Sprintf("unknown operation %q", e.Operation))
		return false
	}

	// 2. required fields present.
	if missing := missingFields(e); missing != "" {
		addIssue(e.TargetRef(), IssueMissingField, missing)
		return false
	}

	valid := true

	// 3/4. block reference resolves (seqId first, then uuid).
	ref := e.TargetRef()
	block, resolved := doc.Resolve(ref)
	if !resolved {
		addIssue(ref, IssueMissingBlock, fmt.Sprintf("block %q not found", ref))
		valid = false
	}

	if resolved && e.Operation == editmodel.OpReplace && e.EffectiveDiff() {
		// 5. diff replace requires non-empty source text.
		if block.Text == "" {
			addIssue(block.SeqId, IssueEmptySourceForDiff, "cannot compute a word diff against an empty block")
			valid = false
		}
	}

	if resolved && e.Operation == editmodel.OpReplace {
		// 6. truncation warning (non-blocking).
		if isTruncationRisk(block.Text, e.NewText) {
			addWarning(block.SeqId, WarningTruncationRisk, "replacement text is much shorter than the current block text")
		}
	}

	if resolved && block.IsTOC {
		// 7. TOC warning (non-blocking); apply engine will skip it.
		addWarning(block.SeqId, WarningTOCBlock, "target block is a table of contents entry; replace, delete and insert edits on it are skipped on apply")
	}

	return valid
}

func missingFields(e editmodel.Edit) string {
	switch e.Operation {
	case editmodel.OpReplace:
		if e.BlockId == "" {
			return "replace requires blockId"
		}
		if e.NewText == "" {
			return "replace requires newText"
		}
	case editmodel.OpDelete:
		if e.BlockId == "" {
			return "delete requires blockId"
		}
	case editmodel.OpInsert:
		if e.AfterBlockId == "" {
			return "insert requires afterBlockId"
		}
		if e.Text == "" {
			return "insert requires text"
		}
	case editmodel.OpComment:
		if e.BlockId == "" {
			return "comment requires blockId"
		}
		if e.Comment == "" {
			return "comment requires comment"
		}
	}
	return ""
}

func isTruncationRisk(current, replacement string) bool {
	if len(current) == 0 {
		return false
	}
	return float64(len(replacement)) < float64(len(current))*truncationRiskRatio
}
