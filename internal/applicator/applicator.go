// Package applicator sorts a validated edit batch into a safe apply order
// and drives it through the docxengine.Editor operation dispatcher.
package applicator

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/docxredline/api/internal/docxengine"
	"github.com/docxredline/api/internal/editmodel"
	"github.com/docxredline/api/internal/ir"
)

// ErrFatal marks an engine failure as catastrophic: the whole batch must
// abort rather than skip the offending edit.
var ErrFatal = errors.New("applicator: fatal engine failure")

// Skipped records why one edit in the batch was not applied.
type Skipped struct {
	EditIndex int    `json:"editIndex"`
	BlockId   string `json:"blockId,omitempty"`
	Reason    string `json:"reason"`
}

// CommentResult is one attached review comment, returned so the exporter
// can embed the external comments payload.
type CommentResult struct {
	BlockId   string `json:"blockId"`
	CommentID string `json:"commentId"`
	Text      string `json:"text"`
}

// Result summarizes the outcome of applying one batch.
type Result struct {
	Applied  int
	Skipped  []Skipped
	Comments []CommentResult
}

type positioned struct {
	edit    editmodel.Edit
	idx     int
	sortKey int
}

// Apply sorts edits in descending document position and applies each
// through editor, in isolation from its siblings. It assumes edits have
// already passed validator.Validate with Valid == true; resolution is
// re-checked defensively but should always succeed.
func Apply(ctx context.Context, edits []editmodel.Edit, doc *ir.Document, editor docxengine.Editor, defaultAuthor docxengine.Author) (Result, error) {
	ordered := sortForApply(edits, doc)

	result := Result{Skipped: []Skipped{}, Comments: []CommentResult{}}

	for _, p := range ordered {
		e := p.edit
		author := effectiveAuthor(e, defaultAuthor)

		target, ok := doc.Resolve(e.TargetRef())
		if !ok {
			result.Skipped = append(result.Skipped, Skipped{EditIndex: p.idx, BlockId: e.TargetRef(), Reason: "block reference could not be resolved"})
			continue
		}

		if target.IsTOC && (e.Operation == editmodel.OpReplace || e.Operation == editmodel.OpDelete || e.Operation == editmodel.OpInsert) {
			result.Skipped = append(result.Skipped, Skipped{EditIndex: p.idx, BlockId: target.SeqId, Reason: "target block is a table of contents entry"})
			continue
		}

		if err := dispatch(ctx, editor, e, target, author, &result); err != nil {
			if errors.Is(err, ErrFatal) {
				return result, fmt.Errorf("apply aborted: %w", err)
			}
			result.Skipped = append(result.Skipped, Skipped{EditIndex: p.idx, BlockId: target.SeqId, Reason: err.Error()})
			continue
		}

		result.Applied++
	}

	return result, nil
}

func dispatch(ctx context.Context, editor docxengine.Editor, e editmodel.Edit, target *ir.Block, author docxengine.Author, result *Result) error {
	switch e.Operation {
	case editmodel.OpReplace:
		if e.EffectiveDiff() {
			ops := WordDiff(target.Text, e.NewText)
			return editor.Replace(ctx, target.ID, e.NewText, true, ops, author)
		}
		return editor.Replace(ctx, target.ID, e.NewText, false, nil, author)

	case editmodel.OpDelete:
		return editor.Delete(ctx, target.ID, author)

	case editmodel.OpInsert:
		blockType := docxengine.BlockType(e.Type)
		if blockType == "" {
			blockType = docxengine.BlockParagraph
		}
		_, err := editor.InsertAfter(ctx, target.ID, e.Text, blockType, e.Level, author)
		return err

	case editmodel.OpComment:
		commentID, err := editor.AddComment(ctx, target.ID, e.Comment, author)
		if err != nil {
			return err
		}
		result.Comments = append(result.Comments, CommentResult{BlockId: target.SeqId, CommentID: commentID, Text: e.Comment})
		return nil

	default:
		return fmt.Errorf("unknown operation %q", e.Operation)
	}
}

func effectiveAuthor(e editmodel.Edit, fallback docxengine.Author) docxengine.Author {
	if e.Author == nil {
		return fallback
	}
	a := fallback
	if e.Author.Name != "" {
		a.Name = e.Author.Name
	}
	if e.Author.Email != "" {
		a.Email = e.Author.Email
	}
	return a
}

// sortForApply orders edits by descending target position so applying an
// earlier-position edit never invalidates the offsets a later edit in the
// batch still depends on. Ties keep the edits' original relative order
// (sort.SliceStable over a single descending key).
func sortForApply(edits []editmodel.Edit, doc *ir.Document) []positioned {
	ordered := make([]positioned, len(edits))
	for i, e := range edits {
		ordered[i] = positioned{edit: e, idx: i, sortKey: sortKeyFor(e, doc)}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].sortKey > ordered[j].sortKey
	})
	return ordered
}

func sortKeyFor(e editmodel.Edit, doc *ir.Document) int {
	block, ok := doc.Resolve(e.TargetRef())
	if !ok {
		return -1
	}
	if e.Operation == editmodel.OpInsert {
		return block.EndPos
	}
	return block.StartPos
}
