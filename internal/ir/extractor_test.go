package ir_test

import (
	"testing"

	"github.com/docxredline/api/internal/blockid"
	"github.com/docxredline/api/internal/docxengine"
	"github.com/docxredline/api/internal/ir"
)

func nodes() []docxengine.Node {
	return []docxengine.Node{
		{UUID: "u1", Type: docxengine.BlockHeading, Level: 1, Text: "Introduction", StartPos: 0, EndPos: 12},
		{UUID: "u2", Type: docxengine.BlockParagraph, Text: "Licensee: the party receiving the license.", StartPos: 12, EndPos: 55},
		{UUID: "u3", Type: docxengine.BlockHeading, Level: 2, Text: "Background", StartPos: 55, EndPos: 65},
		{UUID: "u4", Type: docxengine.BlockParagraph, Text: "The Licensee shall comply.", StartPos: 65, EndPos: 92},
		{UUID: "u5", Type: docxengine.BlockParagraph, Text: "", StartPos: 92, EndPos: 93},
	}
}

func TestExtractAssignsMonotonicSeqIds(t *testing.T) {
	reg := blockid.New()
	doc := ir.Extract(nodes(), reg, ir.Options{Filename: "f.docx", IncludeOutline: true, IncludeDefinedTerms: true})

	if doc.Metadata.BlockCount != 5 {
		t.Fatalf("expected 5 blocks, got %d", doc.Metadata.BlockCount)
	}
	want := []string{"b001", "b002", "b003", "b004", "b005"}
	for i, b := range doc.Blocks {
		if b.SeqId != want[i] {
			t.Fatalf("block %d: expected seqId %s, got %s", i, want[i], b.SeqId)
		}
	}
	if doc.Blocks[4].Text != "" {
		t.Fatalf("empty-text block should still be emitted with empty text")
	}
	if doc.Blocks[4].EndPos <= doc.Blocks[4].StartPos {
		t.Fatalf("endPos must exceed startPos even for an empty block")
	}
}

func TestExtractBuildsOutlineTree(t *testing.T) {
	reg := blockid.New()
	doc := ir.Extract(nodes(), reg, ir.Options{IncludeOutline: true})

	if len(doc.Outline) != 1 {
		t.Fatalf("expected one root heading, got %d", len(doc.Outline))
	}
	root := doc.Outline[0]
	if root.Title != "Introduction" {
		t.Fatalf("unexpected root title: %s", root.Title)
	}
	if len(root.Children) != 1 || root.Children[0].Title != "Background" {
		t.Fatalf("expected Background as a child of Introduction, got %+v", root.Children)
	}
}

func TestExtractDefinedTerms(t *testing.T) {
	reg := blockid.New()
	doc := ir.Extract(nodes(), reg, ir.Options{IncludeDefinedTerms: true})

	def, ok := doc.DefinedTerms["Licensee"]
	if !ok {
		t.Fatalf("expected Licensee to be recorded as a defined term, got %+v", doc.DefinedTerms)
	}
	if def.DefiningBlockSeqId != "b002" {
		t.Fatalf("expected defining block b002, got %s", def.DefiningBlockSeqId)
	}
	if len(def.UsageBlockSeqIds) != 1 || def.UsageBlockSeqIds[0] != "b004" {
		t.Fatalf("expected usage in b004, got %v", def.UsageBlockSeqIds)
	}
}

func TestExtractIdMappingIsBijection(t *testing.T) {
	reg := blockid.New()
	doc := ir.Extract(nodes(), reg, ir.Options{})

	if len(doc.IdMapping) != len(doc.Blocks) {
		t.Fatalf("idMapping size %d does not match block count %d", len(doc.IdMapping), len(doc.Blocks))
	}
	for _, b := range doc.Blocks {
		if doc.IdMapping[b.ID] != b.SeqId {
			t.Fatalf("idMapping broken for block %s", b.ID)
		}
	}
}

func TestMaxTextLengthTruncates(t *testing.T) {
	reg := blockid.New()
	doc := ir.Extract(nodes(), reg, ir.Options{MaxTextLength: 5})

	b := doc.Blocks[1]
	if !b.Truncated {
		t.Fatalf("expected block to be marked truncated")
	}
	if b.OriginalLength != len("Licensee: the party receiving the license.") {
		t.Fatalf("unexpected originalLength: %d", b.OriginalLength)
	}
	if len(b.Text) != 5 {
		t.Fatalf("expected truncated text of length 5, got %d", len(b.Text))
	}
}
