package ir

import (
	"regexp"
	"strings"
	"time"

	"github.com/docxredline/api/internal/docxengine"
)

// Options configures one extraction run.
type Options struct {
	Filename            string
	Format              string
	IncludeDefinedTerms bool
	IncludeOutline      bool
	MaxTextLength       int // 0 means unlimited
}

// Registry is the minimal surface the extractor needs from a block id
// registry, decoupling this package from internal/blockid's concrete type.
type Registry interface {
	RegisterExisting(uuid string) string
	Export() map[string]string
	Len() int
}

// termDefRegex matches a paragraph-opening "Term: " introduction pattern.
// A term is 1-6 words of letters/digits/spaces/hyphens, immediately
// followed by a colon and at least one space.
var termDefRegex = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9\-]*(?: [A-Za-z0-9\-]+){0,5}):\s+\S`)

// Extract builds a Document IR from a single pre-order traversal of the
// engine's nodes. The traversal order from the engine is preserved as
// document order; seqIds are assigned on first sight via reg.
func Extract(nodes []docxengine.Node, reg Registry, opts Options) *Document {
	doc := &Document{
		Metadata: Metadata{
			Filename:    opts.Filename,
			ExtractedAt: time.Now(),
			Version:     "1",
			Format:      opts.Format,
		},
		Blocks:    make([]Block, 0, len(nodes)),
		IdMapping: map[string]string{},
	}

	var outlineRoots []*OutlineNode
	var outlineStack []*OutlineNode

	for _, n := range nodes {
		seqId := reg.RegisterExisting(n.UUID)

		text := n.Text
		b := Block{
			ID:       n.UUID,
			SeqId:    seqId,
			Type:     string(n.Type),
			Level:    n.Level,
			StartPos: n.StartPos,
			EndPos:   n.EndPos,
			IsTOC:    n.IsTOC || n.Type == docxengine.BlockTOC,
		}

		if opts.MaxTextLength > 0 && len(text) > opts.MaxTextLength {
			b.OriginalLength = len(text)
			b.Truncated = true
			b.Text = text[:opts.MaxTextLength]
		} else {
			b.Text = text
		}

		doc.Blocks = append(doc.Blocks, b)

		if opts.IncludeOutline && n.Type == docxengine.BlockHeading {
			node := &OutlineNode{ID: n.UUID, SeqId: seqId, Title: text, Level: n.Level}
			for len(outlineStack) > 0 && outlineStack[len(outlineStack)-1].Level >= n.Level {
				outlineStack = outlineStack[:len(outlineStack)-1]
			}
			if len(outlineStack) == 0 {
				outlineRoots = append(outlineRoots, node)
			} else {
				parent := outlineStack[len(outlineStack)-1]
				parent.Children = append(parent.Children, node)
			}
			outlineStack = append(outlineStack, node)
		}
	}

	doc.Metadata.BlockCount = len(doc.Blocks)
	doc.IdMapping = reg.Export()
	doc.Metadata.IdsAssigned = reg.Len()

	if opts.IncludeOutline {
		doc.Outline = outlineRoots
	}

	if opts.IncludeDefinedTerms {
		doc.DefinedTerms = extractDefinedTerms(doc.Blocks)
	}

	return doc
}

// extractDefinedTerms runs in O(n) amortized: one pass to find definitions
// (building an inverted index keyed by lowercased term), one pass to find
// usages by sliding a bounded word window per block.
func extractDefinedTerms(blocks []Block) map[string]*DefinedTerm {
	terms := map[string]*DefinedTerm{}
	display := map[string]string{} // lowercase -> original casing
	maxWords := 1

	for _, b := range blocks {
		m := termDefRegex.FindStringSubmatch(b.Text)
		if m == nil {
			continue
		}
		term := m[1]
		key := strings.ToLower(term)
		if _, exists := terms[key]; exists {
			continue // first definition wins
		}
		terms[key] = &DefinedTerm{DefiningBlockSeqId: b.SeqId}
		display[key] = term
		if w := len(strings.Fields(term)); w > maxWords {
			maxWords = w
		}
	}

	if len(terms) == 0 {
		return nil
	}

	for _, b := range blocks {
		words := strings.Fields(b.Text)
		seenInBlock := map[string]bool{}
		for i := range words {
			for w := 1; w <= maxWords && i+w <= len(words); w++ {
				phrase := strings.ToLower(strings.Join(words[i:i+w], " "))
				def, ok := terms[phrase]
				if !ok {
					continue
				}
				if def.DefiningBlockSeqId == b.SeqId {
					continue
				}
				if seenInBlock[phrase] {
					continue
				}
				seenInBlock[phrase] = true
				def.UsageBlockSeqIds = append(def.UsageBlockSeqIds, b.SeqId)
			}
		}
	}

	out := make(map[string]*DefinedTerm, len(terms))
	for key, def := range terms {
		out[display[key]] = def
	}
	return out
}
