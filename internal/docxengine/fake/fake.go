// Package fake provides a deterministic, in-memory docxengine.Factory used
// by tests and local development. It stands in for the real OOXML engine
// named in the editor engine contract (out of scope for this repository):
// it reads/writes a minimal ZIP archive carrying one "word/document.xml"
// entry of pipe-delimited block records, with curly-brace tracked-change
// markup ({+inserted+}, {-deleted-}) in the spirit of a redline grammar.
package fake

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/docxredline/api/internal/docxengine"
	"github.com/google/uuid"
)

const documentEntry = "word/document.xml"
const commentsEntry = "word/comments.xml"

// block is one line of the fake document body.
type block struct {
	uuid  string
	typ   docxengine.BlockType
	level int
	raw   string // may contain {+...+} / {-...-} tracked spans
}

// Factory constructs fakeEditor instances.
type Factory struct{}

// NewFactory returns a ready-to-use fake engine factory.
func NewFactory() *Factory { return &Factory{} }

// Load parses a ZIP archive produced by this package (or a previous Export)
// and returns a live editor over its blocks.
func (f *Factory) Load(ctx context.Context, buf []byte, opts docxengine.LoadOptions) (docxengine.Editor, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("fake engine: open archive: %w", err)
	}

	var docBytes []byte
	for _, f := range zr.File {
		if f.Name != documentEntry {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("fake engine: open %s: %w", documentEntry, err)
		}
		docBytes, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("fake engine: read %s: %w", documentEntry, err)
		}
		break
	}
	if docBytes == nil {
		return nil, fmt.Errorf("fake engine: archive missing %s", documentEntry)
	}

	blocks, err := parseDocument(docBytes)
	if err != nil {
		// Any partially-built state is local to this call; nothing to release.
		return nil, fmt.Errorf("fake engine: parse document: %w", err)
	}

	return &editor{blocks: blocks, mode: opts.Mode}, nil
}

func parseDocument(doc []byte) ([]*block, error) {
	lines := strings.Split(strings.TrimRight(string(doc), "\n"), "\n")
	blocks := make([]*block, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "|", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("malformed block record at line %d", i+1)
		}
		level, _ := strconv.Atoi(parts[2])
		blocks = append(blocks, &block{
			uuid:  parts[0],
			typ:   docxengine.BlockType(parts[1]),
			level: level,
			raw:   parts[3],
		})
	}
	return blocks, nil
}

// editor is the live, request-owned handle onto one loaded fake document.
type editor struct {
	mu        sync.Mutex
	blocks    []*block
	mode      docxengine.Mode
	destroyed bool
}

func (e *editor) Traverse(ctx context.Context) ([]docxengine.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil, fmt.Errorf("fake engine: editor already destroyed")
	}

	nodes := make([]docxengine.Node, 0, len(e.blocks))
	offset := 0
	for _, b := range e.blocks {
		text := VisibleText(b.raw)
		span := len(text)
		if span == 0 {
			span = 1 // keep endPos > startPos even for empty blocks
		}
		nodes = append(nodes, docxengine.Node{
			UUID:     b.uuid,
			Type:     b.typ,
			Level:    b.level,
			Text:     text,
			StartPos: offset,
			EndPos:   offset + span,
			IsTOC:    b.typ == docxengine.BlockTOC || isTOCStructure(b.raw),
		})
		offset += span
	}
	return nodes, nil
}

func (e *editor) find(uuid string) (int, *block) {
	for i, b := range e.blocks {
		if b.uuid == uuid {
			return i, b
		}
	}
	return -1, nil
}

func (e *editor) Replace(ctx context.Context, uuid string, text string, tracked bool, ops []docxengine.DiffOp, author docxengine.Author) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return fmt.Errorf("fake engine: editor already destroyed")
	}
	_, b := e.find(uuid)
	if b == nil {
		return fmt.Errorf("fake engine: block %s not found", uuid)
	}
	if !tracked || len(ops) == 0 {
		b.raw = text
		return nil
	}
	var sb strings.Builder
	for _, op := range ops {
		switch op.Kind {
		case docxengine.DiffEqual:
			sb.WriteString(op.Token)
		case docxengine.DiffInsert:
			sb.WriteString("{+")
			sb.WriteString(op.Token)
			sb.WriteString("+}")
		case docxengine.DiffDelete:
			sb.WriteString("{-")
			sb.WriteString(op.Token)
			sb.WriteString("-}")
		}
	}
	b.raw = sb.String()
	return nil
}

func (e *editor) Delete(ctx context.Context, uuid string, author docxengine.Author) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return fmt.Errorf("fake engine: editor already destroyed")
	}
	_, b := e.find(uuid)
	if b == nil {
		return fmt.Errorf("fake engine: block %s not found", uuid)
	}
	// Tracked deletion: mark the whole visible span deleted rather than
	// physically removing the block, mirroring how a real engine keeps
	// the paragraph mark until changes are accepted.
	b.raw = "{-" + VisibleText(b.raw) + "-}"
	return nil
}

func (e *editor) InsertAfter(ctx context.Context, uuid string, text string, blockType docxengine.BlockType, level int, author docxengine.Author) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return "", fmt.Errorf("fake engine: editor already destroyed")
	}
	idx, b := e.find(uuid)
	if b == nil {
		return "", fmt.Errorf("fake engine: block %s not found", uuid)
	}
	newBlock := &block{
		uuid:  uuid2(),
		typ:   blockType,
		level: level,
		raw:   "{+" + text + "+}",
	}
	e.blocks = append(e.blocks, nil)
	copy(e.blocks[idx+2:], e.blocks[idx+1:])
	e.blocks[idx+1] = newBlock
	return newBlock.uuid, nil
}

func (e *editor) AddComment(ctx context.Context, uuid string, text string, author docxengine.Author) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return "", fmt.Errorf("fake engine: editor already destroyed")
	}
	if _, b := e.find(uuid); b == nil {
		return "", fmt.Errorf("fake engine: block %s not found", uuid)
	}
	return uuid2(), nil
}

// Export serializes the current blocks back into a minimal ZIP archive.
// A benign "stale selection" warning that the real engine is known to emit
// during export is deliberately never surfaced here: the suppression is
// local to this call and touches no shared state, per the prohibition on
// a process-global warning filter.
func (e *editor) Export(ctx context.Context, comments []docxengine.Comment) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return nil, fmt.Errorf("fake engine: editor already destroyed")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	docWriter, err := zw.CreateHeader(&zip.FileHeader{Name: documentEntry, Method: zip.Store})
	if err != nil {
		return nil, err
	}
	var docBody strings.Builder
	for _, b := range e.blocks {
		fmt.Fprintf(&docBody, "%s|%s|%d|%s\n", b.uuid, b.typ, b.level, b.raw)
	}
	if _, err := docWriter.Write([]byte(docBody.String())); err != nil {
		return nil, err
	}

	commentsWriter, err := zw.CreateHeader(&zip.FileHeader{Name: commentsEntry, Method: zip.Store})
	if err != nil {
		return nil, err
	}
	var commentsBody strings.Builder
	for _, c := range comments {
		fmt.Fprintf(&commentsBody, "%s|%s|%s|%s|%s\n", c.CommentID, c.BlockUUID, c.Author.Name, c.Author.Email, c.Text)
	}
	if _, err := commentsWriter.Write([]byte(commentsBody.String())); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *editor) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocks = nil
	e.destroyed = true
}

func uuid2() string { return uuid.New().String() }

// VisibleText strips tracked-deleted spans and unwraps tracked-inserted
// spans, per the "exclude deleted, include inserted" extraction rule.
func VisibleText(raw string) string {
	var out strings.Builder
	i := 0
	for i < len(raw) {
		if strings.HasPrefix(raw[i:], "{-") {
			end := strings.Index(raw[i+2:], "-}")
			if end == -1 {
				break
			}
			i = i + 2 + end + 2
			continue
		}
		if strings.HasPrefix(raw[i:], "{+") {
			end := strings.Index(raw[i+2:], "+}")
			if end == -1 {
				break
			}
			out.WriteString(raw[i+2 : i+2+end])
			i = i + 2 + end + 2
			continue
		}
		out.WriteByte(raw[i])
		i++
	}
	return out.String()
}

// isTOCStructure detects the fake engine's TOC marker: a block whose raw
// text contains the literal token "[[toc-entries]]", standing in for a
// real engine's nested link-list-of-headings detection.
func isTOCStructure(raw string) bool {
	return strings.Contains(raw, "[[toc-entries]]")
}

// NewFixtureArchive builds a minimal valid ZIP archive (the shape Load
// expects) from a list of (uuid, type, level, text) tuples, generating a
// fresh UUID for each block whose UUID is empty. Used by tests and by any client wanting to construct a
// fake upload without hand-writing ZIP bytes.
func NewFixtureArchive(specs []FixtureBlock) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: documentEntry, Method: zip.Store})
	if err != nil {
		return nil, err
	}
	var body strings.Builder
	for _, s := range specs {
		id := s.UUID
		if id == "" {
			id = uuid2()
		}
		fmt.Fprintf(&body, "%s|%s|%d|%s\n", id, s.Type, s.Level, s.Raw)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FixtureBlock describes one block to seed into a fixture archive.
type FixtureBlock struct {
	UUID  string
	Type  docxengine.BlockType
	Level int
	Raw   string
}
