// Package docxengine declares the contract for the external DOCX editing
// engine this service wraps. The engine's internal representation (its
// "virtual DOM") is opaque; this package only names the operations the
// rest of the service depends on, per the editor engine contract.
package docxengine

import "context"

// Mode selects how the editor records mutations.
type Mode string

const (
	ModeEditing    Mode = "editing"
	ModeSuggesting Mode = "suggesting"
)

// BlockType mirrors the closed set of block kinds the IR extractor emits.
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"
	BlockHeading   BlockType = "heading"
	BlockListItem  BlockType = "listItem"
	BlockTableRow  BlockType = "tableRow"
	BlockTOC       BlockType = "toc"
)

// Author identifies who a tracked change or comment is attributed to.
type Author struct {
	Name  string
	Email string
}

// Node is one block-level node as seen by the engine's traversal, carrying
// its positional-space offsets and the engine-native UUID attribute.
type Node struct {
	UUID     string
	Type     BlockType
	Level    int
	Text     string
	StartPos int
	EndPos   int
	IsTOC    bool
}

// DiffOp is one element of a word-level tracked-change delta, applied by
// the engine end-to-start within a block.
type DiffOp struct {
	Kind  DiffKind
	Token string
}

type DiffKind string

const (
	DiffEqual  DiffKind = "equal"
	DiffInsert DiffKind = "insert"
	DiffDelete DiffKind = "delete"
)

// Comment is an external review comment bound to a block, returned by the
// applicator and passed back into Export so the exporter can emit it.
type Comment struct {
	BlockUUID string
	CommentID string
	Text      string
	Author    Author
}

// LoadOptions configures how a fresh editor instance is constructed.
type LoadOptions struct {
	Mode Mode
	User string
}

// Editor is a live, request-owned handle onto one loaded document. Every
// Editor obtained from a Factory MUST be released via Destroy on every
// exit path, including error paths.
type Editor interface {
	// Traverse returns block-level nodes in document order.
	Traverse(ctx context.Context) ([]Node, error)

	// Replace overwrites a block's text. If tracked is true, ops describes
	// a word-level delta to apply as a redline instead of a full overwrite.
	Replace(ctx context.Context, uuid string, text string, tracked bool, ops []DiffOp, author Author) error

	// Delete removes a block, recorded as a tracked change.
	Delete(ctx context.Context, uuid string, author Author) error

	// InsertAfter inserts a new block immediately after uuid and returns
	// the new block's engine-native UUID.
	InsertAfter(ctx context.Context, uuid string, text string, blockType BlockType, level int, author Author) (newUUID string, err error)

	// AddComment attaches an external review comment to a block.
	AddComment(ctx context.Context, uuid string, text string, author Author) (commentID string, err error)

	// Export serializes the current document state to DOCX bytes,
	// embedding the given external comments payload.
	Export(ctx context.Context, comments []Comment) ([]byte, error)

	// Destroy releases the editor's in-memory state, including any held
	// virtual DOM. Idempotent: safe to call more than once.
	Destroy()
}

// Factory constructs editors from a DOCX byte buffer.
type Factory interface {
	// Load parses buf and returns a live editor. On construction failure
	// any partially-created internal state MUST be released before the
	// error is returned.
	Load(ctx context.Context, buf []byte, opts LoadOptions) (Editor, error)
}
