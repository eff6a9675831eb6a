package editmodel

import (
	"encoding/json"
	"fmt"
)

// jsonEdit mirrors Edit but with a pointer Diff field so the decoder can
// tell "omitted" from "explicitly false" apart.
type jsonEdit struct {
	Operation    Operation `json:"operation"`
	BlockId      string    `json:"blockId,omitempty"`
	AfterBlockId string    `json:"afterBlockId,omitempty"`
	NewText      string    `json:"newText,omitempty"`
	Text         string    `json:"text,omitempty"`
	Diff         *bool     `json:"diff,omitempty"`
	Type         string    `json:"type,omitempty"`
	Level        int       `json:"level,omitempty"`
	Comment      string    `json:"comment,omitempty"`
	Author       *Author   `json:"author,omitempty"`
}

// DecodeJSON parses raw as a JSON array of Edit objects. Returns an error
// describing why decoding failed (the caller maps that to
// INVALID_EDITS_JSON / MISSING_EDITS as appropriate).
func DecodeJSON(raw []byte) ([]Edit, error) {
	var rawEdits []json.RawMessage
	if err := json.Unmarshal(raw, &rawEdits); err != nil {
		return nil, fmt.Errorf("edits: not a JSON array: %w", err)
	}

	edits := make([]Edit, 0, len(rawEdits))
	for i, re := range rawEdits {
		var je jsonEdit
		if err := json.Unmarshal(re, &je); err != nil {
			return nil, fmt.Errorf("edits[%d]: %w", i, err)
		}
		e := Edit{
			Operation:    je.Operation,
			BlockId:      je.BlockId,
			AfterBlockId: je.AfterBlockId,
			NewText:      je.NewText,
			Text:         je.Text,
			Type:         je.Type,
			Level:        je.Level,
			Comment:      je.Comment,
			Author:       je.Author,
		}
		if je.Diff != nil {
			e.DiffSet = true
			e.Diff = *je.Diff
		}
		edits = append(edits, e)
	}
	return edits, nil
}
