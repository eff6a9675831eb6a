package editmodel

import (
	"fmt"
	"strings"
)

// markdownHeaderMarkers are the shape signals used to decide "is this
// markdown" before attempting to parse (spec §4.9.4 decoding rule).
var markdownHeaderMarkers = []string{
	"# Edits",
	"## Edits Table",
	"## Metadata",
	"| Block |",
}

// LooksLikeMarkdown reports whether raw appears to open with one of the
// recognized markdown edits document markers.
func LooksLikeMarkdown(raw string) bool {
	trimmed := strings.TrimLeft(raw, " \t\r\n")
	for _, marker := range markdownHeaderMarkers {
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
	}
	return false
}

// Metadata holds the optional "## Metadata" section of a markdown edits doc.
type Metadata struct {
	Version     string
	AuthorName  string
	AuthorEmail string
}

type section int

const (
	sectionNone section = iota
	sectionMetadata
	sectionTable
	sectionReplacement
)

// DecodeMarkdown parses a markdown edits document (spec §6.2.2) into a
// normalized edit list. warnings accumulates non-fatal parser notices
// (malformed table rows, missing replacement-text sections); err is
// non-nil only when the document is unparseable or yields no edits at all.
func DecodeMarkdown(raw string) (edits []Edit, meta Metadata, warnings []string, err error) {
	lines := strings.Split(raw, "\n")

	replacements := map[string]string{} // key: seqId+"\x00"+kind -> text
	var rows [][]string

	cur := sectionNone
	var replKey string
	var replBuf strings.Builder
	flushReplacement := func() {
		if replKey != "" {
			replacements[replKey] = strings.TrimRight(replBuf.String(), "\n")
		}
		replKey = ""
		replBuf.Reset()
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "## Metadata"):
			flushReplacement()
			cur = sectionMetadata
			continue
		case strings.HasPrefix(trimmed, "## Edits Table"):
			flushReplacement()
			cur = sectionTable
			continue
		case strings.HasPrefix(trimmed, "## Replacement Text"):
			flushReplacement()
			cur = sectionReplacement
			continue
		case strings.HasPrefix(trimmed, "# Edits"):
			continue
		}

		switch cur {
		case sectionMetadata:
			parseMetadataLine(trimmed, &meta)

		case sectionTable:
			if !strings.HasPrefix(trimmed, "|") {
				continue
			}
			if isTableSeparatorRow(trimmed) || isTableHeaderRow(trimmed) {
				continue
			}
			rows = append(rows, splitTableRow(trimmed))

		case sectionReplacement:
			if strings.HasPrefix(trimmed, "### ") {
				flushReplacement()
				seqId, kind, ok := parseReplacementHeader(trimmed)
				if ok {
					replKey = seqId + "\x00" + kind
				}
				continue
			}
			if replKey != "" {
				replBuf.WriteString(line)
				replBuf.WriteString("\n")
			}
		}
	}
	flushReplacement()

	for _, cells := range rows {
		if len(cells) != 4 {
			warnings = append(warnings, fmt.Sprintf("skipping malformed edits table row (expected 4 cells, got %d)", len(cells)))
			continue
		}
		e, warn := rowToEdit(cells, replacements)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		edits = append(edits, e)
	}

	if len(edits) == 0 {
		return nil, meta, warnings, fmt.Errorf("markdown edits document: no usable rows found")
	}

	return edits, meta, warnings, nil
}

func parseMetadataLine(line string, meta *Metadata) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	switch key {
	case "Version":
		meta.Version = value
	case "Author Name":
		meta.AuthorName = value
	case "Author Email":
		meta.AuthorEmail = value
	}
}

func isTableHeaderRow(row string) bool {
	cells := splitTableRow(row)
	if len(cells) != 4 {
		return false
	}
	return strings.EqualFold(cells[0], "Block") && strings.EqualFold(cells[1], "Op")
}

func isTableSeparatorRow(row string) bool {
	for _, r := range row {
		switch r {
		case '|', '-', ' ', ':':
			continue
		default:
			return false
		}
	}
	return strings.Contains(row, "-")
}

func splitTableRow(row string) []string {
	trimmed := strings.TrimSpace(row)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// parseReplacementHeader parses "### b005 newText" into ("b005", "newText").
func parseReplacementHeader(header string) (seqId, kind string, ok bool) {
	body := strings.TrimSpace(strings.TrimPrefix(header, "###"))
	fields := strings.Fields(body)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

func rowToEdit(cells []string, replacements map[string]string) (Edit, string) {
	blockRef := cells[0]
	op := Operation(strings.ToLower(cells[1]))
	diffCell := cells[2]
	comment := cells[3]

	e := Edit{Operation: op}
	if comment != "" && comment != "-" {
		e.Comment = comment
	}
	if diffCell != "-" && diffCell != "" {
		e.DiffSet = true
		e.Diff = strings.EqualFold(diffCell, "true")
	}

	var warning string
	switch op {
	case OpInsert:
		e.AfterBlockId = blockRef
		if text, ok := replacements[blockRef+"\x00insertText"]; ok {
			e.Text = text
		} else {
			warning = fmt.Sprintf("insert row for %q has no matching insertText section", blockRef)
		}
	case OpReplace:
		e.BlockId = blockRef
		if text, ok := replacements[blockRef+"\x00newText"]; ok {
			e.NewText = text
		} else {
			warning = fmt.Sprintf("replace row for %q has no matching newText section", blockRef)
		}
	default:
		e.BlockId = blockRef
	}

	return e, warning
}
