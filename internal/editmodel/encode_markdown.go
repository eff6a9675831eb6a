package editmodel

import (
	"fmt"
	"strings"
)

// EncodeMarkdown renders edits back into the markdown edits grammar. It is
// the inverse of DecodeMarkdown up to omitted default fields (an unset
// diff is written as "-", which decodes back to unset).
func EncodeMarkdown(edits []Edit, meta Metadata) string {
	var sb strings.Builder

	sb.WriteString("# Edits\n\n")

	if meta.Version != "" || meta.AuthorName != "" || meta.AuthorEmail != "" {
		sb.WriteString("## Metadata\n\n")
		if meta.Version != "" {
			fmt.Fprintf(&sb, "Version: %s\n", meta.Version)
		}
		if meta.AuthorName != "" {
			fmt.Fprintf(&sb, "Author Name: %s\n", meta.AuthorName)
		}
		if meta.AuthorEmail != "" {
			fmt.Fprintf(&sb, "Author Email: %s\n", meta.AuthorEmail)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Edits Table\n\n")
	sb.WriteString("| Block | Op | Diff | Comment |\n")
	sb.WriteString("|---|---|---|---|\n")
	for _, e := range edits {
		ref := e.TargetRef()
		diffCell := "-"
		if e.DiffSet {
			diffCell = "false"
			if e.Diff {
				diffCell = "true"
			}
		}
		comment := e.Comment
		if comment == "" {
			comment = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", ref, e.Operation, diffCell, comment)
	}
	sb.WriteString("\n")

	var replBuf strings.Builder
	for _, e := range edits {
		switch e.Operation {
		case OpReplace:
			if e.NewText != "" {
				fmt.Fprintf(&replBuf, "### %s newText\n%s\n\n", e.BlockId, e.NewText)
			}
		case OpInsert:
			if e.Text != "" {
				fmt.Fprintf(&replBuf, "### %s insertText\n%s\n\n", e.AfterBlockId, e.Text)
			}
		}
	}
	if replBuf.Len() > 0 {
		sb.WriteString("## Replacement Text\n\n")
		sb.WriteString(replBuf.String())
	}

	return sb.String()
}
