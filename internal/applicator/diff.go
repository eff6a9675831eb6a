package applicator

import (
	"regexp"

	"github.com/docxredline/api/internal/docxengine"
)

// tokenRegex splits text into maximal runs of whitespace or non-whitespace,
// giving a word-and-whitespace tokenization.
var tokenRegex = regexp.MustCompile(`\s+|\S+`)

func tokenize(s string) []string {
	return tokenRegex.FindAllString(s, -1)
}

// WordDiff computes a minimal word-level diff between oldText and newText,
// returning a sequence of (equal|insert|delete, tokens) ops via a classic
// LCS-based alignment over the tokenized streams.
func WordDiff(oldText, newText string) []docxengine.DiffOp {
	a := tokenize(oldText)
	b := tokenize(newText)

	n, m := len(a), len(b)
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []docxengine.DiffOp
	appendOp := func(kind docxengine.DiffKind, token string) {
		if len(ops) > 0 && ops[len(ops)-1].Kind == kind {
			ops[len(ops)-1].Token += token
			return
		}
		ops = append(ops, docxengine.DiffOp{Kind: kind, Token: token})
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			appendOp(docxengine.DiffEqual, a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			appendOp(docxengine.DiffDelete, a[i])
			i++
		default:
			appendOp(docxengine.DiffInsert, b[j])
			j++
		}
	}
	for ; i < n; i++ {
		appendOp(docxengine.DiffDelete, a[i])
	}
	for ; j < m; j++ {
		appendOp(docxengine.DiffInsert, b[j])
	}

	return ops
}
