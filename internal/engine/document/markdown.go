package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FromMarkdown builds a document from markdown source. Paragraphs,
// headings, and list items become blocks; inline emphasis and code spans
// become formatted runs. Soft line breaks inside a paragraph are
// flattened to spaces so block text never contains a newline.
func FromMarkdown(src string) (*Document, error) {
	d := New()
	source := []byte(src)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			runs := inlineRuns(source, node, 0)
			d.appendBlockLocked(BlockHeading, node.Level, runs)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			runs := listItemRuns(source, node)
			d.appendBlockLocked(BlockListItem, listDepth(node), runs)
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			runs := inlineRuns(source, node, 0)
			d.appendBlockLocked(BlockParagraph, 0, runs)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if len(d.order) == 0 {
		d.appendBlockLocked(BlockParagraph, 0, nil)
	}
	return d, nil
}

// listDepth counts how many lists enclose a list item.
func listDepth(item *ast.ListItem) int {
	depth := 0
	for p := item.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}
	return depth
}

// listItemRuns extracts the runs of a list item's first paragraph or
// text block. Nested lists under the item are visited separately by the
// walker.
func listItemRuns(src []byte, item *ast.ListItem) []Run {
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			return inlineRuns(src, c, 0)
		}
	}
	return nil
}

// inlineRuns flattens a block node's inline children into runs,
// carrying emphasis and code-span formatting.
func inlineRuns(src []byte, n ast.Node, format Format) []Run {
	var runs []Run
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			t := flattenInlineText(string(node.Segment.Value(src)))
			runs = appendRun(runs, Run{Text: t, Format: format})
			if node.SoftLineBreak() || node.HardLineBreak() {
				runs = appendRun(runs, Run{Text: " ", Format: format})
			}
		case *ast.Emphasis:
			f := format
			if node.Level >= 2 {
				f |= FormatBold
			} else {
				f |= FormatItalic
			}
			runs = append(runs, inlineRuns(src, node, f)...)
		case *ast.CodeSpan:
			for _, r := range inlineRuns(src, node, format|FormatCode) {
				runs = appendRun(runs, r)
			}
		default:
			// Links, images, etc: keep their text content.
			runs = append(runs, inlineRuns(src, c, format)...)
		}
	}
	return runs
}

// flattenInlineText replaces any embedded newline with a space;
// block text must never contain LF.
func flattenInlineText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
