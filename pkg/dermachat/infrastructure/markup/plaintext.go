// Package markup renders the assistant's markdown replies for plain-text frontends (terminal, IRC).
package markup

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// ToPlainText strips markdown formatting. Lists keep a bullet (or their number), headings and paragraphs are
// separated by a blank line, and emphasis is dropped.
func ToPlainText(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	document := markdown.Parse([]byte(md), p)
	var builder strings.Builder
	// numbering of the enclosing ordered lists, innermost last
	var counters []int
	ast.WalkFunc(document, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				builder.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				builder.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				builder.Write(n.Literal)
				builder.WriteString("\n")
			}
		case *ast.Softbreak:
			if entering {
				builder.WriteString(" ")
			}
		case *ast.Hardbreak:
			if entering {
				builder.WriteString("\n")
			}
		case *ast.List:
			if entering {
				counters = append(counters, n.Start)
			} else {
				counters = counters[:len(counters)-1]
				builder.WriteString("\n")
			}
		case *ast.ListItem:
			if entering {
				builder.WriteString(strings.Repeat("  ", len(counters)-1))
				builder.WriteString(bullet(n, counters))
			} else {
				builder.WriteString("\n")
			}
		case *ast.Paragraph:
			if !entering && !isInsideListItem(n) {
				builder.WriteString("\n\n")
			}
		case *ast.Heading:
			if !entering {
				builder.WriteString("\n\n")
			}
		case *ast.HorizontalRule:
			if entering {
				builder.WriteString("\n")
			}
		}
		return ast.GoToNext
	})
	text := blankLines.ReplaceAllString(builder.String(), "\n\n")
	return strings.TrimSpace(text)
}

func bullet(item *ast.ListItem, counters []int) string {
	if item.ListFlags&ast.ListTypeOrdered == 0 {
		return "• "
	}
	last := len(counters) - 1
	if counters[last] == 0 {
		counters[last] = 1
	}
	number := counters[last]
	counters[last]++
	return strconv.Itoa(number) + ". "
}

func isInsideListItem(node ast.Node) bool {
	_, ok := node.GetParent().(*ast.ListItem)
	return ok
}
