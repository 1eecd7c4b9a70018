package gemtext

import (
	"strings"

	"github.com/rivo/uniseg"
	east "github.com/yuin/goldmark/extension/ast"
)

// renderTable renders a table node as a fixed-width plain text grid. Cells
// are inline-rendered without deferral: links stay as bare visible text,
// since a grid line cannot also be a directive line.
func (r *renderer) renderTable(t *east.Table) string {
	var header []string
	var rows [][]string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, foldLines(r.renderInlineChildren(cell, inlineCell)))
		}
		if _, ok := row.(*east.TableHeader); ok {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}
	return formatTable(header, rows, r.opts.ASCIITables)
}

type tableBorders struct {
	vertical   string
	horizontal string
	join       string
}

var (
	asciiBorders = tableBorders{vertical: "|", horizontal: "-", join: "+"}
	boxBorders   = tableBorders{vertical: "│", horizontal: "─", join: "┼"}
)

// formatTable lays out header and body rows on a shared set of column
// widths, with one separator rule between header and body. Zero body rows
// still produce the header and the rule.
func formatTable(header []string, rows [][]string, ascii bool) string {
	borders := boxBorders
	if ascii {
		borders = asciiBorders
	}

	widths := columnWidths(header, rows)

	var b strings.Builder
	b.WriteString(formatRow(header, widths, borders))
	b.WriteString(formatRule(widths, borders))
	for _, row := range rows {
		b.WriteString(formatRow(row, widths, borders))
	}
	return b.String()
}

// columnWidths measures every cell in grapheme clusters and keeps the
// per-column maximum. Cells are never wrapped.
func columnWidths(header []string, rows [][]string) []int {
	var widths []int
	measure := func(cells []string) {
		for i, cell := range cells {
			for i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := uniseg.GraphemeClusterCount(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}
	return widths
}

func formatRow(cells []string, widths []int, borders tableBorders) string {
	padded := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = cell + strings.Repeat(" ", w-uniseg.GraphemeClusterCount(cell))
	}
	return strings.TrimRight(strings.Join(padded, " "+borders.vertical+" "), " ") + "\n"
}

func formatRule(widths []int, borders tableBorders) string {
	segments := make([]string, len(widths))
	for i, w := range widths {
		segments[i] = strings.Repeat(borders.horizontal, w)
	}
	return strings.Join(segments, borders.horizontal+borders.join+borders.horizontal) + "\n"
}
