package gemtext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
)

// inlineMode selects how inline nodes are rendered within a block context.
type inlineMode int

const (
	// inlineNormal applies the configured link mode and decoration.
	inlineNormal inlineMode = iota

	// inlinePlain strips every inline mark down to bare text. Headings use
	// this unconditionally: gemtext heading lines cannot carry emphasis or
	// link directives.
	inlinePlain

	// inlineCell renders table cells: decoration follows the Plain option,
	// but links stay inline as bare visible text because table grids are
	// plain text, not directive lines.
	inlineCell
)

// renderer walks a Goldmark AST and produces the intermediate text consumed
// by postProcess. It is created per conversion and never reused.
type renderer struct {
	source []byte
	opts   Options

	// doc is the document-scope footnote table (LinksAtEnd).
	doc *footnoteTable
	// para is the footnote table of the paragraph currently being rendered
	// (LinksParagraph); nil outside any paragraph scope.
	para *footnoteTable
}

func newRenderer(source []byte, opts Options) *renderer {
	return &renderer{
		source: source,
		opts:   opts,
		doc:    newFootnoteTable(),
	}
}

// render walks the document's block children in order.
func (r *renderer) render(doc ast.Node) string {
	var b strings.Builder
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(r.renderBlock(c, false, 1))
	}
	return b.String()
}

// renderBlock renders one block node. nested is true when the node sits
// inside a block quote or list item, where output is already line based and
// follow-up blank lines are the container's business. depth carries the list
// nesting level.
func (r *renderer) renderBlock(node ast.Node, nested bool, depth int) string {
	switch n := node.(type) {
	case *ast.Heading:
		return r.renderHeading(n)
	case *ast.Paragraph:
		if nested {
			return foldLines(r.renderInlineChildren(n, inlineNormal)) + "\n\n"
		}
		return r.renderParagraph(n)
	case *ast.TextBlock:
		return foldLines(r.renderInlineChildren(n, inlineNormal)) + "\n"
	case *ast.Blockquote:
		return r.renderBlockquote(n, nested)
	case *ast.List:
		out := r.renderList(n, depth)
		if !nested {
			out += "\n"
		}
		return out
	case *ast.FencedCodeBlock:
		return r.renderFence(string(n.Language(r.source)), n, nested)
	case *ast.CodeBlock:
		return r.renderFence("", n, nested)
	case *ast.HTMLBlock:
		return r.renderHTMLBlock(n, nested)
	case *ast.ThematicBreak:
		if nested {
			return "---\n"
		}
		return "---\n\n"
	case *east.Table:
		out := r.renderTable(n)
		if !nested {
			out += "\n"
		}
		return out
	default:
		// Unknown block kinds contribute their children's text.
		var b strings.Builder
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			b.WriteString(r.renderBlock(c, nested, depth))
		}
		return b.String()
	}
}

// renderHeading clamps deep headings to gemtext's three levels and renders
// the heading text with all inline marks stripped.
func (r *renderer) renderHeading(n *ast.Heading) string {
	level := n.Level
	if level > 3 {
		level = 3
	}
	text := foldLines(r.renderInlineChildren(n, inlinePlain))
	return strings.Repeat("#", level) + " " + text + "\n"
}

// renderParagraph wraps the paragraph body in a sentinel pair so the
// post-processor can join its source lines exactly once. In paragraph link
// mode the reference block for this paragraph's links follows the closing
// sentinel, behind a link marker that dissolves against the blank line the
// paragraph resolution inserts.
func (r *renderer) renderParagraph(n *ast.Paragraph) string {
	if r.opts.LinkMode == LinksParagraph {
		r.para = newFootnoteTable()
		defer func() { r.para = nil }()
	}

	body := r.renderInlineChildren(n, inlineNormal)
	out := paragraphMark + body + paragraphMark

	if r.para != nil && r.para.len() > 0 {
		out += linkMark + r.para.render() + "\n"
	}
	return out
}

// renderBlockquote renders the quoted blocks eagerly (quote lines are final,
// there is nothing left to defer) and prefixes every resulting line. Nested
// quotes gain an additional prefix per level.
func (r *renderer) renderBlockquote(n *ast.Blockquote, nested bool) string {
	var inner strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		inner.WriteString(r.renderBlock(c, true, 1))
	}

	lines := strings.Split(strings.TrimRight(inner.String(), "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	if !nested {
		b.WriteString("\n")
	}
	return b.String()
}

// renderList renders each item at the given nesting depth. Gemtext has no
// nested list syntax, so structure is preserved through indentation text.
func (r *renderer) renderList(list *ast.List, depth int) string {
	index := list.Start
	if index == 0 {
		index = 1
	}

	var b strings.Builder
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "* "
		if list.IsOrdered() {
			bullet = strconv.Itoa(index) + ". "
			index++
		}
		b.WriteString(r.renderListItem(item, depth, bullet))
	}
	return b.String()
}

func (r *renderer) renderListItem(item ast.Node, depth int, bullet string) string {
	indent := strings.Repeat(r.opts.Indent, depth-1)

	var b strings.Builder
	first := true
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.List:
			b.WriteString(r.renderList(n, depth+1))
		case *ast.TextBlock, *ast.Paragraph:
			line := foldLines(r.renderInlineChildren(n, inlineNormal))
			if first {
				b.WriteString(indent + bullet + line + "\n")
				first = false
			} else {
				b.WriteString(indent + line + "\n")
			}
		default:
			b.WriteString(r.renderBlock(c, true, depth))
		}
	}
	if first {
		b.WriteString(indent + strings.TrimRight(bullet, " ") + "\n")
	}
	return b.String()
}

// renderFence emits a fenced preformatted block. The content lines are
// copied verbatim and are never scanned for sentinels or inline syntax.
func (r *renderer) renderFence(lang string, node ast.Node, nested bool) string {
	var b strings.Builder
	b.WriteString("```")
	b.WriteString(lang)
	b.WriteString("\n")

	content := r.nodeLines(node)
	b.WriteString(content)
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}

	b.WriteString("```\n")
	if !nested {
		b.WriteString("\n")
	}
	return b.String()
}

// renderHTMLBlock passes raw HTML through line-wise; gemtext clients treat
// it as plain text.
func (r *renderer) renderHTMLBlock(n *ast.HTMLBlock, nested bool) string {
	out := r.nodeLines(n)
	if n.HasClosure() {
		out += string(n.ClosureLine.Value(r.source))
	}
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if !nested {
		out += "\n"
	}
	return out
}

// nodeLines concatenates a block node's raw source lines.
func (r *renderer) nodeLines(node ast.Node) string {
	var b strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(r.source))
	}
	return b.String()
}

func (r *renderer) renderInlineChildren(parent ast.Node, mode inlineMode) string {
	var b strings.Builder
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		b.WriteString(r.renderInline(c, mode))
	}
	return b.String()
}

func (r *renderer) renderInline(node ast.Node, mode inlineMode) string {
	switch n := node.(type) {
	case *ast.Text:
		s := string(n.Segment.Value(r.source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			s += "\n"
		}
		return s
	case *ast.String:
		return string(n.Value)
	case *ast.CodeSpan:
		content := r.codeSpanText(n)
		if mode == inlinePlain || r.opts.Plain {
			return content
		}
		return "`" + content + "`"
	case *ast.Emphasis:
		inner := r.renderInlineChildren(n, mode)
		if mode == inlinePlain || r.opts.Plain {
			return inner
		}
		marks := strings.Repeat("*", n.Level)
		return marks + inner + marks
	case *ast.Link:
		text := r.renderInlineChildren(n, mode)
		return r.renderLink(text, string(n.Destination), string(n.Title), mode)
	case *ast.Image:
		alt := r.renderInlineChildren(n, inlinePlain) + r.opts.ImageTag
		return r.renderLink(alt, string(n.Destination), string(n.Title), mode)
	case *ast.AutoLink:
		url := string(n.URL(r.source))
		return r.renderLink(url, url, "", mode)
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(r.source))
		}
		return b.String()
	default:
		return r.renderInlineChildren(node, mode)
	}
}

// codeSpanText collects the literal content of a code span. The content is
// passed through unescaped and unscanned.
func (r *renderer) codeSpanText(n *ast.CodeSpan) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(r.source))
		}
	}
	return b.String()
}

// renderLink applies the configured link placement policy. Footnote table
// mutation happens only here; every other rendering rule is a pure function
// of its node.
func (r *renderer) renderLink(text, url, title string, mode inlineMode) string {
	if mode != inlineNormal {
		return text
	}

	switch r.opts.LinkMode {
	case LinksOff:
		return text
	case LinksParagraph:
		if r.para != nil {
			return fmt.Sprintf("%s [%d]", text, r.para.add(url, title, text))
		}
		// No paragraph scope is open here (list item or quote line); fall
		// back to newline placement so the URL is not silently dropped.
		return text + linkMark + linkDirective(url, text) + linkMark
	case LinksAtEnd:
		return fmt.Sprintf("%s [%d]", text, r.doc.add(url, title, text))
	default: // LinksNewline
		return text + linkMark + linkDirective(url, text) + linkMark
	}
}

// linkDirective builds a gemtext link line, omitting a label that would just
// repeat the URL (autolinks).
func linkDirective(url, label string) string {
	if label == "" || label == url {
		return "=> " + url
	}
	return "=> " + url + " " + label
}
