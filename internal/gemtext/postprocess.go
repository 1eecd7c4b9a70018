package gemtext

import (
	"errors"
	"strings"
)

// Sentinel markers inserted by the renderer. They are opaque cut points, not
// markup: the control bytes cannot be produced by rendering Markdown text,
// and fenced code content is copied without ever being scanned for them.
const (
	// paragraphMark wraps the raw joined text of one paragraph, embedded
	// source line breaks included, so the post-processor can normalize its
	// whitespace exactly once.
	paragraphMark = "\x02\x10pg\x10\x02"

	// linkMark marks a point where a link directive line must later be cut
	// onto its own line. Adjacent markers collapse into one cut.
	linkMark = "\x02\x10ln\x10\x02"
)

// ErrUnbalancedSentinel reports a paragraph marker without its closing
// partner reaching the post-processor. This cannot happen with a correct
// renderer; it indicates an internal defect and aborts the conversion rather
// than emitting corrupted gemtext.
var ErrUnbalancedSentinel = errors.New("gemtext: unbalanced sentinel marker in intermediate text")

// postProcess applies the whole-document transform sequence, in fixed order,
// to the renderer's intermediate text.
func postProcess(text string, doc *footnoteTable, opts Options) (string, error) {
	// 1. Resolve paragraph sentinel pairs.
	text, err := resolveParagraphs(text)
	if err != nil {
		return "", err
	}

	// 2. Append the document-scope footnote block.
	if opts.LinkMode == LinksAtEnd && doc.len() > 0 {
		text = strings.TrimRight(text, "\n") + "\n\n" + doc.render()
	}

	// 3. Collapse runs of link markers: each stands for "cut here once".
	for strings.Contains(text, linkMark+linkMark) {
		text = strings.ReplaceAll(text, linkMark+linkMark, linkMark)
	}

	// 4. A marker touching an existing line break would only double it;
	// delete it outright.
	text = strings.ReplaceAll(text, linkMark+"\n", "\n")
	text = strings.ReplaceAll(text, "\n"+linkMark, "\n")

	// 5. Remaining markers become line breaks.
	text = strings.ReplaceAll(text, linkMark, "\n")

	// 6. Strip leading whitespace from lines following a link directive,
	// except inside preformatted blocks. Indentation after a directive would
	// visually continue a list or quote prefix that no longer applies.
	lines := strings.Split(text, "\n")
	pre := false
	for i, line := range lines {
		if strings.HasPrefix(line, "```") {
			pre = !pre
			continue
		}
		if !pre && strings.HasPrefix(line, "=>") && i+1 < len(lines) {
			lines[i+1] = strings.TrimLeft(lines[i+1], " \t")
		}
	}

	// 7. Drop a single trailing empty line and rejoin.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n"), nil
}

// resolveParagraphs repeatedly extracts the leftmost paragraph marker pair,
// folds the enclosed text onto one line and splices it back followed by a
// blank line. Each iteration removes exactly one pair, so the loop
// terminates; a no-op on marker-free text makes the transform idempotent.
func resolveParagraphs(text string) (string, error) {
	for {
		start := strings.Index(text, paragraphMark)
		if start < 0 {
			return text, nil
		}
		rest := text[start+len(paragraphMark):]
		end := strings.Index(rest, paragraphMark)
		if end < 0 {
			return "", ErrUnbalancedSentinel
		}
		text = text[:start] + foldLines(rest[:end]) + "\n\n" + rest[end+len(paragraphMark):]
	}
}

// foldLines normalizes line break variants and joins a paragraph's source
// lines with single spaces, the way Markdown renders a wrapped paragraph as
// one logical line.
func foldLines(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", " ")
}
