package gemtext

import (
	"fmt"
	"strings"
)

// footnoteEntry is one deferred link: the URL it points at, the optional
// Markdown title, and the visible text it was rendered with.
type footnoteEntry struct {
	index int
	url   string
	title string
	text  string
}

// footnoteTable is an ordered registry of links deferred to the end of a
// paragraph or the end of the document. Indices are 1-based and assigned
// at the moment a link is rendered.
//
// Scope is decided by the link mode: LinksParagraph starts a fresh table at
// every paragraph boundary, LinksAtEnd keeps one table for the whole
// document.
type footnoteTable struct {
	entries []footnoteEntry
}

func newFootnoteTable() *footnoteTable {
	return &footnoteTable{}
}

// add registers a link and returns its 1-based index within this scope.
func (t *footnoteTable) add(url, title, text string) int {
	index := len(t.entries) + 1
	t.entries = append(t.entries, footnoteEntry{
		index: index,
		url:   url,
		title: title,
		text:  text,
	})
	return index
}

func (t *footnoteTable) len() int {
	return len(t.entries)
}

// render emits one gemtext link directive per entry, in ascending index
// order, each terminated by a newline. The label prefers the Markdown title
// over the link text and is omitted when it would just repeat the URL.
func (t *footnoteTable) render() string {
	var b strings.Builder
	for _, e := range t.entries {
		label := e.title
		if label == "" {
			label = e.text
		}
		if label == e.url {
			label = ""
		}
		if label == "" {
			fmt.Fprintf(&b, "=> %s %d\n", e.url, e.index)
		} else {
			fmt.Fprintf(&b, "=> %s %d: %s\n", e.url, e.index, label)
		}
	}
	return b.String()
}
