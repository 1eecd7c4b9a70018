// Package gemtext converts Markdown documents into the Gemini text format
// ("gemtext", text/gemini).
//
// Gemtext is strictly line oriented: every output line is independently a
// plain text line, a heading, a link directive, a quote line, a list item or
// a line inside a preformatted block. Markdown's recursive inline structure
// therefore has to be flattened. Rendering happens in two stages: a tree walk
// over the Goldmark AST produces an intermediate string in which paragraph
// bodies and link placements are wrapped in opaque sentinel markers, and a
// post-processing pass resolves those markers once the whole document is
// known.
package gemtext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/gemdown/internal/frontmatter"
)

// LinkMode controls where a link's URL surfaces relative to its visible text.
type LinkMode int

const (
	// LinksNewline places a link directive line directly after the line
	// containing the link text. This is the default mode.
	LinksNewline LinkMode = iota

	// LinksOff drops URLs entirely; only the visible text remains.
	LinksOff

	// LinksParagraph numbers links per paragraph and places the reference
	// lines directly beneath the paragraph they occur in.
	LinksParagraph

	// LinksAtEnd numbers links across the whole document and appends a
	// single reference block at the very end of the output.
	LinksAtEnd
)

// ParseLinkMode maps a textual mode name onto a LinkMode.
//
// Unrecognized values (including the empty string) fall back to LinksNewline.
// This fallback is deliberate and matches the command line contract: any
// value that is not "off", "paragraph" or "at-end" means regular newline
// links.
func ParseLinkMode(s string) LinkMode {
	switch s {
	case "off":
		return LinksOff
	case "paragraph":
		return LinksParagraph
	case "at-end":
		return LinksAtEnd
	default:
		return LinksNewline
	}
}

// String returns the textual name of the mode, suitable for ParseLinkMode.
func (m LinkMode) String() string {
	switch m {
	case LinksOff:
		return "off"
	case LinksParagraph:
		return "paragraph"
	case LinksAtEnd:
		return "at-end"
	default:
		return "newline"
	}
}

// Options configures a single conversion. The zero value is usable; see
// DefaultOptions for the conventional defaults.
type Options struct {
	// ImageTag is appended after an image's alt text to mark it as an image.
	ImageTag string

	// Indent is repeated once per nesting level for sub-list indentation.
	// It must consist of spaces and tabs only.
	Indent string

	// ASCIITables draws tables with +, - and | instead of box drawing
	// characters.
	ASCIITables bool

	// LinkMode selects the link placement policy.
	LinkMode LinkMode

	// Plain removes decoration characters gemtext has no use for, like the
	// asterisks around emphasized text.
	Plain bool

	// Frontmatter removes a leading Jekyll ("---") or Zola ("+++") front
	// matter block before converting.
	Frontmatter bool
}

// DefaultOptions returns the conventional conversion defaults: "[IMG]" image
// tags, two-space list indentation and newline links.
func DefaultOptions() Options {
	return Options{
		ImageTag: "[IMG]",
		Indent:   "  ",
	}
}

var (
	// ErrInvalidIndent reports an Indent value containing characters other
	// than spaces and tabs.
	ErrInvalidIndent = errors.New("gemtext: indent must contain only spaces and tabs")

	// ErrInvalidImageTag reports an ImageTag containing line breaks, which
	// would split the line the tag is emitted on.
	ErrInvalidImageTag = errors.New("gemtext: image tag must not contain line breaks")

	// ErrInvalidLinkMode reports a LinkMode value outside the defined enum.
	ErrInvalidLinkMode = errors.New("gemtext: unknown link mode")
)

// Validate checks the options before any rendering begins.
func (o Options) Validate() error {
	for _, r := range o.Indent {
		if r != ' ' && r != '\t' {
			return fmt.Errorf("%w: %q", ErrInvalidIndent, o.Indent)
		}
	}
	if strings.ContainsAny(o.ImageTag, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidImageTag, o.ImageTag)
	}
	if o.LinkMode < LinksNewline || o.LinkMode > LinksAtEnd {
		return fmt.Errorf("%w: %d", ErrInvalidLinkMode, o.LinkMode)
	}
	return nil
}

// Convert renders a Markdown document as gemtext.
//
// The conversion is pure and deterministic: it performs no I/O and keeps no
// state across calls, so concurrent invocations are safe. An empty (or
// whitespace-only) document converts to the empty string.
func Convert(src string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	if opts.Frontmatter {
		src = frontmatter.Strip(src)
	}
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	source := []byte(src)
	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Linkify))
	root := md.Parser().Parse(text.NewReader(source))

	r := newRenderer(source, opts)
	intermediate := r.render(root)
	return postProcess(intermediate, r.doc, opts)
}
