package gemtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveParagraphs_MarkerFreeText_IsNoOp(t *testing.T) {
	in := "Hello world.\n\nmore text\n"

	out, err := resolveParagraphs(in)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestResolveParagraphs_FoldsAndAppendsBlankLine(t *testing.T) {
	out, err := resolveParagraphs(paragraphMark + "a\nb\r\nc" + paragraphMark)
	require.NoError(t, err)
	require.Equal(t, "a b c\n\n", out)
}

func TestResolveParagraphs_ResolvesLeftmostPairFirst(t *testing.T) {
	in := paragraphMark + "one\ntwo" + paragraphMark + paragraphMark + "three" + paragraphMark

	out, err := resolveParagraphs(in)
	require.NoError(t, err)
	require.Equal(t, "one two\n\nthree\n\n", out)
}

func TestResolveParagraphs_UnbalancedMarker_IsInternalError(t *testing.T) {
	_, err := resolveParagraphs("text" + paragraphMark + "dangling")
	require.ErrorIs(t, err, ErrUnbalancedSentinel)
}

func TestPostProcess_UnbalancedMarker_AbortsConversion(t *testing.T) {
	_, err := postProcess("x"+paragraphMark, newFootnoteTable(), Options{})
	require.ErrorIs(t, err, ErrUnbalancedSentinel)
}

func TestPostProcess_ConsecutiveLinkMarkers_CollapseToOneBreak(t *testing.T) {
	out, err := postProcess("a"+linkMark+linkMark+linkMark+"b", newFootnoteTable(), Options{})
	require.NoError(t, err)
	require.Equal(t, "a\nb", out)
}

func TestPostProcess_LinkMarkerNextToLineBreak_Deleted(t *testing.T) {
	out, err := postProcess("a\n"+linkMark+"b"+linkMark+"\nc", newFootnoteTable(), Options{})
	require.NoError(t, err)
	require.Equal(t, "a\nb\nc", out)
}

func TestPostProcess_WhitespaceAfterDirective_Stripped(t *testing.T) {
	out, err := postProcess("=> gemini://x\n  indented", newFootnoteTable(), Options{})
	require.NoError(t, err)
	require.Equal(t, "=> gemini://x\nindented", out)
}

func TestPostProcess_WhitespaceAfterDirectiveInFence_Kept(t *testing.T) {
	out, err := postProcess("```\n=> gemini://x\n  indented\n```", newFootnoteTable(), Options{})
	require.NoError(t, err)
	require.Equal(t, "```\n=> gemini://x\n  indented\n```", out)
}

func TestPostProcess_SingleTrailingEmptyLine_Dropped(t *testing.T) {
	out, err := postProcess("a\n\n", newFootnoteTable(), Options{})
	require.NoError(t, err)
	require.Equal(t, "a\n", out)
}

func TestPostProcess_AtEnd_AppendsFootnoteBlockOnce(t *testing.T) {
	fns := newFootnoteTable()
	fns.add("https://a.example", "", "a")
	fns.add("https://b.example", "", "b")

	out, err := postProcess("text\n\n", fns, Options{LinkMode: LinksAtEnd})
	require.NoError(t, err)
	require.Equal(t, "text\n\n=> https://a.example 1: a\n=> https://b.example 2: b", out)
}

func TestFoldLines_NormalizesBreakVariants(t *testing.T) {
	require.Equal(t, "a b c d", foldLines("  a\nb\r\nc\rd\n"))
}
