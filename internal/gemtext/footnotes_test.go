package gemtext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFootnoteTable_IndicesAreMonotonicFromOne(t *testing.T) {
	table := newFootnoteTable()
	require.Equal(t, 1, table.add("https://a.example", "", "a"))
	require.Equal(t, 2, table.add("https://b.example", "", "b"))
	require.Equal(t, 3, table.add("https://c.example", "", "c"))
	require.Equal(t, 3, table.len())
}

func TestFootnoteTable_Render_PrefersTitleOverText(t *testing.T) {
	table := newFootnoteTable()
	table.add("https://a.example", "A Title", "visible")

	require.Equal(t, "=> https://a.example 1: A Title\n", table.render())
}

func TestFootnoteTable_Render_FallsBackToText(t *testing.T) {
	table := newFootnoteTable()
	table.add("https://a.example", "", "visible")

	require.Equal(t, "=> https://a.example 1: visible\n", table.render())
}

func TestFootnoteTable_Render_OmitsLabelEqualToURL(t *testing.T) {
	table := newFootnoteTable()
	table.add("https://a.example", "", "https://a.example")

	require.Equal(t, "=> https://a.example 1\n", table.render())
}

func TestFootnoteTable_Render_AscendingIndexOrder(t *testing.T) {
	table := newFootnoteTable()
	table.add("https://a.example", "", "a")
	table.add("https://b.example", "", "b")

	require.Equal(t,
		"=> https://a.example 1: a\n=> https://b.example 2: b\n",
		table.render())
}
