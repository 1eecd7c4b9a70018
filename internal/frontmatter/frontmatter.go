// Package frontmatter strips leading front matter blocks from Markdown
// documents before conversion. It is pure text slicing: the block's content
// is never parsed.
package frontmatter

import "strings"

// Strip removes a leading Jekyll ("---") or Zola ("+++") front matter block.
//
// Contract:
//   - Leading whitespace is ignored when looking for the opening delimiter.
//   - The closing delimiter must match the opening one.
//   - If the block never closes, the document is treated as having no front
//     matter and is returned unchanged. Strip never fails.
func Strip(src string) string {
	trimmed := strings.TrimSpace(src)
	lines := strings.Split(trimmed, "\n")

	delim := strings.TrimRight(lines[0], "\r")
	if delim != "---" && delim != "+++" {
		return src
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") != delim {
			continue
		}
		if i+1 >= len(lines) {
			return ""
		}
		return strings.Join(lines[i+1:], "\n")
	}

	// No closing delimiter: not front matter.
	return src
}
