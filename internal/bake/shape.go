package bake

import (
	"regexp"
	"strings"
)

// shape describes how a reference sits in its surrounding text: alone on
// its line, at the start of a list item, or inline amid other content.
// Inline references never recurse; they render as plain text.
type shape struct {
	inline     bool
	listPrefix string // full list prefix: indent, marker, trailing spaces
}

var (
	// Only whitespace between the reference and the start of its line.
	lineStartRE = regexp.MustCompile(`(?:^|\n)[ \t]*$`)
	// Only whitespace between the reference and the end of its line.
	lineEndRE = regexp.MustCompile(`^[ \t]*(?:\n|$)`)
	// A list item opener directly before the reference.
	listPrefixRE = regexp.MustCompile(`(?:^|\n)([ \t]*(?:[-*+]|\d+[.)]) +)$`)
	// Leading bullet or number marker of baked list content.
	leadMarkerRE = regexp.MustCompile(`^[ \t]*(?:[-*+]|\d+[.)])[ \t]+`)
)

// classify decides the text shape of a pending replacement given the live
// text on either side of it.
func classify(before, after string, bakeInList bool) shape {
	var listPrefix string
	if bakeInList {
		if m := listPrefixRE.FindStringSubmatch(before); m != nil {
			listPrefix = m[1]
		}
	}
	bare := lineStartRE.MatchString(before)
	endOK := lineEndRE.MatchString(after)

	sh := shape{listPrefix: listPrefix}
	sh.inline = (!bare && listPrefix == "") || !endOK
	if sh.inline {
		sh.listPrefix = ""
	}
	return sh
}

// mergeListItem folds baked content into an existing list item: the
// content's own first marker is dropped so its first line continues the
// item, and every following line is indented to the item's prefix width.
func mergeListItem(content, prefix string) string {
	content = leadMarkerRE.ReplaceAllString(content, "")
	indent := strings.Repeat(" ", len(prefix))
	return strings.ReplaceAll(content, "\n", "\n"+indent)
}
