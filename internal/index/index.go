// Package index builds the structural metadata the baker consumes from a
// markdown note: reference locations with byte offsets, headings, and block
// identifiers. The baker itself never parses markup; it trusts this index.
package index

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/dgallion1/notebake/internal/bake"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a located markdown heading.
type Heading struct {
	Text  string
	Level int
	Start int // byte offset of the heading line
}

type span struct {
	start, end int
}

// DocIndex is the parsed structure of one markdown document. It implements
// bake.Index.
type DocIndex struct {
	src      []byte
	links    []bake.Reference
	embeds   []bake.Reference
	headings []Heading
	blocks   map[string]span
}

// Parse builds a DocIndex from markdown source.
func Parse(src []byte) *DocIndex {
	ix := &DocIndex{src: src, blocks: make(map[string]span)}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var code []span
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		ix.walkBlock(n, &code)
	}

	ix.scanReferences(code)
	return ix
}

// walkBlock collects headings, block identifiers, and code spans from the
// goldmark AST. Code spans shield their content from reference scanning.
func (ix *DocIndex) walkBlock(n ast.Node, code *[]span) {
	if n.Type() != ast.TypeBlock {
		return
	}

	switch node := n.(type) {
	case *ast.Heading:
		if node.Lines().Len() > 0 {
			seg := node.Lines().At(0)
			ix.headings = append(ix.headings, Heading{
				Text:  string(node.Text(ix.src)),
				Level: node.Level,
				Start: lineStart(ix.src, seg.Start),
			})
		}
		return
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if s, ok := blockSpan(ix.src, n); ok {
			*code = append(*code, s)
		}
		return
	default:
		if s, ok := blockSpan(ix.src, n); ok {
			ix.recordBlockID(s)
		}
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		ix.walkBlock(c, code)
	}
}

// blockSpan returns the byte range covered by a block node's lines.
func blockSpan(src []byte, n ast.Node) (span, bool) {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return span{}, false
	}
	first := lines.At(0)
	last := lines.At(lines.Len() - 1)
	return span{start: lineStart(src, first.Start), end: last.Stop}, true
}

func lineStart(src []byte, off int) int {
	for off > 0 && src[off-1] != '\n' {
		off--
	}
	return off
}

var blockIDRE = regexp.MustCompile(`(?:^|[ \t])\^([A-Za-z0-9-]+)[ \t]*$`)

// recordBlockID registers "... ^id" block markers. The stored span excludes
// the marker so extracted content stays clean.
func (ix *DocIndex) recordBlockID(s span) {
	block := string(ix.src[s.start:s.end])
	m := blockIDRE.FindStringSubmatchIndex(block)
	if m == nil {
		return
	}
	id := block[m[2]:m[3]]
	ix.blocks[strings.ToLower(id)] = span{start: s.start, end: s.start + m[0]}
}

var (
	wikilinkRE = regexp.MustCompile(`(!?)\[\[([^\[\]\n]+)\]\]`)
	mdlinkRE   = regexp.MustCompile(`(!?)\[([^\]\n]*)\]\(([^()\s]+)\)`)
	schemeRE   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)
)

// scanReferences locates wikilink and inline markdown references outside
// code blocks. Offsets are original byte coordinates.
func (ix *DocIndex) scanReferences(code []span) {
	var taken []span

	for _, m := range wikilinkRE.FindAllSubmatchIndex(ix.src, -1) {
		start, end := m[0], m[1]
		if overlaps(start, end, code) {
			continue
		}
		inner := string(ix.src[m[4]:m[5]])
		link, display := inner, ""
		if i := strings.Index(inner, "|"); i >= 0 {
			link, display = inner[:i], inner[i+1:]
		}
		ix.add(m[3] > m[2], bake.Reference{
			Start:   start,
			End:     end,
			Link:    strings.TrimSpace(link),
			Display: strings.TrimSpace(display),
		})
		taken = append(taken, span{start: start, end: end})
	}

	for _, m := range mdlinkRE.FindAllSubmatchIndex(ix.src, -1) {
		start, end := m[0], m[1]
		if overlaps(start, end, code) || overlaps(start, end, taken) {
			continue
		}
		target := string(ix.src[m[6]:m[7]])
		if schemeRE.MatchString(target) {
			continue
		}
		if dec, err := url.PathUnescape(target); err == nil {
			target = dec
		}
		ix.add(m[3] > m[2], bake.Reference{
			Start:   start,
			End:     end,
			Link:    target,
			Display: string(ix.src[m[4]:m[5]]),
		})
	}

	sort.Slice(ix.links, func(i, j int) bool { return ix.links[i].Start < ix.links[j].Start })
	sort.Slice(ix.embeds, func(i, j int) bool { return ix.embeds[i].Start < ix.embeds[j].Start })
}

func (ix *DocIndex) add(embed bool, ref bake.Reference) {
	if embed {
		ref.Kind = bake.KindEmbed
		ix.embeds = append(ix.embeds, ref)
	} else {
		ref.Kind = bake.KindLink
		ix.links = append(ix.links, ref)
	}
}

func overlaps(start, end int, spans []span) bool {
	for _, s := range spans {
		if start < s.end && end > s.start {
			return true
		}
	}
	return false
}

// Links implements bake.Index.
func (ix *DocIndex) Links() []bake.Reference { return ix.links }

// Embeds implements bake.Index.
func (ix *DocIndex) Embeds() []bake.Reference { return ix.embeds }

// Headings returns the document's headings in order of appearance.
func (ix *DocIndex) Headings() []Heading { return ix.headings }

// Subrange implements bake.Index: "#Heading" and nested "#A#B" selectors
// resolve to a heading section (the heading line through the next heading
// of the same or shallower level), "#^id" to a block span.
func (ix *DocIndex) Subrange(selector string) (int, int, bool) {
	sel := strings.TrimPrefix(selector, "#")
	if sel == "" {
		return 0, 0, false
	}

	if strings.HasPrefix(sel, "^") {
		s, ok := ix.blocks[strings.ToLower(sel[1:])]
		if !ok {
			return 0, 0, false
		}
		return s.start, s.end, true
	}

	parts := strings.Split(sel, "#")
	from, level, found := 0, 0, -1
	for _, part := range parts {
		found = -1
		for i := from; i < len(ix.headings); i++ {
			h := ix.headings[i]
			if level > 0 && h.Level <= level {
				break // left the parent heading's section
			}
			if headingMatch(h.Text, part) {
				found, from, level = i, i+1, h.Level
				break
			}
		}
		if found < 0 {
			return 0, 0, false
		}
	}

	h := ix.headings[found]
	end := len(ix.src)
	for i := found + 1; i < len(ix.headings); i++ {
		if ix.headings[i].Level <= h.Level {
			end = ix.headings[i].Start
			break
		}
	}
	return h.Start, end, true
}

func headingMatch(heading, want string) bool {
	return strings.EqualFold(strings.TrimSpace(heading), strings.TrimSpace(want))
}
