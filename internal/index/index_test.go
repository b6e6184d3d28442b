package index

import (
	"strings"
	"testing"

	"github.com/dgallion1/notebake/internal/bake"
)

func TestParse_Wikilinks(t *testing.T) {
	src := "See [[Other Note]] and ![[Embedded]] here.\n"
	ix := Parse([]byte(src))

	if len(ix.Links()) != 1 {
		t.Fatalf("expected 1 link, got %d", len(ix.Links()))
	}
	link := ix.Links()[0]
	if link.Link != "Other Note" {
		t.Errorf("expected link %q, got %q", "Other Note", link.Link)
	}
	if link.Kind != bake.KindLink {
		t.Errorf("expected KindLink, got %v", link.Kind)
	}
	if got := src[link.Start:link.End]; got != "[[Other Note]]" {
		t.Errorf("span mismatch: got %q", got)
	}

	if len(ix.Embeds()) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(ix.Embeds()))
	}
	embed := ix.Embeds()[0]
	if embed.Link != "Embedded" {
		t.Errorf("expected embed link %q, got %q", "Embedded", embed.Link)
	}
	if got := src[embed.Start:embed.End]; got != "![[Embedded]]" {
		t.Errorf("embed span mismatch: got %q", got)
	}
}

func TestParse_WikilinkDisplayAndSubpath(t *testing.T) {
	src := "[[Note#Section|shown text]]\n"
	ix := Parse([]byte(src))

	if len(ix.Links()) != 1 {
		t.Fatalf("expected 1 link, got %d", len(ix.Links()))
	}
	ref := ix.Links()[0]
	if ref.Link != "Note#Section" {
		t.Errorf("expected link %q, got %q", "Note#Section", ref.Link)
	}
	if ref.Display != "shown text" {
		t.Errorf("expected display %q, got %q", "shown text", ref.Display)
	}
}

func TestParse_MarkdownLinks(t *testing.T) {
	src := "A [doc](Other%20Note.md) and ![pic](assets/img.png), but not [ext](https://example.com).\n"
	ix := Parse([]byte(src))

	if len(ix.Links()) != 1 {
		t.Fatalf("expected 1 link, got %d: %+v", len(ix.Links()), ix.Links())
	}
	if ix.Links()[0].Link != "Other Note.md" {
		t.Errorf("expected unescaped target, got %q", ix.Links()[0].Link)
	}
	if ix.Links()[0].Display != "doc" {
		t.Errorf("expected display %q, got %q", "doc", ix.Links()[0].Display)
	}

	if len(ix.Embeds()) != 1 {
		t.Fatalf("expected 1 embed, got %d", len(ix.Embeds()))
	}
	if ix.Embeds()[0].Link != "assets/img.png" {
		t.Errorf("expected embed target %q, got %q", "assets/img.png", ix.Embeds()[0].Link)
	}
}

func TestParse_CodeBlocksShieldReferences(t *testing.T) {
	src := "[[Real]]\n\n```\n[[InCode]]\n```\n\n    [[Indented]]\n"
	ix := Parse([]byte(src))

	if len(ix.Links()) != 1 {
		t.Fatalf("expected 1 link, got %d: %+v", len(ix.Links()), ix.Links())
	}
	if ix.Links()[0].Link != "Real" {
		t.Errorf("expected only the real link, got %q", ix.Links()[0].Link)
	}
}

func TestParse_Headings(t *testing.T) {
	src := "intro\n# Top\nbody\n## Nested\nmore\n"
	ix := Parse([]byte(src))

	hs := ix.Headings()
	if len(hs) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(hs))
	}
	if hs[0].Text != "Top" || hs[0].Level != 1 {
		t.Errorf("unexpected first heading: %+v", hs[0])
	}
	if hs[0].Start != strings.Index(src, "# Top") {
		t.Errorf("expected heading start at line start, got %d", hs[0].Start)
	}
	if hs[1].Text != "Nested" || hs[1].Level != 2 {
		t.Errorf("unexpected second heading: %+v", hs[1])
	}
}

func TestSubrange_Heading(t *testing.T) {
	src := "intro\n# A\na-body\n## A1\na1-body\n# B\nb-body\n"
	ix := Parse([]byte(src))

	start, end, ok := ix.Subrange("#A")
	if !ok {
		t.Fatal("expected #A to resolve")
	}
	want := "# A\na-body\n## A1\na1-body\n"
	if got := src[start:end]; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSubrange_NestedHeading(t *testing.T) {
	src := "# A\n## Sub\nunder-a\n# B\n## Sub\nunder-b\n"
	ix := Parse([]byte(src))

	start, end, ok := ix.Subrange("#B#Sub")
	if !ok {
		t.Fatal("expected #B#Sub to resolve")
	}
	want := "## Sub\nunder-b\n"
	if got := src[start:end]; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSubrange_HeadingCaseInsensitive(t *testing.T) {
	src := "# Shopping List\nmilk\n"
	ix := Parse([]byte(src))

	if _, _, ok := ix.Subrange("#shopping list"); !ok {
		t.Error("expected case-insensitive heading match")
	}
}

func TestSubrange_UnknownSelector(t *testing.T) {
	ix := Parse([]byte("# A\nbody\n"))

	if _, _, ok := ix.Subrange("#Missing"); ok {
		t.Error("expected unknown heading to fail resolution")
	}
	if _, _, ok := ix.Subrange("#^nope"); ok {
		t.Error("expected unknown block to fail resolution")
	}
	if _, _, ok := ix.Subrange(""); ok {
		t.Error("expected empty selector to fail resolution")
	}
}

func TestSubrange_Block(t *testing.T) {
	src := "first para\n\nimportant fact ^fact1\n\nlast para\n"
	ix := Parse([]byte(src))

	start, end, ok := ix.Subrange("#^fact1")
	if !ok {
		t.Fatal("expected block selector to resolve")
	}
	if got := src[start:end]; got != "important fact" {
		t.Errorf("expected block content without marker, got %q", got)
	}
}

func TestParse_ReferenceOrderSorted(t *testing.T) {
	src := "z [[B]] then [[A]] end\n"
	ix := Parse([]byte(src))

	links := ix.Links()
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0].Start >= links[1].Start {
		t.Error("expected links sorted by start offset")
	}
	if links[0].Link != "B" || links[1].Link != "A" {
		t.Errorf("unexpected link order: %q, %q", links[0].Link, links[1].Link)
	}
}
