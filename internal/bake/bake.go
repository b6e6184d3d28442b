// Package bake recursively inlines the content of linked documents into a
// host document, producing a single flattened text. Reference targets that
// cannot be inlined keep their original markup; cycles are broken by an
// ancestor chain passed down each recursive call.
package bake

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Kind distinguishes the two reference syntaxes a document can carry.
type Kind int

const (
	// KindLink is a plain link that renders as its own text.
	KindLink Kind = iota
	// KindEmbed is an embed reference, always eligible for inlining.
	KindEmbed
)

// Reference is a located pointer inside a document's text. Start and End
// are byte offsets in the original, unfiltered text.
type Reference struct {
	Kind    Kind
	Start   int
	End     int
	Link    string // target path, optionally followed by #subpath
	Display string // optional display text
}

// Document is an opaque handle to a unit of content in the host store.
type Document interface {
	// ID returns a stable identity used for cycle detection.
	ID() string
	// Bakeable reports whether the document's content can be inlined as
	// text. Non-bakeable targets are rewritten to file links or skipped.
	Bakeable() bool
}

// Index exposes a document's structural metadata: located references and
// sub-range resolution. All offsets are in original byte coordinates.
type Index interface {
	Links() []Reference
	Embeds() []Reference
	// Subrange resolves a heading or block selector to a byte range.
	Subrange(selector string) (start, end int, ok bool)
}

// Host supplies the collaborators the baker depends on.
type Host interface {
	// Read returns the current text of a document. A failing read aborts
	// the bake of that document and propagates to the caller.
	Read(ctx context.Context, doc Document) (string, error)
	// Index returns structural metadata for a document, or nil when it
	// cannot be parsed. Without an index the text passes through verbatim.
	Index(ctx context.Context, doc Document) Index
	// Resolve maps a reference path to a target document, or nil when the
	// target does not exist.
	Resolve(link string, from Document) Document
	// FileURL returns a platform file URL for a non-bakeable target, or
	// false when the platform cannot produce one.
	FileURL(doc Document) (string, bool)
}

// Settings control which references are processed and how.
type Settings struct {
	BakeHidden       bool // keep %%hidden%% regions instead of stripping them
	BakeLinks        bool // process plain links
	BakeEmbeds       bool // process embed references
	BakeInList       bool // merge references at the start of list items into the item
	ConvertFileLinks bool // rewrite non-document targets into file:// embeds
}

// DefaultSettings processes both reference kinds and merges list embeds.
func DefaultSettings() Settings {
	return Settings{BakeLinks: true, BakeEmbeds: true, BakeInList: true}
}

// ancestors is the chain of documents currently being baked. Every
// recursive call derives its own copy, so sibling subtrees never see each
// other's descendants as ancestors, only the true chain above them.
type ancestors map[string]struct{}

func (a ancestors) with(id string) ancestors {
	next := make(ancestors, len(a)+1)
	for k := range a {
		next[k] = struct{}{}
	}
	next[id] = struct{}{}
	return next
}

func (a ancestors) has(id string) bool {
	_, ok := a[id]
	return ok
}

// Bake produces the fully inlined text of doc. selector optionally narrows
// the bake to a heading or block sub-range ("#Heading", "#^blockid"); pass
// "" for the whole document. The only hard failure is an unreadable
// document; every per-reference failure leaves the original markup intact.
func Bake(ctx context.Context, host Host, doc Document, selector string, s Settings) (string, error) {
	return bakeDoc(ctx, host, doc, selector, ancestors{}, s)
}

func bakeDoc(ctx context.Context, host Host, doc Document, selector string, anc ancestors, s Settings) (string, error) {
	raw, err := host.Read(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", doc.ID(), err)
	}

	text, hidden := stripHidden(raw, s.BakeHidden)

	idx := host.Index(ctx, doc)
	if idx == nil {
		return text, nil
	}

	// posOffset is the cumulative delta between original reference offsets
	// and their live positions in text. Sub-range narrowing seeds it;
	// every replacement compounds it.
	posOffset := 0
	if selector != "" {
		if start, end, ok := idx.Subrange(selector); ok {
			start = adjustOffset(start, hidden)
			end = adjustOffset(end, hidden)
			if start < 0 {
				start = 0
			}
			if end > len(text) {
				end = len(text)
			}
			if start <= end {
				text = text[start:end]
				posOffset = -start
			}
		}
	}

	var refs []Reference
	if s.BakeLinks {
		refs = append(refs, idx.Links()...)
	}
	if s.BakeEmbeds {
		refs = append(refs, idx.Embeds()...)
	}
	if len(refs) == 0 {
		return text, nil
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })

	sub := anc.with(doc.ID())

	for _, ref := range refs {
		if insideHidden(ref.Start, ref.End, hidden) {
			continue
		}
		start := adjustOffset(ref.Start, hidden) + posOffset
		end := adjustOffset(ref.End, hidden) + posOffset
		if start < 0 || end > len(text) || start > end {
			// Outside the narrowed sub-range.
			continue
		}
		before, after := text[:start], text[end:]

		linkPath, subpath := splitSubpath(ref.Link)
		target := host.Resolve(linkPath, doc)
		if target == nil {
			continue
		}

		sh := classify(before, after, s.BakeInList)

		var replacement string
		switch {
		case !target.Bakeable():
			if !s.ConvertFileLinks {
				continue
			}
			u, ok := host.FileURL(target)
			if !ok {
				continue
			}
			replacement = "![](" + u + ")"
		case sub.has(target.ID()) || sh.inline:
			replacement = fallbackText(ref)
		default:
			baked, err := bakeDoc(ctx, host, target, subpath, sub, s)
			if err != nil {
				return "", err
			}
			baked = sanitize(baked)
			if sh.listPrefix != "" {
				baked = mergeListItem(baked, sh.listPrefix)
			}
			replacement = baked
		}

		text = before + replacement + after
		posOffset += len(replacement) - (end - start)
	}

	return text, nil
}

// splitSubpath separates "path#subpath". Resolution ignores the subpath;
// recursion consumes it.
func splitSubpath(link string) (path, subpath string) {
	if i := strings.Index(link, "#"); i >= 0 {
		return link[:i], link[i:]
	}
	return link, ""
}

// fallbackText renders a reference as plain text: its display text when
// present, otherwise the raw link path.
func fallbackText(ref Reference) string {
	if ref.Display != "" {
		return ref.Display
	}
	return ref.Link
}

// sanitize prepares recursively baked content for splicing into the parent:
// frontmatter is dropped and trailing blank structure trimmed.
func sanitize(content string) string {
	return strings.TrimRight(stripFrontmatter(content), " \t\n")
}

func stripFrontmatter(content string) string {
	const fence = "---\n"
	if !strings.HasPrefix(content, fence) {
		return content
	}
	rest := content[len(fence):]
	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		return rest[i+len("\n---\n"):]
	}
	if strings.HasSuffix(rest, "\n---") {
		return ""
	}
	return content
}
