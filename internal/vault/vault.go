// Package vault is the filesystem content store behind the baker: it reads
// notes, resolves link paths to files, serves structural indexes, and maps
// assets to platform file URLs. Vault implements bake.Host.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/notebake/internal/bake"
	"github.com/dgallion1/notebake/internal/extract"
	"github.com/dgallion1/notebake/internal/index"
)

// Options control store behavior.
type Options struct {
	// ExtractAssets lets non-markdown targets (txt, csv, html, pdf, docx)
	// bake as extracted plain text instead of file links.
	ExtractAssets bool
	// FallbackPdftotext shells out to pdftotext when the Go PDF reader fails.
	FallbackPdftotext bool
}

// Vault is a directory of notes.
type Vault struct {
	root string
	opts Options

	mu    sync.Mutex
	names map[string][]string // lowercase basename -> vault-relative paths
	cache map[string]cachedIndex
}

type cachedIndex struct {
	modTime int64
	size    int64
	ix      *index.DocIndex
}

// File is a document handle: a vault-relative slash path.
type File struct {
	path  string
	vault *Vault
}

// ID implements bake.Document.
func (f *File) ID() string { return f.path }

// Path returns the vault-relative slash path.
func (f *File) Path() string { return f.path }

// Bakeable implements bake.Document: markdown always, other asset types
// only when text extraction is enabled.
func (f *File) Bakeable() bool {
	if isMarkdown(f.path) {
		return true
	}
	return f.vault.opts.ExtractAssets && extract.Supported(f.path)
}

func isMarkdown(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Open returns a vault rooted at dir.
func Open(dir string, opts Options) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("vault root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %s is not a directory", abs)
	}
	return &Vault{root: abs, opts: opts, cache: make(map[string]cachedIndex)}, nil
}

// Root returns the vault's absolute root directory.
func (v *Vault) Root() string { return v.root }

// Lookup returns the handle for a vault-relative path if the file exists.
func (v *Vault) Lookup(rel string) (*File, bool) {
	rel = path.Clean(filepath.ToSlash(rel))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, false
	}
	info, err := os.Stat(v.abs(rel))
	if err != nil || info.IsDir() {
		return nil, false
	}
	return &File{path: rel, vault: v}, true
}

func (v *Vault) abs(rel string) string {
	return filepath.Join(v.root, filepath.FromSlash(rel))
}

// Notes lists the vault's markdown files, sorted by path. Dot-directories
// (plugin state and the like) are skipped.
func (v *Vault) Notes() ([]string, error) {
	var notes []string
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != v.root {
				return filepath.SkipDir
			}
			return nil
		}
		if isMarkdown(p) {
			rel, rerr := filepath.Rel(v.root, p)
			if rerr != nil {
				return rerr
			}
			notes = append(notes, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(notes)
	return notes, nil
}

// Read implements bake.Host.
func (v *Vault) Read(ctx context.Context, doc bake.Document) (string, error) {
	f, ok := doc.(*File)
	if !ok {
		return "", fmt.Errorf("foreign document %q", doc.ID())
	}
	abs := v.abs(f.path)
	if !isMarkdown(f.path) && v.opts.ExtractAssets && extract.Supported(f.path) {
		return extract.File(ctx, abs, extract.Options{
			FallbackPdftotext: v.opts.FallbackPdftotext,
		})
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Index implements bake.Host. Only markdown notes carry structural
// metadata; everything else passes through the baker verbatim. Parsed
// indexes are cached by modtime and size.
func (v *Vault) Index(ctx context.Context, doc bake.Document) bake.Index {
	f, ok := doc.(*File)
	if !ok || !isMarkdown(f.path) {
		return nil
	}
	abs := v.abs(f.path)
	info, err := os.Stat(abs)
	if err != nil {
		return nil
	}

	v.mu.Lock()
	if c, ok := v.cache[f.path]; ok && c.modTime == info.ModTime().UnixNano() && c.size == info.Size() {
		v.mu.Unlock()
		return c.ix
	}
	v.mu.Unlock()

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil
	}
	ix := index.Parse(data)

	v.mu.Lock()
	v.cache[f.path] = cachedIndex{
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
		ix:      ix,
	}
	v.mu.Unlock()
	return ix
}

// Resolve implements bake.Host. Resolution order: empty path points back at
// the source document, then an exact vault-relative path (with optional
// .md), a path relative to the source's folder, and finally a basename
// lookup with a shortest-path tiebreak.
func (v *Vault) Resolve(link string, from bake.Document) bake.Document {
	link = strings.TrimSpace(filepath.ToSlash(link))
	if link == "" {
		if from == nil {
			return nil
		}
		return from
	}

	src, _ := from.(*File)
	for _, cand := range candidates(link) {
		if f, ok := v.Lookup(cand); ok {
			return f
		}
		if src != nil {
			if f, ok := v.Lookup(path.Join(path.Dir(src.path), cand)); ok {
				return f
			}
		}
	}

	if rel, ok := v.byBasename(path.Base(link)); ok {
		return &File{path: rel, vault: v}
	}
	return nil
}

func candidates(link string) []string {
	link = strings.TrimPrefix(link, "./")
	if path.Ext(link) == "" {
		return []string{link + ".md", link}
	}
	return []string{link}
}

// byBasename finds a file by bare name anywhere in the vault. The name
// table is built lazily on first use; call Rescan after external changes.
func (v *Vault) byBasename(name string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.names == nil {
		v.names = v.scanNames()
	}
	for _, cand := range []string{name + ".md", name} {
		if paths := v.names[strings.ToLower(cand)]; len(paths) > 0 {
			return paths[0], true
		}
	}
	return "", false
}

// Rescan drops the basename table so the next lookup rebuilds it.
func (v *Vault) Rescan() {
	v.mu.Lock()
	v.names = nil
	v.mu.Unlock()
}

func (v *Vault) scanNames() map[string][]string {
	names := make(map[string][]string)
	filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != v.root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, rerr := filepath.Rel(v.root, p)
		if rerr != nil {
			return nil
		}
		key := strings.ToLower(d.Name())
		names[key] = append(names[key], filepath.ToSlash(rel))
		return nil
	})
	// Shortest path wins; ties break lexically.
	for _, paths := range names {
		sort.Slice(paths, func(i, j int) bool {
			if len(paths[i]) != len(paths[j]) {
				return len(paths[i]) < len(paths[j])
			}
			return paths[i] < paths[j]
		})
	}
	return names
}
