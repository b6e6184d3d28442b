package vault

import (
	"net/url"
	"path/filepath"
	"runtime"

	"github.com/dgallion1/notebake/internal/bake"
)

// FileURL implements bake.Host: a percent-encoded file URL for targets that
// cannot be inlined as text. Windows needs the extra slash to keep drive
// letters out of the authority part.
func (v *Vault) FileURL(doc bake.Document) (string, bool) {
	f, ok := doc.(*File)
	if !ok {
		return "", false
	}
	abs := v.abs(f.path)
	if !filepath.IsAbs(abs) {
		return "", false
	}
	prefix := "file://"
	if runtime.GOOS == "windows" {
		prefix = "file:///"
	}
	u := url.URL{Path: filepath.ToSlash(abs)}
	return prefix + u.EscapedPath(), true
}
