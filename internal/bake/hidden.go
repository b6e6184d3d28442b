package bake

import "strings"

// Hidden-region delimiters. Everything from a start marker through the next
// end marker, markers included, is an author-hidden span.
const (
	hiddenStart = "%%hidden%%"
	hiddenEnd   = "%%/hidden%%"
)

// region is a hidden span in original byte coordinates.
type region struct {
	start, end int
}

func (r region) size() int { return r.end - r.start }

// stripHidden removes hidden regions from text unless keep is set. It
// returns the filtered text plus the removed regions in original
// coordinates, sorted ascending, for later offset remapping. An unmatched
// start marker with no following end marker is left in place.
func stripHidden(text string, keep bool) (string, []region) {
	if keep {
		return text, nil
	}
	var regions []region
	for i := 0; i < len(text); {
		si := strings.Index(text[i:], hiddenStart)
		if si < 0 {
			break
		}
		start := i + si
		ei := strings.Index(text[start+len(hiddenStart):], hiddenEnd)
		if ei < 0 {
			break
		}
		end := start + len(hiddenStart) + ei + len(hiddenEnd)
		regions = append(regions, region{start: start, end: end})
		i = end
	}
	if len(regions) == 0 {
		return text, nil
	}
	// Splice from the last region back so earlier offsets stay valid.
	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		text = text[:r.start] + text[r.end:]
	}
	return text, regions
}

// adjustOffset maps an original byte offset into filtered-text coordinates
// by subtracting the lengths of the hidden regions that precede it.
func adjustOffset(off int, regions []region) int {
	delta := 0
	for _, r := range regions {
		if r.start >= off {
			break
		}
		delta += r.size()
	}
	return off - delta
}

// insideHidden reports whether the original span [start, end) fell entirely
// within a removed region; such references are skipped outright.
func insideHidden(start, end int, regions []region) bool {
	for _, r := range regions {
		if start >= r.start && end <= r.end {
			return true
		}
	}
	return false
}
