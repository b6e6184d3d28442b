package bake

import "testing"

func TestStripHidden_Disabled(t *testing.T) {
	text := "A%%hidden%%B%%/hidden%%C"
	got, regions := stripHidden(text, true)
	if got != text {
		t.Errorf("expected unchanged text, got %q", got)
	}
	if len(regions) != 0 {
		t.Errorf("expected no regions, got %d", len(regions))
	}
}

func TestStripHidden_SingleRegion(t *testing.T) {
	got, regions := stripHidden("A%%hidden%%B%%/hidden%%C", false)
	if got != "AC" {
		t.Errorf("expected %q, got %q", "AC", got)
	}
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].start != 1 || regions[0].end != 23 {
		t.Errorf("expected region [1,23), got [%d,%d)", regions[0].start, regions[0].end)
	}
}

func TestStripHidden_MultipleRegions(t *testing.T) {
	got, regions := stripHidden("a%%hidden%%1%%/hidden%%b%%hidden%%2%%/hidden%%c", false)
	if got != "abc" {
		t.Errorf("expected %q, got %q", "abc", got)
	}
	if len(regions) != 2 {
		t.Errorf("expected 2 regions, got %d", len(regions))
	}
}

func TestStripHidden_UnmatchedStartStays(t *testing.T) {
	text := "A%%hidden%%B"
	got, regions := stripHidden(text, false)
	if got != text {
		t.Errorf("expected unmatched marker left in place, got %q", got)
	}
	if len(regions) != 0 {
		t.Errorf("expected no regions, got %d", len(regions))
	}
}

func TestStripHidden_TrailingUnmatchedStartAfterRegion(t *testing.T) {
	got, regions := stripHidden("a%%hidden%%x%%/hidden%%b%%hidden%%y", false)
	if got != "ab%%hidden%%y" {
		t.Errorf("expected %q, got %q", "ab%%hidden%%y", got)
	}
	if len(regions) != 1 {
		t.Errorf("expected 1 region, got %d", len(regions))
	}
}

func TestAdjustOffset(t *testing.T) {
	regions := []region{{start: 5, end: 10}, {start: 20, end: 24}}

	cases := []struct {
		off, want int
	}{
		{0, 0},
		{4, 4},   // before the first region
		{12, 7},  // after the first region
		{30, 21}, // after both regions
	}
	for _, c := range cases {
		if got := adjustOffset(c.off, regions); got != c.want {
			t.Errorf("adjustOffset(%d) = %d, want %d", c.off, got, c.want)
		}
	}
}

func TestInsideHidden(t *testing.T) {
	regions := []region{{start: 5, end: 20}}

	if !insideHidden(7, 15, regions) {
		t.Error("span within region should be hidden")
	}
	if insideHidden(0, 4, regions) {
		t.Error("span before region should not be hidden")
	}
	if insideHidden(3, 8, regions) {
		t.Error("span straddling region start should not count as hidden")
	}
}
