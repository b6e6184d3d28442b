package bake

import "testing"

func TestClassify_BareLine(t *testing.T) {
	cases := []struct {
		name          string
		before, after string
	}{
		{"start of text", "", "\nmore"},
		{"own line", "para\n", "\n"},
		{"indented", "para\n  ", "  \n"},
		{"end of text", "para\n", ""},
	}
	for _, c := range cases {
		sh := classify(c.before, c.after, true)
		if sh.inline {
			t.Errorf("%s: expected bare-line, got inline", c.name)
		}
		if sh.listPrefix != "" {
			t.Errorf("%s: unexpected list prefix %q", c.name, sh.listPrefix)
		}
	}
}

func TestClassify_Inline(t *testing.T) {
	cases := []struct {
		name          string
		before, after string
	}{
		{"mid line", "see ", " here\n"},
		{"trailing content", "", " tail\n"},
		{"leading content only", "text ", "\n"},
	}
	for _, c := range cases {
		if sh := classify(c.before, c.after, true); !sh.inline {
			t.Errorf("%s: expected inline", c.name)
		}
	}
}

func TestClassify_ListItemStart(t *testing.T) {
	cases := []struct {
		name   string
		before string
		prefix string
	}{
		{"dash bullet", "- ", "- "},
		{"star bullet", "intro\n* ", "* "},
		{"numbered dot", "1. ", "1. "},
		{"numbered paren", "text\n12) ", "12) "},
		{"indented bullet", "\n  - ", "  - "},
	}
	for _, c := range cases {
		sh := classify(c.before, "\n", true)
		if sh.inline {
			t.Errorf("%s: expected list-item shape, got inline", c.name)
		}
		if sh.listPrefix != c.prefix {
			t.Errorf("%s: expected prefix %q, got %q", c.name, c.prefix, sh.listPrefix)
		}
	}
}

func TestClassify_ListDisabled(t *testing.T) {
	sh := classify("- ", "\n", false)
	if !sh.inline {
		t.Error("expected inline when list handling is disabled")
	}
}

func TestClassify_ListWithTrailingContentIsInline(t *testing.T) {
	sh := classify("- ", " and more\n", true)
	if !sh.inline {
		t.Error("expected inline when content follows on the same line")
	}
	if sh.listPrefix != "" {
		t.Errorf("expected no list prefix, got %q", sh.listPrefix)
	}
}

func TestMergeListItem(t *testing.T) {
	got := mergeListItem("Line1\nLine2", "- ")
	if got != "Line1\n  Line2" {
		t.Errorf("expected %q, got %q", "Line1\n  Line2", got)
	}
}

func TestMergeListItem_StripsLeadingMarker(t *testing.T) {
	got := mergeListItem("- A\n- B", "- ")
	if got != "A\n  - B" {
		t.Errorf("expected %q, got %q", "A\n  - B", got)
	}
}

func TestMergeListItem_WiderPrefix(t *testing.T) {
	got := mergeListItem("A\nB", "10. ")
	if got != "A\n    B" {
		t.Errorf("expected %q, got %q", "A\n    B", got)
	}
}
