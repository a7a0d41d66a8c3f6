package textdex

import "testing"

func TestPreview_NilHighlighter(t *testing.T) {
	raw := "likes fishing"
	if got := Preview(raw, "Remarks", 3, nil); got != raw {
		t.Errorf("Preview = %q, want %q", got, raw)
	}
}

func TestPreview_TrimsAndJoins(t *testing.T) {
	h := &fakeHighlighter{frags: []string{"  first <b>hit</b> ", "\tsecond <b>hit</b>\n"}}
	got := Preview("raw", "Body", 2, h)
	if want := "first <b>hit</b>\nsecond <b>hit</b>"; got != want {
		t.Errorf("Preview = %q, want %q", got, want)
	}
	if h.limit != 2 {
		t.Errorf("limit = %d, want 2", h.limit)
	}
}

func TestPreview_NoFragments(t *testing.T) {
	h := &fakeHighlighter{}
	if got := Preview("raw value", "Body", 1, h); got != "raw value" {
		t.Errorf("Preview = %q, want raw value", got)
	}
	h.frags = []string{"  ", ""}
	if got := Preview("raw value", "Body", 1, h); got != "raw value" {
		t.Errorf("Preview = %q, want raw value", got)
	}
}
