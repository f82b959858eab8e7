package source

import (
	"testing"
)

func TestAddVirtualBuildsLineIndex(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem://a.intent", []byte("AIM: a#intent@1.0\n\nINTENT A {\n}\n"))

	f := fs.Get(id)
	if f.Flags&FileVirtual == 0 {
		t.Fatalf("expected FileVirtual flag")
	}
	if got := len(f.LineIdx); got != 4 {
		t.Fatalf("line index entries = %d, want 4", got)
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("first\nsecond\nthird")
	idx := buildLineIndex(content)

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{4, LineCol{1, 5}},
		{5, LineCol{1, 6}},  // the newline itself belongs to line 1
		{6, LineCol{2, 1}},  // 's' of "second"
		{13, LineCol{3, 1}}, // 't' of "third"
		{17, LineCol{3, 5}},
	}
	for _, tc := range cases {
		if got := toLineCol(idx, tc.off); got != tc.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tc.off, got, tc.want)
		}
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc\n"))
	if !changed {
		t.Fatalf("expected change")
	}
	if string(out) != "a\nb\rc\n" {
		t.Fatalf("got %q", out)
	}

	out, changed = normalizeCRLF([]byte("plain\n"))
	if changed {
		t.Fatalf("unexpected change for %q", out)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem", []byte("one\ntwo\nthree"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "one" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(3); got != "three" {
		t.Errorf("line 3 = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("line 4 = %q, want empty", got)
	}
}

func TestResolveSpan(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem", []byte("AIM: a#intent@1.0\nINTENT A {\n"))

	start, end := fs.Resolve(Span{File: id, Start: 18, End: 24})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("start = %+v", start)
	}
	if end.Line != 2 || end.Col != 7 {
		t.Fatalf("end = %+v", end)
	}
}

func TestPathShadowing(t *testing.T) {
	fs := NewFileSet()
	fs.AddVirtual("aim/a.intent", []byte("old"))
	id2 := fs.AddVirtual("aim/a.intent", []byte("new"))

	f, ok := fs.GetByPath("aim/a.intent")
	if !ok || f.ID != id2 {
		t.Fatalf("index should point at the latest file, got %+v ok=%v", f, ok)
	}
	if fs.Len() != 2 {
		t.Fatalf("both entries must remain addressable, len=%d", fs.Len())
	}
}
