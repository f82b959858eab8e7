package registry

import (
	"os"
	"path/filepath"
	"testing"

	"aim/internal/diag"
	"aim/internal/source"
)

func loadIndexFrom(t *testing.T, content string) (Index, bool, *diag.Bag) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	bag := diag.NewBag(50)
	idx, ok := LoadIndex(path, source.NewFileSet(), diag.BagReporter{Bag: bag})
	return idx, ok, bag
}

func TestLoadIndexValid(t *testing.T) {
	idx, ok, bag := loadIndexFrom(t, `{
  "version": 1,
  "packages": [
    {"name": "games.snake", "version": "1.0", "entry": "games.snake.intent.intent"}
  ]
}`)
	if !ok || bag.HasErrors() {
		t.Fatalf("ok=%v diags=%v", ok, bag.Items())
	}
	if len(idx.Packages) != 1 || idx.Packages[0].Name != "games.snake" {
		t.Fatalf("index = %+v", idx)
	}
}

func TestLoadIndexReportsEveryBadEntry(t *testing.T) {
	_, ok, bag := loadIndexFrom(t, `{
  "version": 1,
  "packages": [
    {"name": "Games.Snake", "version": "1.0", "entry": "a.intent"},
    {"name": "games.pong", "version": "v1", "entry": "b.intent"},
    {"name": "games.tetris", "version": "1.0", "entry": "c.txt"}
  ]
}`)
	if ok {
		t.Fatal("expected validation failure")
	}
	want := map[diag.Code]int{
		diag.RegBadName:    1,
		diag.RegBadVersion: 1,
		diag.RegBadEntry:   1,
	}
	for code, n := range want {
		got := 0
		for _, d := range bag.Items() {
			if d.Code == code {
				got++
			}
		}
		if got != n {
			t.Fatalf("code %v count = %d, want %d: %v", code, got, n, bag.Items())
		}
	}
}

func TestLoadIndexRejectsUnknownVersion(t *testing.T) {
	_, ok, bag := loadIndexFrom(t, `{"version": 9, "packages": []}`)
	if ok || !bag.HasErrors() {
		t.Fatal("expected version error")
	}
}

func TestValidVersion(t *testing.T) {
	for v, want := range map[string]bool{
		"1.0":  true,
		"12.3": true,
		"1":    false,
		"1.":   false,
		".1":   false,
		"1.0a": false,
		"v1.0": false,
	} {
		if got := ValidVersion(v); got != want {
			t.Errorf("ValidVersion(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestLockRoundTrip(t *testing.T) {
	root := t.TempDir()

	lk, err := ReadLock(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(lk.Packages) != 0 {
		t.Fatalf("fresh lock = %+v", lk)
	}

	lk.Packages["games.snake"] = LockEntry{Version: "1.0", Entry: "games.snake.intent.intent"}
	lk.Packages["shop.cart"] = LockEntry{Version: "2.1", Entry: "shop.cart.intent.intent"}
	if err := WriteLock(root, lk); err != nil {
		t.Fatal(err)
	}

	back, err := ReadLock(root)
	if err != nil {
		t.Fatal(err)
	}
	if back.Packages["games.snake"].Version != "1.0" {
		t.Fatalf("lock = %+v", back)
	}
	if names := back.Names(); len(names) != 2 || names[0] != "games.snake" {
		t.Fatalf("names = %v", names)
	}
}

func TestReadLockRejectsBadVersion(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, LockName)
	if err := os.WriteFile(path, []byte(`{"packages":{"x":{"version":"nope","entry":"x.intent"}}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLock(root); err == nil {
		t.Fatal("expected error")
	}
}
