package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"aim/internal/diag"
)

// writeTree materializes a project: keys are paths under <root>/aim/.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, "aim", filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

const goodIntent = `AIM: games.snake#intent@1.0
INTENT SnakeGame {
  SUMMARY: "Classic snake."
  REQUIREMENTS {
    - "snake grows when eating"
  }
  TESTS {
    - "game over on wall hit"
  }
}
`

const goodSchema = `AIM: games.snake#schema@1.0
SCHEMA GameState {
  SUMMARY: "Board state."
  score: int min(0)
}
`

func TestResolveDirCleanTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"games.snake.intent.intent": goodIntent,
		"games.snake.schema.intent": goodSchema,
	})

	res, err := ResolveDir(context.Background(), root, Options{NoCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Bag.Items())
	}
	if len(res.Features) != 1 || res.Features[0].Namespace != "games.snake" {
		t.Fatalf("features = %+v", res.Features)
	}
	if res.Features[0].Tier != 2 {
		t.Fatalf("tier = %d", res.Features[0].Tier)
	}
	if res.Model == nil {
		t.Fatal("model missing on fresh run")
	}
}

func TestResolveDirBatchesDiagnostics(t *testing.T) {
	// One file with a header/path mismatch, one with legacy tokens, one
	// clean. All three must surface; nothing short-circuits.
	root := writeTree(t, map[string]string{
		"games.snake.intent.intent": goodIntent,
		"games.pong.intent.intent": `AIM: games.breakout#intent@1.0
INTENT Pong {
  SUMMARY: "Pong."
  REQUIREMENTS {
    - "ball bounces"
  }
  TESTS {
    - "serve starts play"
  }
}
`,
		"games.tetris.intent.intent": `AIM: games.tetris#intent@1.0
INTENT Tetris {
  SUMMARY: "Tetris."
  FEATURE: legacy-line
  REQUIREMENTS {
    - "pieces fall"
  }
  TESTS {
    - "line clears"
  }
}
`,
	})

	res, err := ResolveDir(context.Background(), root, Options{NoCache: true})
	if err != nil {
		t.Fatal(err)
	}

	counts := map[diag.Code]int{}
	for _, d := range res.Bag.Items() {
		counts[d.Code]++
	}
	if counts[diag.HdrPathMismatch] != 1 {
		t.Fatalf("path mismatch count = %d: %v", counts[diag.HdrPathMismatch], res.Bag.Items())
	}
	if counts[diag.SynLegacyToken] != 1 {
		t.Fatalf("legacy token count = %d: %v", counts[diag.SynLegacyToken], res.Bag.Items())
	}
	// The clean feature still resolves.
	found := false
	for _, f := range res.Features {
		if f.Namespace == "games.snake" {
			found = true
		}
	}
	if !found {
		t.Fatalf("clean feature missing: %+v", res.Features)
	}
}

func TestResolveDirDeterministicOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"games.snake.intent.intent":  goodIntent,
		"games.tetris.intent.intent": "AIM: games.tetris#intent@1.0\nINTENT Tetris {\n}\n",
	})

	var first []string
	for run := 0; run < 3; run++ {
		res, err := ResolveDir(context.Background(), root, Options{NoCache: true, Jobs: 4})
		if err != nil {
			t.Fatal(err)
		}
		var got []string
		for _, d := range res.Bag.Items() {
			got = append(got, d.Code.ID()+" "+d.Message)
		}
		if run == 0 {
			first = got
			continue
		}
		if len(got) != len(first) {
			t.Fatalf("run %d: %d diags, want %d", run, len(got), len(first))
		}
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("run %d diag %d: %q != %q", run, i, got[i], first[i])
			}
		}
	}
}

func TestResolveDirFlatNestedDuplicate(t *testing.T) {
	root := writeTree(t, map[string]string{
		"games.snake.intent.intent": goodIntent,
		"games/snake/intent.intent": goodIntent,
	})

	res, err := ResolveDir(context.Background(), root, Options{NoCache: true})
	if err != nil {
		t.Fatal(err)
	}
	dup := 0
	for _, d := range res.Bag.Items() {
		if d.Code == diag.HdrDuplicateIdentity {
			dup++
		}
	}
	if dup != 1 {
		t.Fatalf("duplicate identity count = %d: %v", dup, res.Bag.Items())
	}
}

func TestValidateDirSkipsResolution(t *testing.T) {
	root := writeTree(t, map[string]string{
		"games.snake.intent.intent": goodIntent,
	})
	res, err := ValidateDir(context.Background(), root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Model != nil || len(res.Features) != 0 {
		t.Fatalf("validate must not resolve: %+v", res)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", res.Bag.Items())
	}
}

func TestResolveDirCacheRoundTrip(t *testing.T) {
	root := writeTree(t, map[string]string{
		"games.snake.intent.intent": goodIntent,
		"games.snake.schema.intent": goodSchema,
	})
	cacheDir := t.TempDir()
	opts := Options{CacheDir: cacheDir}

	fresh, err := ResolveDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.FromCache {
		t.Fatal("first run cannot be cached")
	}

	cached, err := ResolveDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !cached.FromCache {
		t.Fatal("second run should hit the cache")
	}
	if cached.Bag.Len() != fresh.Bag.Len() {
		t.Fatalf("cached %d diags, fresh %d", cached.Bag.Len(), fresh.Bag.Len())
	}
	if len(cached.Features) != len(fresh.Features) ||
		cached.Features[0].Namespace != fresh.Features[0].Namespace ||
		cached.Features[0].Tier != fresh.Features[0].Tier {
		t.Fatalf("cached features %+v, fresh %+v", cached.Features, fresh.Features)
	}

	// Any content change must miss.
	path := filepath.Join(root, "aim", "games.snake.schema.intent")
	if err := os.WriteFile(path, []byte(goodSchema+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	again, err := ResolveDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.FromCache {
		t.Fatal("changed tree must not hit the cache")
	}
}
