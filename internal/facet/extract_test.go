package facet_test

import (
	"testing"

	"aim/internal/block"
	"aim/internal/diag"
	"aim/internal/facet"
	"aim/internal/header"
	"aim/internal/lexer"
	"aim/internal/parser"
	"aim/internal/source"
)

// parseFile runs header extraction and block parsing over one virtual file.
func parseFile(t *testing.T, content string) (header.Header, source.FileID, *block.Block, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem://file.intent", []byte(content))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}

	file := fs.Get(id)
	h, bodyOff, ok := header.Extract(file, rep)
	if !ok {
		t.Fatalf("header extraction failed: %v", bag.Items())
	}
	lx := lexer.New(file, lexer.Options{Reporter: rep, StartOffset: bodyOff})
	res := parser.ParseFile(file, lx, parser.Options{Reporter: rep})
	if res.Fatal {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	return h, id, res.Root, bag
}

const fullIntent = `AIM: juice.games.snake#intent@2.1
INTENT SnakeGame {
  SUMMARY: "Classic snake."
  REQUIREMENTS {
    - "snake grows when eating"
  }
  TESTS {
    - "game over on wall hit"
  }
  INCLUDES {
    schema: "juice.games.snake.schema.intent"
  }
  SCHEMA GameState {
    SUMMARY: "Board state."
    score: int min(0)
  }
  VIEW Board {
    SUMMARY: "Main board."
  }
}
SCHEMA GameState {
  SUMMARY: "Inline variant."
  score: int
}
`

func TestExtractIntentEnvelope(t *testing.T) {
	h, id, root, bag := parseFile(t, fullIntent)
	env, records, ok := facet.ExtractIntent(h, id, root, diag.BagReporter{Bag: bag})
	if !ok {
		t.Fatalf("extraction failed: %v", bag.Items())
	}
	if bag.HasErrors() {
		t.Fatalf("unexpected hard errors: %v", bag.Items())
	}

	if env.Name != "SnakeGame" || env.Summary != "Classic snake." {
		t.Fatalf("envelope = %+v", env)
	}
	if len(env.Requirements) != 1 || len(env.Tests) != 1 {
		t.Fatalf("requirements/tests = %v / %v", env.Requirements, env.Tests)
	}
	if len(env.Includes) != 1 || env.Includes[0].Key != "schema" {
		t.Fatalf("includes = %+v", env.Includes)
	}

	// Two embedded (SCHEMA, VIEW) and one inline (SCHEMA).
	var embedded, inline int
	for _, r := range records {
		switch r.Origin {
		case facet.OriginEmbedded:
			embedded++
		case facet.OriginInline:
			inline++
		}
		if !r.Feature.Equal(h.Namespace) {
			t.Fatalf("record feature = %v", r.Feature)
		}
	}
	if embedded != 2 || inline != 1 {
		t.Fatalf("embedded=%d inline=%d records=%+v", embedded, inline, records)
	}
}

func TestMissingTestsIsInformationalOnly(t *testing.T) {
	content := `AIM: a#intent@1.0
INTENT A {
  SUMMARY: "x"
  REQUIREMENTS {
    - "y"
  }
}
`
	h, id, root, bag := parseFile(t, content)
	_, _, ok := facet.ExtractIntent(h, id, root, diag.BagReporter{Bag: bag})
	if !ok || bag.HasErrors() {
		t.Fatalf("ok=%v diags=%v", ok, bag.Items())
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.IntMissingTests && d.Severity == diag.SevInfo {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing TESTS note not emitted: %v", bag.Items())
	}
}

func TestIntentMinimaViolations(t *testing.T) {
	content := `AIM: a#intent@1.0
INTENT A {
}
`
	h, id, root, bag := parseFile(t, content)
	facet.ExtractIntent(h, id, root, diag.BagReporter{Bag: bag})

	wantHard := map[diag.Code]bool{
		diag.IntMissingSummary:      false,
		diag.IntMissingRequirements: false,
	}
	for _, d := range bag.Items() {
		if _, tracked := wantHard[d.Code]; tracked && d.Severity == diag.SevError {
			wantHard[d.Code] = true
		}
	}
	for code, seen := range wantHard {
		if !seen {
			t.Errorf("expected hard %v, got %v", code, bag.Items())
		}
	}
}

func TestInvalidEmbeddedFacetKey(t *testing.T) {
	content := `AIM: a#intent@1.0
INTENT A {
  SUMMARY: "x"
  REQUIREMENTS {
    - "y"
  }
  DATA Foo {
    SUMMARY: "looks like a facet"
  }
}
`
	h, id, root, bag := parseFile(t, content)
	facet.ExtractIntent(h, id, root, diag.BagReporter{Bag: bag})

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.IntInvalidEmbeddedKey && d.Severity == diag.SevError {
			found = true
		}
	}
	if !found {
		t.Fatalf("invalid embedded key not flagged: %v", bag.Items())
	}
}

func TestDuplicateEmbeddedFacetIsHard(t *testing.T) {
	content := `AIM: a#intent@1.0
INTENT A {
  SUMMARY: "x"
  REQUIREMENTS {
    - "y"
  }
  SCHEMA S1 {
    SUMMARY: "first"
  }
  SCHEMA S2 {
    SUMMARY: "second"
  }
}
`
	h, id, root, bag := parseFile(t, content)
	_, records, _ := facet.ExtractIntent(h, id, root, diag.BagReporter{Bag: bag})

	dups := 0
	for _, d := range bag.Items() {
		if d.Code == diag.ResDuplicateFacet {
			dups++
			if len(d.Notes) != 1 {
				t.Fatalf("duplicate diagnostic must cite the first declaration: %+v", d)
			}
		}
	}
	if dups != 1 {
		t.Fatalf("duplicate count = %d, diags = %v", dups, bag.Items())
	}
	// Only the first embedded schema survives as a record.
	schemas := 0
	for _, r := range records {
		if r.Kind == header.FacetSchema {
			schemas++
		}
	}
	if schemas != 1 {
		t.Fatalf("schema records = %d", schemas)
	}
}

func TestExtractFacetFile(t *testing.T) {
	content := `AIM: juice.games.snake#contract@2.1
CONTRACT MoveSnake {
  SUMMARY: "Advances the snake one tick."
  ENSURES {
    - "GameState.score increases on food"
  }
}
`
	h, id, root, bag := parseFile(t, content)
	rec, ok := facet.ExtractFacetFile(h, id, root, diag.BagReporter{Bag: bag})
	if !ok || bag.HasErrors() {
		t.Fatalf("ok=%v diags=%v", ok, bag.Items())
	}
	if rec.Origin != facet.OriginExternal || rec.Kind != header.FacetContract {
		t.Fatalf("record = %+v", rec)
	}
	if rec.Block.Title != "MoveSnake" {
		t.Fatalf("title = %q", rec.Block.Title)
	}
}

func TestFacetFileMissingConstruct(t *testing.T) {
	content := `AIM: a#schema@1.0
FLOW F {
  SUMMARY: "wrong construct"
}
`
	h, id, root, bag := parseFile(t, content)
	_, ok := facet.ExtractFacetFile(h, id, root, diag.BagReporter{Bag: bag})
	if ok {
		t.Fatal("extraction must fail")
	}
	if bag.Items()[0].Code != diag.IntMissingConstruct {
		t.Fatalf("diags = %v", bag.Items())
	}
}

func TestPersonaMinima(t *testing.T) {
	good := `AIM: a#persona@1.0
PERSONA Player {
  ROLE: "casual gamer"
  ACCESS {
    - "Board"
  }
}
`
	h, id, root, bag := parseFile(t, good)
	_, ok := facet.ExtractFacetFile(h, id, root, diag.BagReporter{Bag: bag})
	if !ok || bag.HasErrors() {
		t.Fatalf("persona without SUMMARY must be legal: %v", bag.Items())
	}

	missing := `AIM: a#persona@1.0
PERSONA Player {
  ROLE: "casual gamer"
}
`
	h, id, root, bag = parseFile(t, missing)
	facet.ExtractFacetFile(h, id, root, diag.BagReporter{Bag: bag})
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.IntPersonaMissingAccess && d.Severity == diag.SevError {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing ACCESS not flagged: %v", bag.Items())
	}
}
