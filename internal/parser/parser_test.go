package parser_test

import (
	"testing"

	"aim/internal/block"
	"aim/internal/diag"
	"aim/internal/lexer"
	"aim/internal/parser"
	"aim/internal/source"
)

func parse(t *testing.T, input string) (parser.Result, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("mem://test.intent", []byte(input))
	bag := diag.NewBag(100)
	rep := diag.BagReporter{Bag: bag}
	file := fs.Get(id)
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	return parser.ParseFile(file, lx, parser.Options{Reporter: rep}), bag
}

func codes(bag *diag.Bag) []diag.Code {
	out := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestParseIntentTree(t *testing.T) {
	input := `
INTENT SnakeGame {
  SUMMARY: "Classic snake on a 20x20 grid."
  REQUIREMENTS {
    - "snake grows when eating"
    - "game ends on wall hit"
  }
  SCHEMA GameState {
    score: int min(0)
    board: string
  }
}
`
	res, bag := parse(t, input)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if res.Fatal {
		t.Fatal("unexpected fatal result")
	}

	intent, ok := res.Root.Find("INTENT")
	if !ok || intent.Title != "SnakeGame" {
		t.Fatalf("INTENT block missing or untitled: %+v", res.Root.Children)
	}

	if sum, ok := intent.PropValue("SUMMARY"); !ok || sum != "Classic snake on a 20x20 grid." {
		t.Fatalf("SUMMARY = %q ok=%v", sum, ok)
	}

	reqs, ok := intent.Find("REQUIREMENTS")
	if !ok || len(reqs.Items) != 2 {
		t.Fatalf("REQUIREMENTS items = %+v", reqs)
	}
	if !reqs.Items[0].Value.Quoted || reqs.Items[0].Value.Raw != "snake grows when eating" {
		t.Fatalf("item 0 = %+v", reqs.Items[0])
	}

	schema, ok := intent.Find("SCHEMA")
	if !ok || schema.Title != "GameState" {
		t.Fatalf("SCHEMA = %+v", schema)
	}
	score, ok := schema.Prop("score")
	if !ok || score.Value.Raw != "int min(0)" || score.Value.Quoted {
		t.Fatalf("score = %+v", score)
	}
}

func TestMissingCloseBraceIsFatal(t *testing.T) {
	res, bag := parse(t, "INTENT A {\n  SUMMARY: \"x\"\n")
	if !res.Fatal {
		t.Fatal("expected fatal result")
	}
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.SynUnclosedBrace {
		t.Fatalf("codes = %v", got)
	}
}

func TestExtraCloseBraceIsFatal(t *testing.T) {
	res, bag := parse(t, "INTENT A {\n}\n}\n")
	if !res.Fatal {
		t.Fatal("expected fatal result")
	}
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.SynExtraCloseBrace {
		t.Fatalf("codes = %v", got)
	}
}

func TestTrailingCommaIsHardError(t *testing.T) {
	_, bag := parse(t, "SCHEMA S {\n  score: int,\n}\n")
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.SynTrailingComma {
		t.Fatalf("codes = %v", got)
	}
	if bag.Items()[0].Severity != diag.SevError {
		t.Fatalf("severity = %v", bag.Items()[0].Severity)
	}
}

func TestCommaInsideModifierArgsIsLegal(t *testing.T) {
	res, bag := parse(t, "SCHEMA S {\n  score: int range(0,100)\n}\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	s, _ := res.Root.Find("SCHEMA")
	if v, _ := s.PropValue("score"); v != "int range(0,100)" {
		t.Fatalf("score = %q", v)
	}
}

func TestIncludesColonBlockTolerated(t *testing.T) {
	res, bag := parse(t, "INTENT A {\n  INCLUDES: {\n    schema: \"a.schema.intent\"\n  }\n}\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	intent, _ := res.Root.Find("INTENT")
	inc, ok := intent.Find("INCLUDES")
	if !ok {
		t.Fatalf("INCLUDES missing: %+v", intent.Children)
	}
	if v, ok := inc.PropValue("schema"); !ok || v != "a.schema.intent" {
		t.Fatalf("schema = %q ok=%v", v, ok)
	}
}

func TestMalformedPropertySkipsLine(t *testing.T) {
	res, bag := parse(t, "INTENT A {\n  SUMMARY\n  ROLE: \"ok\"\n}\n")
	got := codes(bag)
	if len(got) != 1 || got[0] != diag.SynMalformedProperty {
		t.Fatalf("codes = %v", got)
	}
	intent, _ := res.Root.Find("INTENT")
	if _, ok := intent.PropValue("ROLE"); !ok {
		t.Fatal("recovery lost the following property")
	}
}

func TestBlockSpansCoverBody(t *testing.T) {
	input := "INTENT A {\n}\n"
	res, _ := parse(t, input)
	intent, _ := res.Root.Find("INTENT")
	if intent.Span.Start != 0 || intent.Span.End != uint32(len("INTENT A {\n}")) {
		t.Fatalf("span = %+v", intent.Span)
	}
	var _ block.Block = *intent
}
