package facet

import (
	"aim/internal/block"
	"aim/internal/diag"
	"aim/internal/header"
	"aim/internal/source"
)

// ExtractIntent lifts the envelope plus every inline and embedded facet
// record out of an intent file's parsed tree. It reports all intent-minima
// violations it finds and keeps going; the returned bool is false only when
// no usable INTENT construct exists at all.
func ExtractIntent(h header.Header, fileID source.FileID, root *block.Block, rep diag.Reporter) (*Envelope, []Record, bool) {
	intents := root.FindAll("INTENT")
	if len(intents) == 0 {
		report(rep, diag.IntMissingIntent, h.Span, "intent file has no top-level INTENT declaration")
		return nil, nil, false
	}
	if len(intents) > 1 {
		for _, extra := range intents[1:] {
			diag.ReportError(rep, diag.IntMultipleIntents, extra.NameSpan,
				"more than one top-level INTENT declaration").
				WithNote(intents[0].NameSpan, "first declared here").
				Emit()
		}
	}

	intent := intents[0]
	if intent.Title == "" {
		report(rep, diag.IntMissingIntent, intent.NameSpan, "INTENT declaration is missing its name")
	}

	env := &Envelope{
		Feature: h.Namespace,
		Version: h.Version,
		Name:    intent.Title,
		Block:   intent,
		File:    fileID,
		Span:    intent.NameSpan,
	}

	env.Summary = extractSummary(intent, rep)
	env.Requirements = extractRequirements(intent, rep)
	env.Tests = extractTests(intent, rep)
	env.Includes = extractIncludes(intent)

	records := extractEmbedded(h, fileID, intent, rep)
	records = append(records, extractInline(h, fileID, root, intents[0], rep)...)
	return env, records, true
}

func extractSummary(intent *block.Block, rep diag.Reporter) string {
	p, ok := intent.Prop("SUMMARY")
	if !ok || p.Value.Raw == "" {
		report(rep, diag.IntMissingSummary, intent.NameSpan,
			"INTENT '"+intent.Title+"' requires a SUMMARY")
		return ""
	}
	return p.Value.Raw
}

func extractRequirements(intent *block.Block, rep diag.Reporter) []string {
	reqs, ok := intent.Find("REQUIREMENTS")
	if !ok || len(reqs.Items) == 0 {
		report(rep, diag.IntMissingRequirements, intent.NameSpan,
			"INTENT '"+intent.Title+"' requires a non-empty REQUIREMENTS list")
		return nil
	}
	out := make([]string, 0, len(reqs.Items))
	for _, item := range reqs.Items {
		out = append(out, item.Value.Raw)
	}
	return out
}

// extractTests reads the optional TESTS list. Absence is informational only.
func extractTests(intent *block.Block, rep diag.Reporter) []string {
	tests, ok := intent.Find("TESTS")
	if !ok || len(tests.Items) == 0 {
		if rep != nil {
			rep.Report(diag.IntMissingTests, diag.SevInfo, intent.NameSpan,
				"INTENT '"+intent.Title+"' declares no TESTS", nil)
		}
		return nil
	}
	out := make([]string, 0, len(tests.Items))
	for _, item := range tests.Items {
		out = append(out, item.Value.Raw)
	}
	return out
}

func extractIncludes(intent *block.Block) []IncludeEntry {
	inc, ok := intent.Find("INCLUDES")
	if !ok {
		return nil
	}
	out := make([]IncludeEntry, 0, len(inc.Props))
	for _, p := range inc.Props {
		out = append(out, IncludeEntry{Key: p.Key, KeySpan: p.KeySpan, Value: p.Value})
	}
	return out
}

// extractEmbedded walks the INTENT body for facet sub-blocks. Unknown
// uppercase keys that resemble a facet declaration are hard errors; a second
// sub-block of the same kind is a duplicate-origin hard error.
func extractEmbedded(h header.Header, fileID source.FileID, intent *block.Block, rep diag.Reporter) []Record {
	var records []Record
	seen := make(map[header.FacetKind]*block.Block)

	for _, child := range intent.Children {
		kind, ok := EmbeddedKind(child.Name)
		if !ok {
			if ResemblesFacetKey(child.Name) {
				report(rep, diag.IntInvalidEmbeddedKey, child.NameSpan,
					"'"+child.Name+"' is not a valid embedded facet key")
			}
			continue
		}
		if first, dup := seen[kind]; dup {
			diag.ReportError(rep, diag.ResDuplicateFacet, child.NameSpan,
				"duplicate embedded "+child.Name+" declaration").
				WithNote(first.NameSpan, "first declared here").
				Emit()
			continue
		}
		seen[kind] = child
		records = append(records, Record{
			Kind:    kind,
			Feature: h.Namespace,
			Origin:  OriginEmbedded,
			Version: h.Version,
			Block:   child,
			File:    fileID,
			Span:    child.NameSpan,
		})
	}
	return records
}

// extractInline collects top-level facet blocks declared beside the INTENT.
func extractInline(h header.Header, fileID source.FileID, root, intent *block.Block, rep diag.Reporter) []Record {
	var records []Record
	seen := make(map[header.FacetKind]*block.Block)

	for _, child := range root.Children {
		if child == intent || child.Name == "INTENT" {
			continue
		}
		kind, ok := EmbeddedKind(child.Name)
		if !ok {
			continue
		}
		if first, dup := seen[kind]; dup {
			diag.ReportError(rep, diag.ResDuplicateFacet, child.NameSpan,
				"duplicate inline "+child.Name+" declaration").
				WithNote(first.NameSpan, "first declared here").
				Emit()
			continue
		}
		seen[kind] = child
		records = append(records, Record{
			Kind:    kind,
			Feature: h.Namespace,
			Origin:  OriginInline,
			Version: h.Version,
			Block:   child,
			File:    fileID,
			Span:    child.NameSpan,
		})
	}
	return records
}

// ExtractFacetFile lifts the single matching construct out of a facet-kind
// source file (schema/flow/contract/persona/view/event/mapping).
func ExtractFacetFile(h header.Header, fileID source.FileID, root *block.Block, rep diag.Reporter) (*Record, bool) {
	keyword := ConstructKeyword(h.Facet)
	blocks := root.FindAll(keyword)
	if len(blocks) == 0 {
		report(rep, diag.IntMissingConstruct, h.Span,
			h.Facet.String()+" file has no top-level "+keyword+" construct")
		return nil, false
	}
	for _, extra := range blocks[1:] {
		diag.ReportError(rep, diag.ResDuplicateFacet, extra.NameSpan,
			"duplicate "+keyword+" declaration in one source file").
			WithNote(blocks[0].NameSpan, "first declared here").
			Emit()
	}

	blk := blocks[0]
	ValidateConstruct(h.Facet, blk, rep)

	return &Record{
		Kind:    h.Facet,
		Feature: h.Namespace,
		Origin:  OriginExternal,
		Version: h.Version,
		Block:   blk,
		File:    fileID,
		Span:    blk.NameSpan,
	}, true
}

func report(rep diag.Reporter, code diag.Code, sp source.Span, msg string) {
	if rep != nil {
		rep.Report(code, diag.SevError, sp, msg, nil)
	}
}
