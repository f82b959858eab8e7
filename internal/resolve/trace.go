package resolve

import (
	"strconv"
	"strings"
	"unicode"

	"aim/internal/block"
	"aim/internal/diag"
	"aim/internal/header"
	"aim/internal/source"
)

// checkChain enforces the Persona -> View -> Contract -> Schema traceability
// chain on a feature above tier one. Each dangling reference is its own hard
// error; the walk never stops at the first.
func checkChain(f *Feature, rep diag.Reporter) {
	if f.Tier == Tier1 || rep == nil {
		return
	}
	checkViewActions(f, rep)
	checkContractEnsures(f, rep)
	checkPersonaAccess(f, rep)
}

// checkViewActions validates every `... CALL <Contract>` action of the
// effective VIEW against the effective CONTRACT.
func checkViewActions(f *Feature, rep diag.Reporter) {
	view, ok := f.Effective[header.FacetView]
	if !ok {
		return
	}
	var contractName string
	if c, ok := f.Effective[header.FacetContract]; ok {
		contractName = c.Block.Title
	}

	for _, item := range sectionItems(view.Block, "ACTIONS") {
		callee, found := callTarget(item.Value.Raw)
		if !found {
			continue
		}
		if callee == contractName {
			continue
		}
		b := diag.ReportError(rep, diag.TrcDanglingContract, item.Value.Span,
			"view action calls "+strconv.Quote(callee)+", which is not a resolved contract")
		if contractName != "" {
			b.WithNote(f.Effective[header.FacetContract].Span,
				"resolved contract is "+strconv.Quote(contractName))
		}
		b.Emit()
	}
}

// checkContractEnsures validates every `<Schema>.<attr>` mutation reference
// in the effective CONTRACT's ENSURES entries against the effective SCHEMA's
// attributes. Without a resolved schema no reference can be identified as a
// schema mutation, so prose passes through untouched.
func checkContractEnsures(f *Feature, rep diag.Reporter) {
	contract, ok := f.Effective[header.FacetContract]
	if !ok {
		return
	}
	schema, ok := f.Effective[header.FacetSchema]
	if !ok || schema.Block.Title == "" {
		return
	}
	attrs := schemaAttributes(schema.Block)

	for _, item := range sectionItems(contract.Block, "ENSURES") {
		for _, attr := range dottedRefs(item.Value.Raw, schema.Block.Title) {
			if attrs[attr] {
				continue
			}
			diag.ReportError(rep, diag.TrcDanglingSchemaAttr, item.Value.Span,
				"contract ensures mutation of "+strconv.Quote(schema.Block.Title+"."+attr)+
					", but the schema declares no attribute "+strconv.Quote(attr)).
				WithNote(schema.Span, "schema declared here").
				Emit()
		}
	}
}

// checkPersonaAccess validates every ACCESS entry of the effective PERSONA
// against the effective VIEW.
func checkPersonaAccess(f *Feature, rep diag.Reporter) {
	persona, ok := f.Effective[header.FacetPersona]
	if !ok {
		return
	}
	view, hasView := f.Effective[header.FacetView]
	var viewName string
	if hasView {
		viewName = view.Block.Title
	}

	dangling := func(ref string, sp source.Span) {
		b := diag.ReportError(rep, diag.TrcDanglingView, sp,
			"persona access names "+strconv.Quote(ref)+", which is not a resolved view")
		if hasView {
			b.WithNote(view.Span, "resolved view is "+strconv.Quote(viewName))
		}
		b.Emit()
	}

	for _, item := range sectionItems(persona.Block, "ACCESS") {
		if ref := firstIdent(item.Value.Raw); ref != "" && ref != viewName {
			dangling(ref, item.Value.Span)
		}
	}
	if acc, ok := persona.Block.Prop("ACCESS"); ok {
		if ref := firstIdent(acc.Value.Raw); ref != "" && ref != viewName {
			dangling(ref, acc.Value.Span)
		}
	}
}

// sectionItems returns the list items of a named child block, or nil.
func sectionItems(blk *block.Block, name string) []block.ListItem {
	sec, ok := blk.Find(name)
	if !ok {
		return nil
	}
	return sec.Items
}

// schemaAttributes collects the attribute names a schema declares: its own
// properties minus reserved section keys, plus the properties of an
// ATTRIBUTES or FIELDS sub-block when the author groups them.
func schemaAttributes(blk *block.Block) map[string]bool {
	attrs := make(map[string]bool)
	for _, p := range blk.Props {
		if p.Key == strings.ToUpper(p.Key) && p.Key != strings.ToLower(p.Key) {
			continue // SUMMARY and friends are sections, not attributes
		}
		attrs[p.Key] = true
	}
	for _, name := range []string{"ATTRIBUTES", "FIELDS"} {
		if sub, ok := blk.Find(name); ok {
			for _, p := range sub.Props {
				attrs[p.Key] = true
			}
		}
	}
	return attrs
}

// callTarget extracts the callee of the first `CALL <Name>` in a value.
func callTarget(raw string) (string, bool) {
	fields := strings.Fields(raw)
	for i, f := range fields {
		if f == "CALL" && i+1 < len(fields) {
			return strings.TrimRight(fields[i+1], ".,;:)"), true
		}
	}
	return "", false
}

// dottedRefs extracts the attribute half of every `<head>.<attr>` reference
// whose head equals the given schema title.
func dottedRefs(raw, head string) []string {
	var out []string
	rest := raw
	for {
		i := strings.Index(rest, head+".")
		if i < 0 {
			return out
		}
		// Reject matches inside a longer identifier, e.g. MyGameState.x.
		if i > 0 && isIdentByte(rest[i-1]) {
			rest = rest[i+len(head)+1:]
			continue
		}
		tail := rest[i+len(head)+1:]
		end := 0
		for end < len(tail) && isIdentByte(tail[end]) {
			end++
		}
		if end > 0 {
			out = append(out, tail[:end])
		}
		rest = tail[end:]
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// firstIdent returns the leading identifier of a free-text access entry.
func firstIdent(raw string) string {
	s := strings.TrimSpace(raw)
	end := 0
	for end < len(s) {
		r := rune(s[end])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' {
			break
		}
		end++
	}
	return s[:end]
}
