package resolve

import (
	"sort"
	"strconv"

	"aim/internal/block"
	"aim/internal/diag"
	"aim/internal/facet"
	"aim/internal/header"
	"aim/internal/source"
)

// collectAliases gathers DEPENDENCIES declarations from the envelope and
// from every effective facet block, merged by set union keyed on
// (kind, alias name). When the same alias is declared with conflicting
// capability text, the facet-local declaration is authoritative and the
// disagreement is a warning, never a blocker.
func collectAliases(g *Group, effective map[header.FacetKind]*facet.Record, rep diag.Reporter) []*Alias {
	merged := make(map[string]*Alias)
	var order []string

	absorb := func(a *Alias) {
		key := a.Kind.String() + "\x00" + a.Name
		prev, ok := merged[key]
		if !ok {
			merged[key] = a
			order = append(order, key)
			return
		}
		if prev.Capability == a.Capability {
			return
		}
		// Facet-local beats the envelope; among equals the first stays.
		winner, loser := prev, a
		if prev.FromEnvelope && !a.FromEnvelope {
			winner, loser = a, prev
			merged[key] = winner
		}
		if rep != nil {
			diag.ReportInfo(rep, diag.DepConflict, loser.Span,
				a.Kind.String()+" alias "+strconv.Quote(a.Name)+
					" declared with conflicting capability; facet-local declaration wins").
				WithNote(winner.Span, "effective declaration is here").
				Emit()
		}
	}

	if g.Envelope != nil {
		if deps, ok := g.Envelope.Block.Find("DEPENDENCIES"); ok {
			for _, a := range parseDependencies(deps, g.Envelope.File, true, rep) {
				absorb(a)
			}
		}
	}

	kinds := make([]header.FacetKind, 0, len(effective))
	for k := range effective {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		rec := effective[k]
		if deps, ok := rec.Block.Find("DEPENDENCIES"); ok {
			for _, a := range parseDependencies(deps, rec.File, false, rep) {
				absorb(a)
			}
		}
	}

	out := make([]*Alias, 0, len(order))
	for _, key := range order {
		out = append(out, merged[key])
	}
	return out
}

// parseDependencies reads one DEPENDENCIES block. The only legal children
// are IMPORT and REQUIRES sub-blocks whose entries are `alias: capability`
// properties; everything else is a malformed entry. Parsing is
// batch-minded: each bad entry is reported and skipped.
func parseDependencies(deps *block.Block, file source.FileID, fromEnvelope bool, rep diag.Reporter) []*Alias {
	var out []*Alias

	badEntry := func(sp source.Span, msg string) {
		if rep != nil {
			diag.ReportError(rep, diag.DepBadEntry, sp, msg).Emit()
		}
	}

	for _, p := range deps.Props {
		badEntry(p.KeySpan, "DEPENDENCIES takes IMPORT and REQUIRES sub-blocks, not bare properties")
	}
	for _, it := range deps.Items {
		badEntry(it.Value.Span, "DEPENDENCIES takes IMPORT and REQUIRES sub-blocks, not list items")
	}

	for _, child := range deps.Children {
		var kind AliasKind
		switch child.Name {
		case "IMPORT":
			kind = AliasImport
		case "REQUIRES":
			kind = AliasRequires
		default:
			badEntry(child.NameSpan, strconv.Quote(child.Name)+" is not a dependency section")
			continue
		}

		for _, sub := range child.Children {
			badEntry(sub.NameSpan, child.Name+" entries are 'alias: capability' properties")
		}
		for _, it := range child.Items {
			badEntry(it.Value.Span, child.Name+" entries are 'alias: capability' properties")
		}
		for _, p := range child.Props {
			if p.Value.Raw == "" {
				badEntry(p.KeySpan, "alias "+strconv.Quote(p.Key)+" declares no capability")
				continue
			}
			out = append(out, &Alias{
				Name:         p.Key,
				Kind:         kind,
				Capability:   p.Value.Raw,
				File:         file,
				Span:         p.KeySpan.Cover(p.Value.Span),
				FromEnvelope: fromEnvelope,
			})
		}
	}
	return out
}
