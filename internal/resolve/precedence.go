package resolve

import (
	"sort"

	"aim/internal/diag"
	"aim/internal/facet"
	"aim/internal/header"
)

// selectEffective picks one winning record per facet kind for a group,
// applying the origin order external > inline > embedded. Every displaced
// lower-priority candidate gets a single informational override note
// anchored at its own declaration, pointing at the winner.
//
// External records were validated at extraction; inline and embedded winners
// are validated here, once it is known they survive precedence. Validation
// of displaced candidates is skipped: a broken loser never blocks a batch
// the winner satisfies.
func selectEffective(g *Group, rep diag.Reporter) (map[header.FacetKind]*facet.Record, []*facet.Record) {
	byKind := make(map[header.FacetKind][]*facet.Record)
	for i := range g.Records {
		rec := &g.Records[i]
		byKind[rec.Kind] = append(byKind[rec.Kind], rec)
	}

	kinds := make([]header.FacetKind, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	effective := make(map[header.FacetKind]*facet.Record, len(byKind))
	var overridden []*facet.Record

	for _, kind := range kinds {
		candidates := byKind[kind]
		winner := candidates[0]
		for _, c := range candidates[1:] {
			if c.Origin > winner.Origin {
				winner = c
			}
		}
		effective[kind] = winner

		for _, c := range candidates {
			if c == winner {
				continue
			}
			overridden = append(overridden, c)
			// A same-origin pair is a duplicate identity, already a hard
			// error; the override note is for lower-priority origins only.
			if rep != nil && c.Origin != winner.Origin {
				diag.ReportInfo(rep, diag.ResOverridden, c.Span,
					c.Origin.String()+" "+facet.ConstructKeyword(kind)+
						" overridden by "+winner.Origin.String()+" declaration").
					WithNote(winner.Span, "effective declaration is here").
					Emit()
			}
		}

		if winner.Origin != facet.OriginExternal {
			facet.ValidateConstruct(kind, winner.Block, rep)
		}
	}
	return effective, overridden
}
