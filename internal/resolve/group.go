package resolve

import (
	"sort"
	"strconv"

	"aim/internal/diag"
	"aim/internal/facet"
	"aim/internal/header"
)

// Group is every declaration attributed to one feature namespace, before
// precedence selection.
type Group struct {
	Namespace header.Namespace
	Envelope  *facet.Envelope
	Records   []facet.Record
}

// GroupFeatures buckets envelopes and facet records by namespace. Records
// whose feature has no intent envelope are reported (informational) and kept
// in a group without an envelope; such groups are excluded from tier
// classification but their diagnostics still surface.
//
// Two envelopes for the same namespace can only come from distinct files;
// the second and later ones are hard duplicate errors and the first one, in
// file path order as given, stays authoritative.
func GroupFeatures(envelopes []*facet.Envelope, records []facet.Record, rep diag.Reporter) []*Group {
	byNS := make(map[string]*Group)
	var order []string

	group := func(ns header.Namespace) *Group {
		key := ns.String()
		g, ok := byNS[key]
		if !ok {
			g = &Group{Namespace: ns}
			byNS[key] = g
			order = append(order, key)
		}
		return g
	}

	for _, env := range envelopes {
		g := group(env.Feature)
		if g.Envelope != nil {
			if rep != nil {
				diag.ReportError(rep, diag.ResDuplicateFacet, env.Span,
					"feature "+strconv.Quote(env.Feature.String())+" has more than one intent envelope").
					WithNote(g.Envelope.Span, "first declared here").
					Emit()
			}
			continue
		}
		g.Envelope = env
	}

	for _, rec := range records {
		g := group(rec.Feature)
		g.Records = append(g.Records, rec)
	}

	sort.Strings(order)
	out := make([]*Group, 0, len(order))
	for _, key := range order {
		g := byNS[key]
		if g.Envelope == nil && rep != nil {
			sp := g.Records[0].Span
			diag.ReportInfo(rep, diag.IntNoEnvelope, sp,
				"facet declarations for "+strconv.Quote(key)+" have no intent envelope; feature is not synthesized").
				Emit()
		}
		out = append(out, g)
	}
	return out
}
