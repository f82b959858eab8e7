package facet

import (
	"aim/internal/block"
	"aim/internal/diag"
	"aim/internal/header"
)

// ValidateConstruct enforces the per-kind minima on a facet construct:
// SCHEMA, FLOW, CONTRACT, VIEW and EVENT require a SUMMARY; PERSONA does not,
// provided it supplies ROLE and ACCESS. External records are validated at
// extraction; inline and embedded records only when selected as the
// effective source.
func ValidateConstruct(kind header.FacetKind, blk *block.Block, rep diag.Reporter) bool {
	ok := true

	if blk.Title == "" {
		report(rep, diag.IntMissingConstruct, blk.NameSpan,
			blk.Name+" construct is missing its name")
		ok = false
	}

	switch kind {
	case header.FacetSchema, header.FacetFlow, header.FacetContract,
		header.FacetView, header.FacetEvent:
		if v, has := blk.PropValue("SUMMARY"); !has || v == "" {
			report(rep, diag.IntMissingSummary, blk.NameSpan,
				blk.Name+" '"+blk.Title+"' requires a SUMMARY")
			ok = false
		}

	case header.FacetPersona:
		if v, has := blk.PropValue("ROLE"); !has || v == "" {
			report(rep, diag.IntPersonaMissingRole, blk.NameSpan,
				"PERSONA '"+blk.Title+"' requires a ROLE")
			ok = false
		}
		if !hasAccess(blk) {
			report(rep, diag.IntPersonaMissingAccess, blk.NameSpan,
				"PERSONA '"+blk.Title+"' requires an ACCESS declaration")
			ok = false
		}
	}
	return ok
}

// hasAccess accepts ACCESS as either a scalar property or a list block.
func hasAccess(blk *block.Block) bool {
	if v, ok := blk.PropValue("ACCESS"); ok && v != "" {
		return true
	}
	if acc, ok := blk.Find("ACCESS"); ok && (len(acc.Items) > 0 || len(acc.Props) > 0) {
		return true
	}
	return false
}
