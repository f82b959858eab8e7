package resolve

import (
	"aim/internal/diag"
	"aim/internal/header"
)

// classifyTier computes the feature's precision tier from the resolved
// facet set. Tier one is legitimate output, not an error: the engine says
// so once, informationally, and skips chain enforcement for the feature.
func classifyTier(f *Feature, rep diag.Reporter) Tier {
	if len(f.Effective) == 0 {
		if rep != nil && f.Envelope != nil {
			diag.ReportInfo(rep, diag.TrcTier1Fidelity, f.Envelope.Span,
				"feature "+f.Namespace.String()+" is intent-only; synthesis proceeds at reduced fidelity").
				Emit()
		}
		return Tier1
	}

	_, hasContract := f.Effective[header.FacetContract]
	_, hasSchema := f.Effective[header.FacetSchema]
	_, hasPersona := f.Effective[header.FacetPersona]
	_, hasView := f.Effective[header.FacetView]

	if hasContract && hasSchema && (hasPersona || hasView) {
		return Tier3
	}
	return Tier2
}
