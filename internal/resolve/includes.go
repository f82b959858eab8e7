package resolve

import (
	"path"
	"strconv"

	"aim/internal/diag"
	"aim/internal/facet"
	"aim/internal/header"
)

// includeIndex answers "which loaded file does this INCLUDES value name".
// Values may be the path relative to the aim root or the bare file name;
// both are normalized to slash form.
type includeIndex struct {
	byRelPath map[string]header.FileIdentity
	byBase    map[string][]header.FileIdentity
}

func newIncludeIndex(ids []header.FileIdentity) *includeIndex {
	idx := &includeIndex{
		byRelPath: make(map[string]header.FileIdentity, len(ids)),
		byBase:    make(map[string][]header.FileIdentity, len(ids)),
	}
	for _, id := range ids {
		idx.byRelPath[id.RelPath] = id
		base := path.Base(id.RelPath)
		idx.byBase[base] = append(idx.byBase[base], id)
	}
	return idx
}

func (idx *includeIndex) lookup(value string) (header.FileIdentity, bool) {
	clean := path.Clean(value)
	if id, ok := idx.byRelPath[clean]; ok {
		return id, true
	}
	// A bare file name is accepted only when unambiguous.
	if matches := idx.byBase[clean]; len(matches) == 1 {
		return matches[0], true
	}
	return header.FileIdentity{}, false
}

// validateIncludes checks every INCLUDES entry of an envelope against the
// loaded source set. INCLUDES is a linkage assertion, not a loading
// mechanism: external files are discovered by layout regardless, so a bad
// entry never changes which records exist, it only produces diagnostics.
// All entries are checked; nothing short-circuits.
func validateIncludes(env *facet.Envelope, idx *includeIndex, rep diag.Reporter) {
	if rep == nil {
		return
	}
	for _, inc := range env.Includes {
		kind, ok := header.ParseFacetKind(inc.Key)
		if !ok || kind == header.FacetIntent || kind == header.FacetMapping {
			diag.ReportError(rep, diag.ResBadIncludeKey, inc.KeySpan,
				strconv.Quote(inc.Key)+" is not an includable facet kind").
				Emit()
			continue
		}
		if inc.Value.Raw == "" {
			diag.ReportError(rep, diag.ResBadIncludeValue, inc.Value.Span,
				"INCLUDES entry for "+inc.Key+" has an empty target").
				Emit()
			continue
		}

		target, found := idx.lookup(inc.Value.Raw)
		if !found {
			diag.ReportError(rep, diag.ResIncludeTargetMissing, inc.Value.Span,
				"included file "+strconv.Quote(inc.Value.Raw)+" was not found under the aim root").
				Emit()
			continue
		}

		mismatch := ""
		switch {
		case !target.Header.Namespace.Equal(env.Feature):
			mismatch = "it declares feature " + strconv.Quote(target.Header.Namespace.String())
		case target.Header.Facet != kind:
			mismatch = "it declares facet " + strconv.Quote(target.Header.Facet.String()) +
				", not " + strconv.Quote(kind.String())
		case target.Header.Version != env.Version:
			mismatch = "it declares version " + target.Header.Version.String() +
				", envelope is " + env.Version.String()
		}
		if mismatch != "" {
			diag.ReportError(rep, diag.ResIncludeTargetMismatch, inc.Value.Span,
				"included file "+strconv.Quote(inc.Value.Raw)+" does not match: "+mismatch).
				WithNote(target.Span, "target header is here").
				Emit()
		}
	}
}
