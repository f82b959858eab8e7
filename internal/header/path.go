package header

import (
	"strconv"
	"strings"

	"aim/internal/diag"
	"aim/internal/source"
)

// Layout distinguishes the two accepted physical shapes of a source tree.
type Layout uint8

const (
	LayoutFlat Layout = iota
	LayoutNested
)

func (l Layout) String() string {
	if l == LayoutNested {
		return "nested"
	}
	return "flat"
}

// PathIdentity is the identity derived purely from a file's location
// relative to the aim root, before the header is consulted.
type PathIdentity struct {
	Namespace Namespace
	Facet     FacetKind
	Layout    Layout
	// Mapping is true for files under the mappings tree.
	Mapping bool
}

const intentExt = ".intent"

// DeriveIdentity computes the expected identity from a slash-separated path
// relative to the aim root. Accepted shapes:
//
//	<ns.dots>.<facet>.intent                    flat feature file
//	<seg>/.../<facet>.intent                    nested feature file
//	mappings/<ns.dots>.mapping.intent           flat mapping file
//	mappings/<seg>/.../mapping.intent           nested mapping file
func DeriveIdentity(relPath string) (PathIdentity, string, bool) {
	if !strings.HasSuffix(relPath, intentExt) {
		return PathIdentity{}, "not an .intent file", false
	}

	parts := strings.Split(relPath, "/")
	if parts[0] == "mappings" {
		return deriveMappingIdentity(parts[1:])
	}

	if len(parts) == 1 {
		return deriveFlatIdentity(parts[0], false)
	}
	return deriveNestedIdentity(parts)
}

// deriveFlatIdentity handles `<ns.dots>.<facet>.intent` file names.
func deriveFlatIdentity(name string, mapping bool) (PathIdentity, string, bool) {
	stem := strings.TrimSuffix(name, intentExt)
	segs := strings.Split(stem, ".")
	if len(segs) < 2 {
		return PathIdentity{}, "flat file name needs '<namespace>.<facet>.intent'", false
	}

	facetTok := segs[len(segs)-1]
	facet, ok := ParseFacetKind(facetTok)
	if !ok {
		return PathIdentity{}, "unknown facet " + strconv.Quote(facetTok) + " in file name", false
	}
	if mapping && facet != FacetMapping {
		return PathIdentity{}, "files under mappings/ must be mapping facets", false
	}

	nsSegs := segs[:len(segs)-1]
	for _, seg := range nsSegs {
		if !ValidNamespaceSegment(seg) {
			return PathIdentity{}, "invalid namespace segment " + strconv.Quote(seg) + " in file name", false
		}
	}
	return PathIdentity{
		Namespace: Namespace(nsSegs),
		Facet:     facet,
		Layout:    LayoutFlat,
		Mapping:   mapping,
	}, "", true
}

// deriveNestedIdentity handles `<seg>/.../<facet>.intent` paths.
func deriveNestedIdentity(parts []string) (PathIdentity, string, bool) {
	fileName := parts[len(parts)-1]
	dirs := parts[:len(parts)-1]

	stem := strings.TrimSuffix(fileName, intentExt)
	facet, ok := ParseFacetKind(stem)
	if !ok {
		return PathIdentity{}, "nested file name must be '<facet>.intent', got " + strconv.Quote(fileName), false
	}

	for _, seg := range dirs {
		if !ValidNamespaceSegment(seg) {
			return PathIdentity{}, "invalid namespace segment " + strconv.Quote(seg) + " in path", false
		}
	}
	return PathIdentity{
		Namespace: Namespace(dirs),
		Facet:     facet,
		Layout:    LayoutNested,
	}, "", true
}

// deriveMappingIdentity handles both mapping shapes under mappings/.
func deriveMappingIdentity(parts []string) (PathIdentity, string, bool) {
	if len(parts) == 0 {
		return PathIdentity{}, "mappings/ needs a mapping file", false
	}

	if len(parts) == 1 {
		// mappings/<ns.dots>.mapping.intent
		pid, msg, ok := deriveFlatIdentity(parts[0], true)
		if !ok {
			return pid, msg, false
		}
		pid.Mapping = true
		return pid, "", true
	}

	// mappings/<seg>/.../mapping.intent
	fileName := parts[len(parts)-1]
	if fileName != "mapping.intent" {
		return PathIdentity{}, "nested mapping file must be named 'mapping.intent', got " + strconv.Quote(fileName), false
	}
	dirs := parts[:len(parts)-1]
	for _, seg := range dirs {
		if !ValidNamespaceSegment(seg) {
			return PathIdentity{}, "invalid namespace segment " + strconv.Quote(seg) + " in path", false
		}
	}
	return PathIdentity{
		Namespace: Namespace(dirs),
		Facet:     FacetMapping,
		Layout:    LayoutNested,
		Mapping:   true,
	}, "", true
}

// CrossCheck verifies that the header and the path-derived identity agree on
// namespace and facet. The header stays authoritative for the record, but
// disagreement is a hard error, never a silent preference.
func CrossCheck(h Header, pid PathIdentity, rep diag.Reporter) bool {
	mismatch := ""
	switch {
	case !h.Namespace.Equal(pid.Namespace):
		mismatch = "namespace " + strconv.Quote(h.Namespace.String()) +
			" vs path-derived " + strconv.Quote(pid.Namespace.String())
	case h.Facet != pid.Facet:
		mismatch = "facet " + strconv.Quote(h.Facet.String()) +
			" vs path-derived " + strconv.Quote(pid.Facet.String())
	}
	if mismatch == "" {
		return true
	}
	if rep != nil {
		rep.Report(diag.HdrPathMismatch, diag.SevError, h.Span,
			"header identity disagrees with file path: "+mismatch, nil)
	}
	return false
}

// FileIdentity ties a validated identity to its physical file for
// cross-layout duplicate detection.
type FileIdentity struct {
	Header Header
	Path   PathIdentity
	// RelPath is the slash-separated path relative to the aim root, as
	// given to DeriveIdentity.
	RelPath string
	File    source.FileID
	Span    source.Span
}

// DetectDuplicates raises one hard error for every (feature, facet) pair
// that is discoverable through both a flat and a nested file at once.
func DetectDuplicates(ids []FileIdentity, rep diag.Reporter) {
	type key struct {
		ns      string
		facet   FacetKind
		mapping bool
	}
	byIdentity := make(map[key][]FileIdentity, len(ids))
	for _, id := range ids {
		k := key{id.Header.Namespace.String(), id.Header.Facet, id.Path.Mapping}
		byIdentity[k] = append(byIdentity[k], id)
	}

	for _, group := range byIdentity {
		if len(group) < 2 {
			continue
		}
		hasFlat, hasNested := false, false
		for _, id := range group {
			if id.Path.Layout == LayoutFlat {
				hasFlat = true
			} else {
				hasNested = true
			}
		}
		if !hasFlat || !hasNested {
			continue
		}
		if rep == nil {
			continue
		}
		b := diag.ReportError(rep, diag.HdrDuplicateIdentity, group[0].Span,
			"identity "+group[0].Header.Namespace.String()+"#"+group[0].Header.Facet.String()+
				" is declared by both a flat and a nested file")
		for _, other := range group[1:] {
			b.WithNote(other.Span, "also declared here")
		}
		b.Emit()
	}
}
