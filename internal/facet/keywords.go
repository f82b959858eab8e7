package facet

import (
	"strings"

	"aim/internal/header"
)

// constructKeywords maps each facet kind to its block keyword.
var constructKeywords = map[header.FacetKind]string{
	header.FacetIntent:   "INTENT",
	header.FacetSchema:   "SCHEMA",
	header.FacetFlow:     "FLOW",
	header.FacetContract: "CONTRACT",
	header.FacetPersona:  "PERSONA",
	header.FacetView:     "VIEW",
	header.FacetEvent:    "EVENT",
	header.FacetMapping:  "MAP",
}

// embeddedKinds are the facet kinds that may appear as sub-blocks inside an
// INTENT body. Intent cannot nest and mappings live in their own tree.
var embeddedKinds = map[string]header.FacetKind{
	"SCHEMA":   header.FacetSchema,
	"FLOW":     header.FacetFlow,
	"CONTRACT": header.FacetContract,
	"PERSONA":  header.FacetPersona,
	"VIEW":     header.FacetView,
	"EVENT":    header.FacetEvent,
}

// envelopeSections are the block keys that legally appear inside an INTENT
// body besides embedded facets. BEHAVIOR and NOTES carry free-text narrative
// the engine treats as opaque.
var envelopeSections = map[string]bool{
	"SUMMARY":      true,
	"REQUIREMENTS": true,
	"TESTS":        true,
	"INCLUDES":     true,
	"DEPENDENCIES": true,
	"BEHAVIOR":     true,
	"NOTES":        true,
}

// ConstructKeyword returns the block keyword declaring the given kind.
func ConstructKeyword(kind header.FacetKind) string {
	return constructKeywords[kind]
}

// EmbeddedKind resolves an INTENT sub-block key to a facet kind.
func EmbeddedKind(key string) (header.FacetKind, bool) {
	k, ok := embeddedKinds[key]
	return k, ok
}

// ResemblesFacetKey reports whether an unknown INTENT sub-block key looks
// like a facet declaration: all-uppercase and not a legal envelope section.
func ResemblesFacetKey(key string) bool {
	if key == "" || envelopeSections[key] {
		return false
	}
	if _, ok := embeddedKinds[key]; ok {
		return false
	}
	return key == strings.ToUpper(key) && key != strings.ToLower(key)
}
