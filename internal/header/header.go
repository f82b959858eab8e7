// Package header implements the AIM header grammar and the path identity
// validator. The header line is authoritative for a file's identity, but the
// physical path must independently agree with it on namespace and facet;
// disagreement is a hard error even when the header itself is well-formed.
package header

import (
	"fmt"
	"strings"

	"aim/internal/source"
)

// FacetKind is one of the eight declaration kinds.
type FacetKind uint8

const (
	FacetInvalid FacetKind = iota
	FacetIntent
	FacetSchema
	FacetFlow
	FacetContract
	FacetPersona
	FacetView
	FacetEvent
	FacetMapping
)

var facetNames = map[FacetKind]string{
	FacetIntent:   "intent",
	FacetSchema:   "schema",
	FacetFlow:     "flow",
	FacetContract: "contract",
	FacetPersona:  "persona",
	FacetView:     "view",
	FacetEvent:    "event",
	FacetMapping:  "mapping",
}

func (k FacetKind) String() string {
	if s, ok := facetNames[k]; ok {
		return s
	}
	return "invalid"
}

// ParseFacetKind maps a facet token to its kind.
func ParseFacetKind(s string) (FacetKind, bool) {
	for k, name := range facetNames {
		if name == s {
			return k, true
		}
	}
	return FacetInvalid, false
}

// Namespace is the ordered list of lowercase feature segments.
type Namespace []string

func (ns Namespace) String() string {
	return strings.Join(ns, ".")
}

// Equal compares namespaces by exact segment-list equality.
func (ns Namespace) Equal(other Namespace) bool {
	if len(ns) != len(other) {
		return false
	}
	for i := range ns {
		if ns[i] != other[i] {
			return false
		}
	}
	return true
}

// ValidNamespaceSegment reports whether seg matches [a-z0-9]+.
func ValidNamespaceSegment(seg string) bool {
	if seg == "" {
		return false
	}
	for i := 0; i < len(seg); i++ {
		b := seg[i]
		if (b < 'a' || b > 'z') && (b < '0' || b > '9') {
			return false
		}
	}
	return true
}

// ParseNamespace splits a dotted namespace, validating every segment.
func ParseNamespace(s string) (Namespace, bool) {
	if s == "" {
		return nil, false
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if !ValidNamespaceSegment(seg) {
			return nil, false
		}
	}
	return Namespace(segs), true
}

// Version is a strict two-part version.
type Version struct {
	Major int
	Minor int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Header is the validated one-line AIM declaration.
type Header struct {
	Namespace Namespace
	Facet     FacetKind
	Version   Version
	// Span covers the header line for diagnostic attribution.
	Span source.Span
}

// String re-serializes the header exactly as the grammar prints it.
func (h Header) String() string {
	return fmt.Sprintf("AIM: %s#%s@%s", h.Namespace, h.Facet, h.Version)
}
