// Package resolve implements the whole-feature stages of the pipeline:
// grouping facet records by namespace, selecting one effective source per
// facet kind, merging dependency declarations, resolving capability aliases
// against the mapping tree, and classifying each feature's synthesis tier.
// Every stage is pure over the immutable records produced upstream; the only
// output besides the model is diagnostics.
package resolve

import (
	"sort"

	"aim/internal/facet"
	"aim/internal/header"
	"aim/internal/source"
)

// Tier is the computed precision level of a feature.
type Tier uint8

const (
	// Tier1 is intent-only: chain enforcement is skipped.
	Tier1 Tier = 1
	// Tier2 is partial: at least one facet resolved, but not the Tier3 set.
	Tier2 Tier = 2
	// Tier3 is full: contract, schema, and at least one of persona/view.
	Tier3 Tier = 3
)

func (t Tier) String() string {
	switch t {
	case Tier1:
		return "tier-1"
	case Tier2:
		return "tier-2"
	case Tier3:
		return "tier-3"
	}
	return "unclassified"
}

// AliasKind distinguishes the two dependency declaration forms.
type AliasKind uint8

const (
	AliasImport AliasKind = iota
	AliasRequires
)

func (k AliasKind) String() string {
	if k == AliasRequires {
		return "REQUIRES"
	}
	return "IMPORT"
}

// AliasStatus is the resolution state of a dependency alias.
type AliasStatus uint8

const (
	AliasUnresolved AliasStatus = iota
	AliasResolvedByMapping
	AliasResolvedByImport
)

func (s AliasStatus) String() string {
	switch s {
	case AliasResolvedByMapping:
		return "resolved-by-mapping"
	case AliasResolvedByImport:
		return "resolved-by-import"
	}
	return "unresolved"
}

// Alias is one merged dependency declaration with provenance.
type Alias struct {
	Name       string
	Kind       AliasKind
	Capability string
	Status     AliasStatus
	// Mapping is the record satisfying the alias, when resolved by one.
	Mapping *Mapping

	// Provenance of the winning declaration.
	File source.FileID
	Span source.Span
	// FromEnvelope is true when the declaration came from the intent
	// envelope rather than a facet source; facet-local wins conflicts.
	FromEnvelope bool
}

// OpRule is one operation-to-operation translation of a mapping.
type OpRule struct {
	From string
	To   string
}

// Mapping is a validated MAP record from the mapping source tree.
type Mapping struct {
	Alias string
	// Target is the capability surface: a feature namespace or an
	// external surface name.
	Target     string
	Operations []OpRule

	Namespace header.Namespace
	File      source.FileID
	Span      source.Span
}

// Feature is the resolved view of one feature namespace.
type Feature struct {
	Namespace header.Namespace
	Envelope  *facet.Envelope

	// Effective maps each facet kind to its single winning record.
	Effective map[header.FacetKind]*facet.Record
	// Overridden keeps records displaced by precedence, for reporting.
	Overridden []*facet.Record

	Aliases []*Alias
	Tier    Tier
}

// EffectiveKinds returns the resolved facet kinds in a stable order.
func (f *Feature) EffectiveKinds() []header.FacetKind {
	kinds := make([]header.FacetKind, 0, len(f.Effective))
	for k := range f.Effective {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Model is the run output handed to the synthesizer: every resolved feature
// keyed by namespace, iterable in deterministic order.
type Model struct {
	features map[string]*Feature
	order    []string
}

func newModel() *Model {
	return &Model{features: make(map[string]*Feature)}
}

func (m *Model) add(f *Feature) {
	key := f.Namespace.String()
	if _, dup := m.features[key]; !dup {
		m.order = append(m.order, key)
	}
	m.features[key] = f
}

// Feature returns the resolved feature for a namespace string.
func (m *Model) Feature(ns string) (*Feature, bool) {
	f, ok := m.features[ns]
	return f, ok
}

// Features returns all resolved features ordered by namespace.
func (m *Model) Features() []*Feature {
	sorted := make([]string, len(m.order))
	copy(sorted, m.order)
	sort.Strings(sorted)

	out := make([]*Feature, 0, len(sorted))
	for _, key := range sorted {
		out = append(out, m.features[key])
	}
	return out
}

func (m *Model) Len() int {
	return len(m.features)
}
