package resolve

import (
	"sort"
	"strconv"

	"aim/internal/diag"
	"aim/internal/facet"
	"aim/internal/header"
)

// Input is everything the per-file stages produced for one run.
type Input struct {
	Envelopes []*facet.Envelope
	Records   []facet.Record
	Mappings  []*Mapping
	// Identities covers every loaded file, for INCLUDES target lookup.
	Identities []header.FileIdentity
}

// Resolve runs the whole-feature stages over the extracted declarations and
// returns the resolved model. Resolution is batch-minded throughout: every
// feature is processed and every diagnostic emitted regardless of how many
// errors accumulate; callers decide afterwards whether the bag blocks.
func Resolve(in Input, rep diag.Reporter) *Model {
	model := newModel()
	idx := newIncludeIndex(in.Identities)
	mappings := indexMappings(in.Mappings, rep)

	groups := GroupFeatures(in.Envelopes, in.Records, rep)
	var features []*Feature
	for _, g := range groups {
		if g.Envelope == nil {
			// Already reported by the grouper; nothing to synthesize.
			continue
		}
		validateIncludes(g.Envelope, idx, rep)
		effective, overridden := selectEffective(g, rep)
		f := &Feature{
			Namespace:  g.Namespace,
			Envelope:   g.Envelope,
			Effective:  effective,
			Overridden: overridden,
			Aliases:    collectAliases(g, effective, rep),
		}
		features = append(features, f)
		model.add(f)
	}

	// Alias resolution needs the full feature set: IMPORT capabilities may
	// name sibling features resolved later in the walk.
	for _, f := range features {
		resolveAliases(f, model, mappings, rep)
	}
	detectMappingCycles(features, model, rep)

	for _, f := range features {
		f.Tier = classifyTier(f, rep)
		checkChain(f, rep)
	}
	return model
}

// indexMappings builds the alias lookup. A duplicated alias keeps its first
// declaration and the repeat is a non-blocking note.
func indexMappings(mappings []*Mapping, rep diag.Reporter) map[string]*Mapping {
	byAlias := make(map[string]*Mapping, len(mappings))
	for _, m := range mappings {
		if m.Alias == "" {
			continue
		}
		if prev, dup := byAlias[m.Alias]; dup {
			if rep != nil {
				diag.ReportInfo(rep, diag.DepConflict, m.Span,
					"mapping alias "+strconv.Quote(m.Alias)+" is declared more than once").
					WithNote(prev.Span, "first declared here").
					Emit()
			}
			continue
		}
		byAlias[m.Alias] = m
	}
	return byAlias
}

// resolveAliases settles the status of every dependency alias of a feature.
// A REQUIRES alias without a mapping always blocks: requiring an external
// capability is a promise the batch cannot keep silently. An IMPORT alias
// without a provider is informational only.
func resolveAliases(f *Feature, model *Model, mappings map[string]*Mapping, rep diag.Reporter) {
	for _, a := range f.Aliases {
		if m, ok := mappings[a.Name]; ok {
			a.Status = AliasResolvedByMapping
			a.Mapping = m
			continue
		}

		switch a.Kind {
		case AliasRequires:
			a.Status = AliasUnresolved
			if rep != nil {
				diag.ReportError(rep, diag.DepUnresolvedRequire, a.Span,
					"REQUIRES alias "+strconv.Quote(a.Name)+
						" has no mapping under mappings/").
					Emit()
			}

		case AliasImport:
			if _, ok := model.Feature(a.Capability); ok {
				a.Status = AliasResolvedByImport
				continue
			}
			a.Status = AliasUnresolved
			if rep != nil {
				diag.ReportInfo(rep, diag.DepUnresolvedImport, a.Span,
					"IMPORT alias "+strconv.Quote(a.Name)+
						" matches no feature or mapping; synthesis treats it as opaque").
					Emit()
			}
		}
	}
}

// detectMappingCycles walks the graph whose edges run from a feature to the
// feature its mappings target. A feature that transitively requires itself
// through mappings cannot be ordered for synthesis, so each distinct cycle
// is one hard error anchored at the alias that closes it.
func detectMappingCycles(features []*Feature, model *Model, rep diag.Reporter) {
	// Edge list per namespace, deterministic by alias declaration order.
	type edge struct {
		to    string
		alias *Alias
	}
	edges := make(map[string][]edge, len(features))
	var nodes []string
	for _, f := range features {
		ns := f.Namespace.String()
		nodes = append(nodes, ns)
		for _, a := range f.Aliases {
			if a.Status != AliasResolvedByMapping || a.Mapping == nil {
				continue
			}
			if _, ok := model.Feature(a.Mapping.Target); ok {
				edges[ns] = append(edges[ns], edge{to: a.Mapping.Target, alias: a})
			}
		}
	}
	sort.Strings(nodes)

	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(nodes))
	var stack []string
	onStack := make(map[string]int)
	reported := make(map[string]bool)

	var visit func(ns string)
	visit = func(ns string) {
		color[ns] = grey
		onStack[ns] = len(stack)
		stack = append(stack, ns)

		for _, e := range edges[ns] {
			switch color[e.to] {
			case white:
				visit(e.to)
			case grey:
				cycle := append([]string(nil), stack[onStack[e.to]:]...)
				key := canonicalCycle(cycle)
				if !reported[key] {
					reported[key] = true
					reportCycle(cycle, e.alias, rep)
				}
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, ns)
		color[ns] = black
	}

	for _, ns := range nodes {
		if color[ns] == white {
			visit(ns)
		}
	}
}

// canonicalCycle keys a cycle independently of its starting node.
func canonicalCycle(cycle []string) string {
	lo := 0
	for i, ns := range cycle {
		if ns < cycle[lo] {
			lo = i
		}
	}
	key := ""
	for i := range cycle {
		key += cycle[(lo+i)%len(cycle)] + ">"
	}
	return key
}

func reportCycle(cycle []string, closing *Alias, rep diag.Reporter) {
	if rep == nil {
		return
	}
	path := ""
	for _, ns := range cycle {
		path += ns + " -> "
	}
	path += cycle[0]
	diag.ReportError(rep, diag.DepMappingCycle, closing.Span,
		"mapping dependencies form a cycle: "+path).
		WithNote(closing.Mapping.Span, "cycle closed by this mapping").
		Emit()
}
