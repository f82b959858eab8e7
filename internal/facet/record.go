package facet

import (
	"aim/internal/block"
	"aim/internal/header"
	"aim/internal/source"
)

// Record is one facet declaration attributed to a feature. Records are
// immutable once extracted; resolution selects between them but never
// mutates them.
type Record struct {
	Kind    header.FacetKind
	Feature header.Namespace
	Origin  Origin
	Version header.Version

	// Block is the construct's content tree (the SCHEMA/FLOW/... block).
	Block *block.Block
	// File is the declaring source file; Span anchors diagnostics at the
	// construct's declaration.
	File source.FileID
	Span source.Span
}

// IncludeEntry is one `facet: "path"` entry of an envelope's INCLUDES block.
type IncludeEntry struct {
	Key     string
	KeySpan source.Span
	Value   block.Value
}

// Envelope is the mandatory intent facet anchoring a feature.
type Envelope struct {
	Feature header.Namespace
	Version header.Version
	Name    string // the INTENT title

	Summary      string
	Requirements []string
	Tests        []string

	Includes []IncludeEntry

	// Block is the whole INTENT body; DEPENDENCIES and free-text narrative
	// sections stay accessible through it.
	Block *block.Block
	File  source.FileID
	Span  source.Span
}
