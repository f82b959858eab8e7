// Package facet lifts typed facet records out of parsed block trees: the
// intent envelope with its embedded sub-blocks, inline top-level constructs,
// and facet-kind source files. Records carry their origin as a tagged
// variant; precedence between competing origins is a total order over the
// tags, resolved in internal/resolve.
package facet

// Origin says where a facet declaration came from. The numeric order is the
// precedence order: higher wins.
type Origin uint8

const (
	// OriginEmbedded is a facet sub-block inside an INTENT body.
	OriginEmbedded Origin = iota
	// OriginInline is a top-level facet block beside the INTENT in the
	// same file.
	OriginInline
	// OriginExternal is a dedicated facet source file, linked from the
	// envelope via INCLUDES or discovered by layout.
	OriginExternal
)

func (o Origin) String() string {
	switch o {
	case OriginEmbedded:
		return "embedded"
	case OriginInline:
		return "inline"
	case OriginExternal:
		return "external"
	}
	return "unknown"
}
