package resolve

import (
	"strconv"

	"aim/internal/diag"
	"aim/internal/facet"
)

// ParseMapping lifts one MAP record into a Mapping. The shape is:
//
//	MAP CartService {
//	    ALIAS: cart
//	    TARGET: shop.cart
//	    OPERATIONS {
//	        addItem: add_to_cart
//	    }
//	}
//
// ALIAS defaults to the construct title when omitted. TARGET is mandatory;
// without it the record cannot satisfy anything and is a hard error. A
// malformed mapping is still returned when an alias is recoverable so its
// span stays available for cycle reporting.
func ParseMapping(rec *facet.Record, rep diag.Reporter) (*Mapping, bool) {
	m := &Mapping{
		Namespace: rec.Feature,
		File:      rec.File,
		Span:      rec.Span,
	}

	m.Alias, _ = rec.Block.PropValue("ALIAS")
	if m.Alias == "" {
		m.Alias = rec.Block.Title
	}
	ok := true
	if m.Alias == "" {
		if rep != nil {
			diag.ReportError(rep, diag.DepBadEntry, rec.Span,
				"MAP declares neither a title nor an ALIAS").Emit()
		}
		ok = false
	}

	target, has := rec.Block.Prop("TARGET")
	if !has || target.Value.Raw == "" {
		if rep != nil {
			diag.ReportError(rep, diag.DepBadEntry, rec.Span,
				"MAP "+strconv.Quote(m.Alias)+" has no TARGET").Emit()
		}
		ok = false
	}
	m.Target = target.Value.Raw

	if ops, has := rec.Block.Find("OPERATIONS"); has {
		for _, p := range ops.Props {
			if p.Value.Raw == "" {
				if rep != nil {
					diag.ReportError(rep, diag.DepBadEntry, p.KeySpan,
						"operation "+strconv.Quote(p.Key)+" maps to nothing").Emit()
				}
				ok = false
				continue
			}
			m.Operations = append(m.Operations, OpRule{From: p.Key, To: p.Value.Raw})
		}
	}
	return m, ok
}
