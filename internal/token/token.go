package token

import (
	"aim/internal/source"
)

// Token is one lexeme of the block grammar with its source span.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

func (t Token) Is(k Kind) bool {
	return t.Kind == k
}
