package lexer

import (
	"aim/internal/token"
)

// isIdentByte reports whether b can appear in a bare word. Dots are part of
// idents so dotted references (juice.games.snake, Alias.Type) stay whole.
func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '.':
		return true
	}
	return false
}

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() && isIdentByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.span(start)
	return token.Token{
		Kind: token.Ident,
		Span: sp,
		Text: string(lx.cursor.Slice(sp.Start, sp.End)),
	}
}
