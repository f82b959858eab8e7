package lexer

import (
	"aim/internal/diag"
	"aim/internal/token"
)

// scanString consumes a double-quoted payload. Content is taken verbatim:
// there is no escape processing, and a string never crosses a line break.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Off
	lx.cursor.Bump() // opening quote

	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\n' {
			break
		}
		lx.cursor.Bump()
		if ch == '"' {
			sp := lx.span(start)
			return token.Token{
				Kind: token.String,
				Span: sp,
				// Text carries the payload without the quotes.
				Text: string(lx.cursor.Slice(sp.Start+1, sp.End-1)),
			}
		}
	}

	sp := lx.span(start)
	lx.report(diag.SynUnterminatedString, sp, "unterminated string")
	return token.Token{
		Kind: token.Invalid,
		Span: sp,
		Text: string(lx.cursor.Slice(sp.Start, sp.End)),
	}
}
