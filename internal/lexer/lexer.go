package lexer

import (
	"aim/internal/diag"
	"aim/internal/source"
	"aim/internal/token"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
	// StartOffset is the byte offset scanning begins at. The driver sets it
	// past the header line so the AIM header never reaches the block lexer.
	StartOffset uint32
}

// Lexer produces block-grammar tokens for one file. Newlines are significant
// and are returned as tokens; horizontal whitespace is not.
type Lexer struct {
	file        *source.File
	cursor      Cursor
	opts        Options
	look        *token.Token
	atLineStart bool
}

// New creates a lexer over file.
func New(file *source.File, opts Options) *Lexer {
	cursor := NewCursor(file)
	if opts.StartOffset > 0 && opts.StartOffset <= cursor.limit {
		cursor.Off = opts.StartOffset
	}
	return &Lexer{
		file:        file,
		cursor:      cursor,
		opts:        opts,
		atLineStart: true,
	}
}

// Next returns the next token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipHorizontalSpace()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	// Legacy metadata markers are rejected wherever a line starts,
	// regardless of depth or indentation.
	if lx.atLineStart {
		if tok, found := lx.scanLegacyLine(); found {
			return tok
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '\n':
		start := lx.cursor.Off
		lx.cursor.Bump()
		lx.atLineStart = true
		return token.Token{Kind: token.Newline, Span: lx.span(start), Text: "\n"}

	case ch == '"':
		tok = lx.scanString()

	case isIdentByte(ch):
		tok = lx.scanIdent()

	default:
		tok = lx.scanPunct()
	}

	lx.atLineStart = false
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the current offset.
func (lx *Lexer) EmptySpan() source.Span {
	return lx.emptySpan()
}

func (lx *Lexer) skipHorizontalSpace() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			lx.cursor.Bump()
			continue
		}
		return
	}
}

// scanLegacyLine consumes a whole line starting with a legacy marker and
// returns an Invalid token covering it. The error is reported here so the
// parser can simply skip the token.
func (lx *Lexer) scanLegacyLine() (token.Token, bool) {
	line := string(lx.cursor.RestOfLine())
	marker, found := token.LegacyPrefix(line)
	if !found {
		return token.Token{}, false
	}

	start := lx.cursor.Off
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	sp := lx.span(start)
	lx.report(diag.SynLegacyToken, sp, "legacy metadata token "+quoted(marker)+" is not allowed")
	lx.atLineStart = false
	return token.Token{Kind: token.Invalid, Span: sp, Text: line}, true
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Peek()
	lx.cursor.Bump()

	kind := token.Invalid
	switch ch {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case ':':
		kind = token.Colon
	case ',':
		kind = token.Comma
	case '-':
		kind = token.Dash
	}

	sp := lx.span(start)
	if kind == token.Invalid {
		// Consume the full UTF-8 sequence so one bad rune yields one error.
		for !lx.cursor.EOF() && lx.cursor.Peek() >= 0x80 && lx.cursor.Peek() < 0xC0 {
			lx.cursor.Bump()
		}
		sp = lx.span(start)
		lx.report(diag.SynUnknownChar, sp, "unknown character "+quoted(string(lx.cursor.Slice(sp.Start, sp.End))))
	}
	return token.Token{Kind: kind, Span: sp, Text: string(lx.cursor.Slice(sp.Start, sp.End))}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) span(start uint32) source.Span {
	return source.Span{File: lx.file.ID, Start: start, End: lx.cursor.Off}
}

func (lx *Lexer) report(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}

func quoted(s string) string {
	return "'" + s + "'"
}
