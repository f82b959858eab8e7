// Package parser turns the token stream of one .intent file into a generic
// block tree. It never interprets facet semantics: that is internal/facet's
// job. All findings flow through the diag.Reporter; a broken brace structure
// additionally marks the result fatal so the file is excluded from facet
// extraction while other files keep processing.
package parser

import (
	"strings"

	"aim/internal/block"
	"aim/internal/diag"
	"aim/internal/lexer"
	"aim/internal/source"
	"aim/internal/token"
)

type Options struct {
	// MaxErrors bounds the number of syntax errors reported per file
	// (0 = unbounded). Parsing continues either way.
	MaxErrors uint
	Reporter  diag.Reporter
}

type Result struct {
	Root *block.Block
	// Fatal marks a brace-structure failure: the tree is incomplete and
	// must not feed facet extraction.
	Fatal bool
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	file     *source.File
	opts     Options
	reported uint
	fatal    bool
}

// ParseFile parses the block body of one file. The lexer is expected to be
// positioned past the AIM header line.
func ParseFile(file *source.File, lx *lexer.Lexer, opts Options) Result {
	p := &Parser{lx: lx, file: file, opts: opts}

	root := block.NewRoot(lx.EmptySpan())
	p.parseBody(root, true)
	return Result{Root: root, Fatal: p.fatal}
}

// parseBody consumes entries until the closing brace (or EOF for the root).
func (p *Parser) parseBody(b *block.Block, isRoot bool) {
	for {
		tok := p.lx.Peek()

		switch tok.Kind {
		case token.EOF:
			if !isRoot {
				p.error(diag.SynUnclosedBrace, b.NameSpan,
					"block '"+b.Name+"' is never closed")
				p.fatal = true
			}
			b.Span = b.Span.Cover(tok.Span)
			return

		case token.Newline, token.Invalid:
			p.lx.Next()

		case token.RBrace:
			p.lx.Next()
			if isRoot {
				p.error(diag.SynExtraCloseBrace, tok.Span, "unmatched '}'")
				p.fatal = true
				continue
			}
			b.Span = b.Span.Cover(tok.Span)
			return

		case token.Dash:
			p.lx.Next()
			val := p.parseValue()
			if val.Raw == "" {
				p.error(diag.SynMalformedProperty, tok.Span, "empty list item")
				continue
			}
			b.Items = append(b.Items, block.ListItem{Value: val})

		case token.Ident:
			p.parseEntry(b)

		case token.Comma:
			p.lx.Next()
			p.error(diag.SynTrailingComma, tok.Span,
				"comma separators are not permitted between properties")

		default:
			p.lx.Next()
			p.error(diag.SynUnexpectedToken, tok.Span,
				"unexpected "+tok.Kind.String()+" at start of entry")
			p.skipToNewline()
		}
	}
}

// parseEntry handles `key: value`, `KEY { ... }` and `KEY Title { ... }`.
func (p *Parser) parseEntry(b *block.Block) {
	key := p.lx.Next()

	switch next := p.lx.Peek(); next.Kind {
	case token.Colon:
		p.lx.Next()
		if p.lx.Peek().Kind == token.LBrace {
			// `KEY: { ... }` – tolerate the colon, it is still a block.
			p.lx.Next()
			p.parseChild(b, key, "")
			return
		}
		val := p.parseValue()
		b.Props = append(b.Props, block.Property{
			Key:     key.Text,
			KeySpan: key.Span,
			Value:   val,
		})

	case token.LBrace:
		p.lx.Next()
		p.parseChild(b, key, "")

	case token.Ident:
		title := p.lx.Next()
		if p.lx.Peek().Kind != token.LBrace {
			p.error(diag.SynMalformedProperty, key.Span.Cover(title.Span),
				"expected '{' after '"+key.Text+" "+title.Text+"'")
			p.skipToNewline()
			return
		}
		p.lx.Next()
		p.parseChild(b, key, title.Text)

	default:
		p.error(diag.SynMalformedProperty, key.Span,
			"expected ':' or '{' after '"+key.Text+"'")
		p.skipToNewline()
	}
}

func (p *Parser) parseChild(parent *block.Block, name token.Token, title string) {
	child := &block.Block{
		Name:     name.Text,
		Title:    title,
		NameSpan: name.Span,
		Span:     name.Span,
	}
	p.parseBody(child, false)
	parent.Children = append(parent.Children, child)
	parent.Span = parent.Span.Cover(child.Span)
}

// parseValue collects tokens until the end of the line. Parentheses group
// modifier arguments (`min(0)`, `range(1,10)`); commas are only legal inside
// them.
func (p *Parser) parseValue() block.Value {
	var first, last source.Span
	strCount, tokCount := 0, 0
	var strText string
	depth := 0

	for {
		tok := p.lx.Peek()
		if tok.Kind == token.Newline || tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.RBrace && depth == 0 {
			break
		}
		p.lx.Next()

		switch tok.Kind {
		case token.LParen:
			depth++
		case token.RParen:
			if depth > 0 {
				depth--
			}
		case token.Comma:
			if depth == 0 {
				after := p.lx.Peek().Kind
				if after == token.Newline || after == token.RBrace || after == token.EOF {
					p.error(diag.SynTrailingComma, tok.Span, "trailing comma")
				} else {
					p.error(diag.SynUnexpectedToken, tok.Span,
						"comma separators are not permitted inside values")
				}
				continue
			}
		case token.String:
			strCount++
			strText = tok.Text
		case token.Invalid:
			continue
		}

		if tokCount == 0 {
			first = tok.Span
		}
		last = tok.Span
		tokCount++
	}

	if tokCount == 0 {
		return block.Value{Span: p.lx.EmptySpan()}
	}

	span := first.Cover(last)
	if tokCount == 1 && strCount == 1 {
		return block.Value{Raw: strText, Quoted: true, Span: span}
	}
	raw := strings.TrimSpace(string(p.file.Content[span.Start:span.End]))
	return block.Value{Raw: raw, Span: span}
}

func (p *Parser) skipToNewline() {
	for {
		tok := p.lx.Peek()
		if tok.Kind == token.Newline || tok.Kind == token.EOF {
			return
		}
		p.lx.Next()
	}
}

func (p *Parser) error(code diag.Code, sp source.Span, msg string) {
	if p.opts.MaxErrors > 0 && p.reported >= p.opts.MaxErrors {
		return
	}
	p.reported++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
