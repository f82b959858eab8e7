package token

// Kind classifies one token of the block grammar.
type Kind uint8

const (
	EOF Kind = iota
	// Newline is significant: properties are newline-separated and no comma
	// separator is ever permitted between them.
	Newline
	// Ident is a bare word: a block keyword, a property key, a type name or
	// a modifier name. The charset admits dots and underscores so dotted
	// references (Alias.Type) stay one token.
	Ident
	// String is a double-quoted natural-language payload, verbatim.
	String
	Colon
	Comma
	Dash
	LBrace
	RBrace
	LParen
	RParen
	// Invalid marks a byte the scanner could not classify. The parser skips
	// it; the scanner has already reported the error.
	Invalid
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Newline:
		return "Newline"
	case Ident:
		return "Ident"
	case String:
		return "String"
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case Dash:
		return "Dash"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case Invalid:
		return "Invalid"
	}
	return "Unknown"
}
