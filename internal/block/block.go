// Package block defines the generic parsed tree produced by the block
// parser: named blocks, scalar properties and list items, all carrying
// source spans for diagnostic attribution. The tree is untyped; facet
// semantics are layered on top by internal/facet.
package block

import (
	"aim/internal/source"
)

// Block is a named construct: `NAME [Title] { ... }`. The root of a parsed
// file is a Block with an empty Name holding the top-level constructs.
type Block struct {
	Name  string // keyword, e.g. INTENT, SCHEMA, DEPENDENCIES
	Title string // optional second word, e.g. SnakeGame; "" when absent

	// NameSpan anchors diagnostics at the declaration, Span covers the
	// whole construct including the closing brace.
	NameSpan source.Span
	Span     source.Span

	Props    []Property
	Items    []ListItem
	Children []*Block
}

// Property is a scalar `key: value` entry.
type Property struct {
	Key     string
	KeySpan source.Span
	Value   Value
}

// ListItem is a `- value` line inside a block body.
type ListItem struct {
	Value Value
}

// Value is the right-hand side of a property or a list item.
type Value struct {
	// Raw is the verbatim text of the value. For a single quoted string it
	// is the payload without the quotes; otherwise it is the trimmed source
	// text of the value tokens.
	Raw    string
	Quoted bool
	Span   source.Span
}

// NewRoot creates the synthetic root block for one file.
func NewRoot(sp source.Span) *Block {
	return &Block{Span: sp}
}

// IsRoot reports whether the block is a file root.
func (b *Block) IsRoot() bool {
	return b.Name == ""
}

// Find returns the first child block with the given name.
func (b *Block) Find(name string) (*Block, bool) {
	for _, c := range b.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FindAll returns every child block with the given name, in source order.
func (b *Block) FindAll(name string) []*Block {
	var out []*Block
	for _, c := range b.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Prop returns the first property with the given key.
func (b *Block) Prop(key string) (Property, bool) {
	for _, p := range b.Props {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// PropValue returns the raw value of the first property with the given key.
func (b *Block) PropValue(key string) (string, bool) {
	p, ok := b.Prop(key)
	if !ok {
		return "", false
	}
	return p.Value.Raw, true
}
