package form

import (
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// node is a thin typed accessor over a pdfcpu dictionary. It pairs the
// dictionary with the context needed to chase indirect references, so call
// sites read `n.name("FT")` instead of re-deriving the PDF object grammar.
//
// Mutations through n.dict land on the object stored in the cross-reference
// table; pdfcpu dictionaries are reference types.
type node struct {
	ctx  *model.Context
	dict types.Dict
}

func newNode(ctx *model.Context, d types.Dict) *node {
	return &node{ctx: ctx, dict: d}
}

func (n *node) has(key string) bool {
	_, ok := n.dict.Find(key)
	return ok
}

// str resolves key to a string or hex literal.
func (n *node) str(key string) (string, bool) {
	obj, ok := n.dict.Find(key)
	if !ok {
		return "", false
	}
	s, err := n.ctx.DereferenceStringOrHexLiteral(obj, model.V10, nil)
	if err != nil {
		return "", false
	}
	return s, true
}

// name resolves key to a name object. pdfcpu strips the leading "/" marker,
// so the returned value is the bare export name.
func (n *node) name(key string) (string, bool) {
	obj, ok := n.dict.Find(key)
	if !ok {
		return "", false
	}
	nm, err := n.ctx.DereferenceName(obj, model.V10, nil)
	if err != nil {
		return "", false
	}
	return nm.Value(), true
}

func (n *node) integer(key string) (int, bool) {
	obj, ok := n.dict.Find(key)
	if !ok {
		return 0, false
	}
	i, err := n.ctx.DereferenceInteger(obj)
	if err != nil || i == nil {
		return 0, false
	}
	return i.Value(), true
}

// child resolves key to a nested dictionary.
func (n *node) child(key string) (*node, bool) {
	obj, ok := n.dict.Find(key)
	if !ok {
		return nil, false
	}
	d, err := n.ctx.DereferenceDict(obj)
	if err != nil || d == nil {
		return nil, false
	}
	return newNode(n.ctx, d), true
}

func (n *node) array(key string) (types.Array, bool) {
	obj, ok := n.dict.Find(key)
	if !ok {
		return nil, false
	}
	a, err := n.ctx.DereferenceArray(obj)
	if err != nil || a == nil {
		return nil, false
	}
	return a, true
}

// rawValue reads the field's V entry, name objects first, string literals as
// fallback. Returns false when no value is recorded.
func (n *node) rawValue() (string, bool) {
	if s, ok := n.name("V"); ok {
		return s, true
	}
	return n.str("V")
}

// sortedKeys returns the dictionary keys in lexical order. pdfcpu dictionaries
// are plain maps, so the parse order of appearance-state keys is not
// recoverable; sorting keeps choice sets deterministic.
func (n *node) sortedKeys() []string {
	keys := make([]string, 0, len(n.dict))
	for k := range n.dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
