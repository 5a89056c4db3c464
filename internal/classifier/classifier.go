// Package classifier decomposes raw method declarations into classified
// MethodDecl values. Classification is purely syntactic: the receiver position
// is matched against a fixed set of shapes and no type information is
// consulted.
package classifier

import (
	"github.com/variantgo/dispatchgen/internal/ast"
	dgerr "github.com/variantgo/dispatchgen/internal/errors"
	"github.com/variantgo/dispatchgen/internal/parser"
)

// shape is one recognized method-declaration form. Shapes are tried in
// precedence order; the first match wins.
type shape struct {
	hasBody  bool
	receiver ast.ReceiverKind
}

var shapes = []shape{
	{hasBody: false, receiver: ast.ReceiverValue},
	{hasBody: false, receiver: ast.ReceiverRef},
	{hasBody: false, receiver: ast.ReceiverMutRef},
	{hasBody: true, receiver: ast.ReceiverValue},
	{hasBody: true, receiver: ast.ReceiverRef},
	{hasBody: true, receiver: ast.ReceiverMutRef},
}

// Classify matches one raw method declaration against the recognized shapes
// and extracts its MethodDecl. A declaration whose receiver position is
// absent or unrecognized fails with a receiver diagnostic naming the method;
// the caller is expected to abort the whole generation run.
func Classify(file string, contract *parser.ContractBlock, raw *parser.RawMethod) (ast.MethodDecl, error) {
	kind := receiverKind(raw)
	hasBody := raw.Body != nil

	matched := ast.ReceiverNone
	for _, s := range shapes {
		if s.receiver == kind && s.hasBody == hasBody {
			matched = s.receiver
			break
		}
	}
	if matched == ast.ReceiverNone {
		return ast.MethodDecl{}, dgerr.Newf(dgerr.ReceiverErrorCode,
			"method `%s` should receive self", raw.Name).
			WithLocation(dgerr.SourceLocation{File: file, Line: raw.Pos.Line, Column: raw.Pos.Column}).
			WithSuggestion("declare the first parameter as `self`, `&self` or `&mut self`")
	}

	decl := ast.MethodDecl{
		Docs:       docs(raw.Markers.Docs()),
		Attrs:      Attributes(raw.Markers.Attrs()),
		Async:      raw.Async,
		Name:       raw.Name,
		Receiver:   matched,
		HasDefault: hasBody,
		Line:       raw.Pos.Line,
	}

	for _, p := range raw.Params[1:] {
		if p.Type == nil {
			return ast.MethodDecl{}, dgerr.Newf(dgerr.StructuralErrorCode,
				"parameter `%s` of method `%s` has no type", p.Name, raw.Name).
				WithLocation(dgerr.SourceLocation{File: file, Line: p.Pos.Line, Column: p.Pos.Column})
		}
		decl.Params = append(decl.Params, ast.Param{
			Name:    p.Name,
			Type:    RenderType(p.Type, contract.Name),
			SelfRef: p.Type.Impl,
		})
	}
	if raw.Return != nil {
		decl.Return = RenderType(raw.Return, contract.Name)
	}
	return decl, nil
}

// ClassifyContract classifies every method of the contract block, preserving
// declaration order. The first failure aborts classification.
func ClassifyContract(file string, contract *parser.ContractBlock) (ast.ContractSpec, error) {
	spec := ast.ContractSpec{
		Docs:  docs(contract.Markers.Docs()),
		Attrs: Attributes(contract.Markers.Attrs()),
		Name:  contract.Name,
		Line:  contract.Pos.Line,
	}
	for _, b := range contract.Bounds {
		spec.Bounds = append(spec.Bounds, b.String())
	}
	for _, raw := range contract.Methods {
		decl, err := Classify(file, contract, raw)
		if err != nil {
			return ast.ContractSpec{}, err
		}
		spec.Methods = append(spec.Methods, decl)
	}
	return spec, nil
}

// ClassifyUnion converts the raw union block into its UnionSpec, preserving
// variant order.
func ClassifyUnion(union *parser.UnionBlock) ast.UnionSpec {
	spec := ast.UnionSpec{
		Docs:  docs(union.Markers.Docs()),
		Attrs: Attributes(union.Markers.Attrs()),
		Name:  union.Name,
		Line:  union.Pos.Line,
	}
	for _, v := range union.Variants {
		spec.Variants = append(spec.Variants, ast.VariantSpec{
			Docs:    docs(v.Markers.Docs()),
			Attrs:   Attributes(v.Markers.Attrs()),
			Name:    v.Name,
			Payload: v.Payload.Name,
			Line:    v.Pos.Line,
		})
	}
	return spec
}

// receiverKind classifies the receiver position of a raw declaration. A
// missing first parameter, a typed first parameter, or anything that is not a
// self form yields ReceiverNone.
func receiverKind(raw *parser.RawMethod) ast.ReceiverKind {
	if len(raw.Params) == 0 {
		return ast.ReceiverNone
	}
	recv := raw.Params[0]
	if recv.Name != "self" || recv.Type != nil {
		return ast.ReceiverNone
	}
	switch {
	case recv.Amp && recv.Mut:
		return ast.ReceiverMutRef
	case recv.Amp:
		return ast.ReceiverRef
	default:
		// `self` and `mut self` are both by-value forms.
		return ast.ReceiverValue
	}
}

// RenderType renders a parsed type reference as a Go type. The
// "any type implementing this same contract" quantifier becomes the contract
// interface itself; reference types become pointers.
func RenderType(t *parser.TypeRef, contractName string) string {
	if t.Impl {
		return contractName
	}
	if t.Amp {
		return "*" + t.Name
	}
	return t.Name
}

// Attributes converts raw attributes into their ast form, preserving order
func Attributes(raw []*parser.Attribute) []ast.Attribute {
	var out []ast.Attribute
	for _, a := range raw {
		switch {
		case a.Cfg != nil:
			out = append(out, ast.Attribute{Kind: ast.AttrCfg, Feature: a.Cfg.Feature})
		case a.Allow != nil:
			out = append(out, ast.Attribute{Kind: ast.AttrAllow, Lints: a.Allow.Lints})
		}
	}
	return out
}

func docs(raw []string) []string {
	var out []string
	for _, d := range raw {
		out = append(out, parser.DocText(d))
	}
	return out
}
