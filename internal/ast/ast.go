// Package ast holds the syntactic model produced by parsing a dispatch file.
// Everything here is built once per generation run and discarded afterwards;
// nothing is mutated after construction.
package ast

// ReceiverKind describes how a contract method takes its receiver.
type ReceiverKind int

const (
	ReceiverNone ReceiverKind = iota
	ReceiverValue
	ReceiverRef
	ReceiverMutRef
)

// String returns the dispatch-source spelling of the receiver form.
func (k ReceiverKind) String() string {
	switch k {
	case ReceiverValue:
		return "self"
	case ReceiverRef:
		return "&self"
	case ReceiverMutRef:
		return "&mut self"
	default:
		return "none"
	}
}

// AttrKind identifies the recognized attribute forms.
type AttrKind int

const (
	// AttrCfg is a conditional-inclusion marker: the carrier only exists
	// when its feature is in the active feature set.
	AttrCfg AttrKind = iota
	// AttrAllow is a lint-suppression marker, re-emitted as a nolint comment.
	AttrAllow
)

// Attribute is one attribute attached to a method or variant, in source order.
type Attribute struct {
	Kind    AttrKind
	Feature string   // set for AttrCfg
	Lints   []string // set for AttrAllow
}

// Param is one non-receiver method parameter.
type Param struct {
	Name string
	Type string // rendered Go type
	// SelfRef marks an "any type implementing this same contract" parameter.
	// Its Type is already rendered as the contract interface name.
	SelfRef bool
}

// MethodDecl is one classified contract method.
type MethodDecl struct {
	Docs       []string
	Attrs      []Attribute
	Async      bool
	Name       string // source name, e.g. "print_name"
	Receiver   ReceiverKind
	Params     []Param
	Return     string // rendered Go type, "" when the method returns nothing
	HasDefault bool   // a default body was present; the body text is never emitted
	Line       int
}

// ContractSpec is the parsed contract block.
type ContractSpec struct {
	Docs []string
	// Attrs are block-level attributes, re-emitted on the generated interface.
	Attrs   []Attribute
	Name    string
	Bounds  []string // supertrait bounds, re-emitted as a comment
	Methods []MethodDecl
	Line    int
}

// VariantSpec is one variant of the union block.
type VariantSpec struct {
	Docs    []string
	Attrs   []Attribute
	Name    string
	Payload string // concrete nominal payload type
	Line    int
}

// UnionSpec is the parsed union block.
type UnionSpec struct {
	Docs []string
	// Attrs are block-level attributes, re-emitted on the generated struct.
	Attrs    []Attribute
	Name     string
	Variants []VariantSpec
	Line     int
}

// File is one fully classified dispatch file: exactly one contract followed by
// exactly one union.
type File struct {
	Contract ContractSpec
	Union    UnionSpec
}

// included reports whether the attribute list admits the active feature set.
// Non-cfg attributes never exclude their carrier.
func included(attrs []Attribute, features map[string]bool) bool {
	for _, a := range attrs {
		if a.Kind == AttrCfg && !features[a.Feature] {
			return false
		}
	}
	return true
}

// Included reports whether the method survives feature filtering.
func (m MethodDecl) Included(features map[string]bool) bool {
	return included(m.Attrs, features)
}

// Included reports whether the variant survives feature filtering.
func (v VariantSpec) Included(features map[string]bool) bool {
	return included(v.Attrs, features)
}

// Lints collects every lint named by allow attributes, in source order.
func Lints(attrs []Attribute) []string {
	var lints []string
	for _, a := range attrs {
		if a.Kind == AttrAllow {
			lints = append(lints, a.Lints...)
		}
	}
	return lints
}

// ActiveMethods returns the methods that survive feature filtering, in
// declaration order.
func (c ContractSpec) ActiveMethods(features map[string]bool) []MethodDecl {
	var out []MethodDecl
	for _, m := range c.Methods {
		if m.Included(features) {
			out = append(out, m)
		}
	}
	return out
}

// ActiveVariants returns the variants that survive feature filtering, in
// declaration order.
func (u UnionSpec) ActiveVariants(features map[string]bool) []VariantSpec {
	var out []VariantSpec
	for _, v := range u.Variants {
		if v.Included(features) {
			out = append(out, v)
		}
	}
	return out
}
