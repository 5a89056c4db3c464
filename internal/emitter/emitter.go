// Package emitter renders a classified dispatch file as Go source. The output
// contains the contract interface, the kind-tagged union type, one forwarding
// method per contract method and one conversion constructor per variant.
//
// Both method and variant lists are filtered by the active feature set before
// anything is rendered, so an excluded variant is consistently absent from the
// union, from every switch and from the constructors.
package emitter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/variantgo/dispatchgen/internal/ast"
	dgerr "github.com/variantgo/dispatchgen/internal/errors"
)

// Options controls one emission pass
type Options struct {
	PackageName string
	Source      string          // dispatch file the output was generated from
	Module      string          // module path for the header, may be empty
	Features    map[string]bool // active feature set
}

// Emit renders the complete generated file as unformatted Go source
func Emit(file *ast.File, opts Options) (string, error) {
	if opts.PackageName == "" {
		return "", dgerr.New(dgerr.GenerateErrorCode, "output package name is empty")
	}

	methods := file.Contract.ActiveMethods(opts.Features)
	variants := file.Union.ActiveVariants(opts.Features)
	if len(variants) == 0 {
		return "", dgerr.Newf(dgerr.GenerateErrorCode,
			"union `%s` has no variants left after feature filtering", file.Union.Name)
	}

	var b strings.Builder
	writeHeader(&b, methods, opts)
	writeInterface(&b, &file.Contract, methods)

	decls, err := renderUnionDecls(&file.Contract, &file.Union, variants)
	if err != nil {
		return "", err
	}
	b.WriteString(decls)

	for _, m := range methods {
		writeForwardingMethod(&b, &file.Union, m, variants)
	}
	writeConstructors(&b, &file.Union, variants)

	return b.String(), nil
}

// writeHeader emits the generated-code marker and the import block
func writeHeader(b *strings.Builder, methods []ast.MethodDecl, opts Options) {
	b.WriteString("// Code generated by dispatchgen; DO NOT EDIT.\n")
	b.WriteString("//\n")
	fmt.Fprintf(b, "// Source: %s\n", opts.Source)
	if opts.Module != "" {
		fmt.Fprintf(b, "// Module: %s\n", opts.Module)
	}
	fmt.Fprintf(b, "\npackage %s\n\n", opts.PackageName)

	needsContext := false
	for _, m := range methods {
		if m.Async {
			needsContext = true
			break
		}
	}
	if needsContext {
		b.WriteString("import \"context\"\n\n")
	}
}

// writeInterface re-emits the contract as a Go interface. Default bodies are
// not representable on Go interfaces; defaulted methods keep their signature
// and gain a doc note instead.
func writeInterface(b *strings.Builder, contract *ast.ContractSpec, methods []ast.MethodDecl) {
	for _, d := range contract.Docs {
		fmt.Fprintf(b, "// %s\n", d)
	}
	if len(contract.Docs) == 0 {
		fmt.Fprintf(b, "// %s is the contract every union payload must implement.\n", contract.Name)
	}
	if len(contract.Bounds) > 0 {
		fmt.Fprintf(b, "// Contract bounds: %s\n", strings.Join(contract.Bounds, " + "))
	}
	if nl := nolint(contract.Attrs); nl != "" {
		fmt.Fprintf(b, "%s\n", nl)
	}
	fmt.Fprintf(b, "type %s interface {\n", contract.Name)
	for i, m := range methods {
		if i > 0 {
			b.WriteString("\n")
		}
		for _, d := range m.Docs {
			fmt.Fprintf(b, "\t// %s\n", d)
		}
		if m.HasDefault {
			b.WriteString("\t// Declared with a default body in the dispatch source; every\n")
			b.WriteString("\t// payload type still provides its own implementation.\n")
		}
		if nl := nolint(m.Attrs); nl != "" {
			fmt.Fprintf(b, "\t%s\n", nl)
		}
		fmt.Fprintf(b, "\t%s\n", signature(m))
	}
	b.WriteString("}\n\n")
}

// unionTemplate renders the kind type, the union struct, the compile-time
// contract assertions and the conversion constructors.
var unionTemplate = template.Must(template.New("union").Parse(`type {{.KindType}} uint8

const (
{{- range $i, $v := .Variants}}
	{{$.KindType}}{{$v.Name}}{{if eq $i 0}} {{$.KindType}} = iota{{end}}
{{- end}}
)

// String returns the variant name of the kind tag.
func (k {{.KindType}}) String() string {
	switch k {
{{- range .Variants}}
	case {{$.KindType}}{{.Name}}:
		return "{{.Name}}"
{{- end}}
	default:
		return "unknown"
	}
}

{{range .UnionDocs}}// {{.}}
{{end}}{{if not .UnionDocs}}// {{.UnionName}} is a closed tagged union over its variant payloads.
{{end}}{{if .UnionNolint}}{{.UnionNolint}}
{{end}}type {{.UnionName}} struct {
	kind {{.KindType}}
{{- range .Variants}}
{{- range .Docs}}
	// {{.}}
{{- end}}
{{- if .Nolint}}
	{{.Nolint}}
{{- end}}
	{{.Field}} {{.Payload}}
{{- end}}
}

// Kind returns the tag identifying the held variant.
func (u *{{.UnionName}}) Kind() {{.KindType}} {
	return u.kind
}

// Every payload type, and the union itself, must satisfy the contract.
var (
{{- range .Variants}}
	_ {{$.ContractName}} = (*{{.Payload}})(nil)
{{- end}}
	_ {{.ContractName}} = (*{{.UnionName}})(nil)
)

`))

type unionVariantData struct {
	Name    string
	Field   string
	Payload string
	Nolint  string
	Docs    []string
}

type unionData struct {
	UnionName    string
	UnionDocs    []string
	UnionNolint  string
	KindType     string
	ContractName string
	Variants     []unionVariantData
}

// renderUnionDecls re-emits the union declaration as a kind-tagged struct
func renderUnionDecls(contract *ast.ContractSpec, union *ast.UnionSpec, variants []ast.VariantSpec) (string, error) {
	data := unionData{
		UnionName:    union.Name,
		UnionDocs:    union.Docs,
		UnionNolint:  nolint(union.Attrs),
		KindType:     union.Name + "Kind",
		ContractName: contract.Name,
	}
	for _, v := range variants {
		data.Variants = append(data.Variants, unionVariantData{
			Name:    v.Name,
			Field:   fieldName(v.Name),
			Payload: v.Payload,
			Nolint:  nolint(v.Attrs),
			Docs:    v.Docs,
		})
	}

	var buf bytes.Buffer
	if err := unionTemplate.Execute(&buf, data); err != nil {
		return "", dgerr.Wrap(dgerr.GenerateErrorCode, "failed to render union declarations", err)
	}
	return buf.String(), nil
}

// writeForwardingMethod emits one contract method on the union. The body is a
// single switch over the kind tag with exactly one case per variant, in
// declaration order, each case invoking the payload's own method with the
// method's argument list.
func writeForwardingMethod(b *strings.Builder, union *ast.UnionSpec, m ast.MethodDecl, variants []ast.VariantSpec) {
	goName := GoName(m.Name)
	for _, d := range m.Docs {
		fmt.Fprintf(b, "// %s\n", d)
	}
	if len(m.Docs) == 0 {
		fmt.Fprintf(b, "// %s forwards to the held variant's %s.\n", goName, goName)
	}
	if nl := nolint(m.Attrs); nl != "" {
		fmt.Fprintf(b, "%s\n", nl)
	}
	fmt.Fprintf(b, "func (u *%s) %s {\n", union.Name, signature(m))
	b.WriteString("\tswitch u.kind {\n")
	for _, v := range variants {
		if nl := nolint(v.Attrs); nl != "" {
			fmt.Fprintf(b, "\t%s\n", nl)
		}
		fmt.Fprintf(b, "\tcase %sKind%s:\n", union.Name, v.Name)
		call := fmt.Sprintf("u.%s.%s(%s)", fieldName(v.Name), goName, argList(m))
		if m.Return != "" {
			fmt.Fprintf(b, "\t\treturn %s\n", call)
		} else {
			fmt.Fprintf(b, "\t\t%s\n", call)
		}
	}
	b.WriteString("\tdefault:\n")
	fmt.Fprintf(b, "\t\tpanic(\"%s: no variant set\")\n", union.Name)
	b.WriteString("\t}\n")
	b.WriteString("}\n\n")
}

// writeConstructors emits one conversion constructor per variant
func writeConstructors(b *strings.Builder, union *ast.UnionSpec, variants []ast.VariantSpec) {
	for _, v := range variants {
		fmt.Fprintf(b, "// %sFrom%s wraps a %s in a %s.\n", union.Name, v.Name, v.Payload, union.Name)
		if nl := nolint(v.Attrs); nl != "" {
			fmt.Fprintf(b, "%s\n", nl)
		}
		fmt.Fprintf(b, "func %sFrom%s(v %s) %s {\n", union.Name, v.Name, v.Payload, union.Name)
		fmt.Fprintf(b, "\treturn %s{kind: %sKind%s, %s: v}\n", union.Name, union.Name, v.Name, fieldName(v.Name))
		b.WriteString("}\n\n")
	}
}

// signature renders a method's Go signature without the func keyword or
// receiver. Awaitable methods take a context.Context as their first parameter.
func signature(m ast.MethodDecl) string {
	var params []string
	if m.Async {
		params = append(params, "ctx context.Context")
	}
	for _, p := range m.Params {
		params = append(params, p.Name+" "+p.Type)
	}
	sig := fmt.Sprintf("%s(%s)", GoName(m.Name), strings.Join(params, ", "))
	if m.Return != "" {
		sig += " " + m.Return
	}
	return sig
}

// argList renders the ordered forwarded-argument list, receiver excluded
func argList(m ast.MethodDecl) string {
	var args []string
	if m.Async {
		args = append(args, "ctx")
	}
	for _, p := range m.Params {
		args = append(args, p.Name)
	}
	return strings.Join(args, ", ")
}

// nolint renders the lint-suppression attributes of a declaration, if any
func nolint(attrs []ast.Attribute) string {
	lints := ast.Lints(attrs)
	if len(lints) == 0 {
		return ""
	}
	return "//nolint:" + strings.Join(lints, ",")
}

// GoName converts a dispatch-source method name to its exported Go form,
// e.g. "print_name" becomes "PrintName".
func GoName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// fieldName converts a variant name to its unexported struct-field form
func fieldName(variant string) string {
	if variant == "" {
		return variant
	}
	return strings.ToLower(variant[:1]) + variant[1:]
}
