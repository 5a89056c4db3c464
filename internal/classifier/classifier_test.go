package classifier

import (
	"strings"
	"testing"

	"github.com/variantgo/dispatchgen/internal/ast"
	dgerr "github.com/variantgo/dispatchgen/internal/errors"
	"github.com/variantgo/dispatchgen/internal/parser"
)

func parseContract(t *testing.T, source string) *parser.ContractBlock {
	t.Helper()
	file, err := parser.Parse("t.dispatch", source+"\nunion U {\n    A(TypeA),\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return file.Contract
}

func TestClassify_ReceiverKinds(t *testing.T) {
	contract := parseContract(t, `
contract C {
    fn by_ref(&self);
    fn by_mut(&mut self);
    fn by_value(self);
    fn by_value_mut(mut self);
}`)

	spec, err := ClassifyContract("t.dispatch", contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ast.ReceiverKind{
		ast.ReceiverRef,
		ast.ReceiverMutRef,
		ast.ReceiverValue,
		ast.ReceiverValue,
	}
	for i, m := range spec.Methods {
		if m.Receiver != want[i] {
			t.Errorf("method %s: expected receiver %s, got %s", m.Name, want[i], m.Receiver)
		}
	}
}

func TestClassify_MissingReceiver(t *testing.T) {
	contract := parseContract(t, `
contract C {
    fn fine(&self);
    fn broken(x: int);
}`)

	_, err := ClassifyContract("t.dispatch", contract)
	if err == nil {
		t.Fatal("expected error for method without receiver")
	}
	if dgerr.CodeOf(err) != dgerr.ReceiverErrorCode {
		t.Errorf("expected receiver error, got %v", err)
	}
	if !strings.Contains(err.Error(), "method `broken` should receive self") {
		t.Errorf("diagnostic must name the method: %v", err)
	}
}

func TestClassify_NoParamsAtAll(t *testing.T) {
	contract := parseContract(t, `
contract C {
    fn broken();
}`)

	_, err := ClassifyContract("t.dispatch", contract)
	if err == nil {
		t.Fatal("expected error for empty receiver position")
	}
	if !strings.Contains(err.Error(), "method `broken` should receive self") {
		t.Errorf("diagnostic must name the method: %v", err)
	}
}

func TestClassify_ParamsAndReturn(t *testing.T) {
	contract := parseContract(t, `
contract C {
    fn grow(&mut self, numerator: int, denominator: int) -> bool;
}`)

	spec, err := ClassifyContract("t.dispatch", contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := spec.Methods[0]
	if len(m.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(m.Params))
	}
	if m.Params[0].Name != "numerator" || m.Params[0].Type != "int" {
		t.Errorf("unexpected first param %+v", m.Params[0])
	}
	if m.Params[1].Name != "denominator" || m.Params[1].Type != "int" {
		t.Errorf("unexpected second param %+v", m.Params[1])
	}
	if m.Return != "bool" {
		t.Errorf("expected bool return, got %q", m.Return)
	}
}

func TestClassify_SelfReferentialParam(t *testing.T) {
	contract := parseContract(t, `
contract ShapeContract {
    fn greater(&self, other: &impl ShapeContract) -> bool;
}`)

	spec, err := ClassifyContract("t.dispatch", contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := spec.Methods[0].Params[0]
	if !p.SelfRef {
		t.Error("expected parameter to be marked self-referential")
	}
	if p.Type != "ShapeContract" {
		t.Errorf("expected contract interface type, got %q", p.Type)
	}
}

func TestClassify_ReferenceParamBecomesPointer(t *testing.T) {
	contract := parseContract(t, `
contract C {
    fn write_into(&self, buf: &Buffer);
}`)

	spec, err := ClassifyContract("t.dispatch", contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Methods[0].Params[0].Type != "*Buffer" {
		t.Errorf("expected *Buffer, got %q", spec.Methods[0].Params[0].Type)
	}
}

func TestClassify_DefaultBodyFlag(t *testing.T) {
	contract := parseContract(t, `
contract C {
    fn with_default(&self) {
        print("x");
    }
    fn without(&self);
}`)

	spec, err := ClassifyContract("t.dispatch", contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !spec.Methods[0].HasDefault {
		t.Error("expected with_default to be marked defaulted")
	}
	if spec.Methods[1].HasDefault {
		t.Error("expected without to not be marked defaulted")
	}
}

func TestClassify_AsyncAndAttrs(t *testing.T) {
	contract := parseContract(t, `
contract C {
    #[cfg(feature = "net")]
    #[allow(contextcheck, unused)]
    async fn send(&self);
}`)

	spec, err := ClassifyContract("t.dispatch", contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := spec.Methods[0]
	if !m.Async {
		t.Error("expected async flag")
	}
	if len(m.Attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(m.Attrs))
	}
	if m.Attrs[0].Kind != ast.AttrCfg || m.Attrs[0].Feature != "net" {
		t.Errorf("unexpected first attribute %+v", m.Attrs[0])
	}
	if m.Attrs[1].Kind != ast.AttrAllow || len(m.Attrs[1].Lints) != 2 {
		t.Errorf("unexpected second attribute %+v", m.Attrs[1])
	}
}

func TestClassify_BlockAttributes(t *testing.T) {
	file, err := parser.Parse("t.dispatch", `
#[allow(iface)]
contract C {
    fn f(&self);
}
#[allow(containedctx)]
union U {
    A(TypeA),
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	spec, err := ClassifyContract("t.dispatch", file.Contract)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Attrs) != 1 || spec.Attrs[0].Kind != ast.AttrAllow || spec.Attrs[0].Lints[0] != "iface" {
		t.Errorf("expected contract block attribute to be carried, got %+v", spec.Attrs)
	}

	union := ClassifyUnion(file.Union)
	if len(union.Attrs) != 1 || union.Attrs[0].Kind != ast.AttrAllow || union.Attrs[0].Lints[0] != "containedctx" {
		t.Errorf("expected union block attribute to be carried, got %+v", union.Attrs)
	}
}

func TestClassifyUnion(t *testing.T) {
	file, err := parser.Parse("t.dispatch", `
contract C {
    fn f(&self);
}
union Shape {
    Rect(Rect),
    #[cfg(feature = "platform_specific")]
    Cube(Cube),
}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	union := ClassifyUnion(file.Union)
	if union.Name != "Shape" {
		t.Errorf("unexpected union name %s", union.Name)
	}
	if len(union.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(union.Variants))
	}
	if union.Variants[0].Payload != "Rect" {
		t.Errorf("unexpected payload %s", union.Variants[0].Payload)
	}
	if !union.Variants[0].Included(nil) {
		t.Error("ungated variant must always be included")
	}
	if union.Variants[1].Included(map[string]bool{}) {
		t.Error("gated variant must be excluded without its feature")
	}
	if !union.Variants[1].Included(map[string]bool{"platform_specific": true}) {
		t.Error("gated variant must be included with its feature")
	}
}
