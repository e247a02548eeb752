package scopegraph

import (
	"reflect"
	"testing"

	"github.com/yifan-blog/hegel/internal/typesystem"
)

func TestLookupWalksOuterChain(t *testing.T) {
	mod := NewModuleScope()
	mod.Declare("x", &VariableInfo{Type: typesystem.Num})

	fn := NewScope(KindFunction, mod.Scope, "fn@1:0")
	block := NewScope(KindBlock, fn, "block@2:0")

	info, ok := block.Lookup("x")
	if !ok {
		t.Fatal("Lookup(\"x\") from nested block did not find module-scope declaration")
	}
	if info.Type != typesystem.Type(typesystem.Num) {
		t.Errorf("Lookup(\"x\").Type = %v, want %v", info.Type, typesystem.Num)
	}
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	mod := NewModuleScope()
	if _, ok := mod.Lookup("nope"); ok {
		t.Error("Lookup(\"nope\") = true, want false")
	}
}

func TestIsLocallyDeclaredDoesNotSeeOuterBindings(t *testing.T) {
	mod := NewModuleScope()
	mod.Declare("x", &VariableInfo{Type: typesystem.Num})
	block := NewScope(KindBlock, mod.Scope, "block@1:0")

	if block.IsLocallyDeclared("x") {
		t.Error("IsLocallyDeclared(\"x\") = true for an outer-scope binding, want false")
	}
	block.Declare("x", &VariableInfo{Type: typesystem.Str})
	if !block.IsLocallyDeclared("x") {
		t.Error("IsLocallyDeclared(\"x\") = false after declaring x locally, want true")
	}
}

func TestTypeScopeIsLazilyCreatedAndChainsToOuter(t *testing.T) {
	mod := NewModuleScope()
	fn := NewScope(KindFunction, mod.Scope, "fn@1:0")

	fnType := fn.TypeScope()
	if fnType == nil {
		t.Fatal("TypeScope() returned nil")
	}
	if fnType.Parent != mod.TypeScope() {
		t.Error("fn's type scope does not chain to module's type scope")
	}
	if fn.TypeScope() != fnType {
		t.Error("TypeScope() created a second type scope on a repeated call")
	}
}

func TestMarkThrowablePropagatesToNearestFunctionScope(t *testing.T) {
	mod := NewModuleScope()
	fn := NewScope(KindFunction, mod.Scope, "fn@1:0")
	block := NewScope(KindBlock, fn, "block@2:0")

	block.MarkThrowable(typesystem.Str)

	if !fn.IsThrowable() {
		t.Error("MarkThrowable() on a nested block did not mark the enclosing function scope")
	}
	if block.IsThrowable() {
		t.Error("MarkThrowable() unexpectedly marked the block itself rather than the function scope")
	}
}

func TestMarkThrowableAtModuleLevelMarksModule(t *testing.T) {
	mod := NewModuleScope()
	mod.MarkThrowable(typesystem.Str)
	if !mod.IsThrowable() {
		t.Error("MarkThrowable() at module scope did not mark the module scope")
	}
}

func TestMarkThrowableDoesNotDuplicateSameType(t *testing.T) {
	mod := NewModuleScope()
	mod.MarkThrowable(typesystem.Str)
	mod.MarkThrowable(typesystem.Str)
	if len(mod.Throwables) != 1 {
		t.Errorf("len(Throwables) = %d, want 1 after marking the same type twice", len(mod.Throwables))
	}
}

func TestRecordCallAppendsToScope(t *testing.T) {
	mod := NewModuleScope()
	plus := &VariableInfo{Type: typesystem.FunctionType{ArgumentTypes: []typesystem.Type{typesystem.Num, typesystem.Num}, ReturnType: typesystem.Num}}
	mod.RecordCall(CallMeta{Target: plus, OperatorLabel: "+"})
	if len(mod.Calls()) != 1 {
		t.Fatalf("len(Calls()) = %d, want 1", len(mod.Calls()))
	}
	if mod.Calls()[0].Target != plus {
		t.Errorf("Calls()[0].Target = %v, want %v", mod.Calls()[0].Target, plus)
	}
}

func TestLocalNamesSorted(t *testing.T) {
	mod := NewModuleScope()
	mod.Declare("b", &VariableInfo{Type: typesystem.Num})
	mod.Declare("a", &VariableInfo{Type: typesystem.Num})
	names := mod.LocalNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("LocalNames() = %v, want [a b]", names)
	}
}

func TestTypeScopeRegistryIsPerTypeScope(t *testing.T) {
	mod := NewModuleScope()
	fn := NewScope(KindFunction, mod.Scope, "fn@1:0")

	fn.TypeScope().Registry().Intern("T", typesystem.TypeVar{Name: "T"})
	if _, ok := mod.TypeScope().Registry().Lookup("T"); ok {
		t.Error("a type interned in a function's type scope leaked into the module's type scope")
	}
	if _, ok := fn.TypeScope().Registry().Lookup("T"); !ok {
		t.Error("type interned in fn's type scope was not found on a second TypeScope() call")
	}
}

func TestLookupTypeWalksOuterTypeScopeChain(t *testing.T) {
	mod := NewModuleScope()
	fn := NewScope(KindFunction, mod.Scope, "fn@1:0")

	box := typesystem.ObjectType{Name: "Box", Properties: map[string]typesystem.Type{}}
	mod.TypeScope().Registry().Intern("Box", box)

	got, ok := fn.TypeScope().LookupType("Box")
	if !ok {
		t.Fatal("a type alias declared in the module's type scope was not visible from a nested function's type scope")
	}
	if !reflect.DeepEqual(got, typesystem.Type(box)) {
		t.Errorf("LookupType(\"Box\") = %v, want %v", got, box)
	}
}

func TestMarkThrowableStopsAtTryBlockBoundary(t *testing.T) {
	mod := NewModuleScope()
	fn := NewScope(KindFunction, mod.Scope, "fn@1:0")
	tryBlock := NewScope(KindBlock, fn, "try@2:0")
	tryBlock.CatchesBoundary = true
	inner := NewScope(KindBlock, tryBlock, "inner@3:0")

	inner.MarkThrowable(typesystem.Str)

	if !tryBlock.IsThrowable() {
		t.Error("MarkThrowable() from inside a try block did not mark the try block's own scope")
	}
	if fn.IsThrowable() {
		t.Error("MarkThrowable() from inside a try block incorrectly escaped to the enclosing function scope")
	}
}

func TestAddChildRegistersInnerScope(t *testing.T) {
	mod := NewModuleScope()
	fn := NewScope(KindFunction, mod.Scope, "fn@1:0")
	mod.AddChild(fn)

	children := mod.ChildScopes()
	if len(children) != 1 || children[0] != fn {
		t.Errorf("ChildScopes() = %v, want [fn]", children)
	}
}

func TestNewModuleScopeHasUniqueBuildID(t *testing.T) {
	a := NewModuleScope()
	b := NewModuleScope()
	if a.BuildID == b.BuildID {
		t.Error("two ModuleScopes were assigned the same BuildID")
	}
}
