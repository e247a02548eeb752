package typesystem

import "testing"

func TestPrimitiveTypeString(t *testing.T) {
	if got := Num.String(); got != "number" {
		t.Errorf("Num.String() = %q, want %q", got, "number")
	}
}

func TestTypeVarApplySubstitutes(t *testing.T) {
	tv := TypeVar{Name: "T"}
	s := Subst{"T": Str}
	got := tv.Apply(s)
	if got != Type(Str) {
		t.Errorf("TypeVar.Apply() = %v, want %v", got, Str)
	}
}

func TestTypeVarApplySelfReferenceBreaksCycle(t *testing.T) {
	tv := TypeVar{Name: "T"}
	s := Subst{"T": TypeVar{Name: "T"}}
	got := tv.Apply(s)
	if got != Type(tv) {
		t.Errorf("TypeVar.Apply() with self-referencing subst = %v, want unchanged %v", got, tv)
	}
}

func TestFunctionTypeString(t *testing.T) {
	ft := FunctionType{ArgumentTypes: []Type{Num, Str}, ReturnType: Bool}
	want := "(number, string) => boolean"
	if got := ft.String(); got != want {
		t.Errorf("FunctionType.String() = %q, want %q", got, want)
	}
}

func TestFunctionTypeThrowableRendersSuffix(t *testing.T) {
	ft := FunctionType{ArgumentTypes: nil, ReturnType: Undefined, Throwable: true}
	want := "() => undefined throws"
	if got := ft.String(); got != want {
		t.Errorf("FunctionType.String() = %q, want %q", got, want)
	}
}

func TestFunctionTypeApplySubstitutesArgsAndReturn(t *testing.T) {
	ft := FunctionType{ArgumentTypes: []Type{TypeVar{Name: "T"}}, ReturnType: TypeVar{Name: "T"}}
	applied := ft.Apply(Subst{"T": Bool}).(FunctionType)
	if applied.ArgumentTypes[0] != Type(Bool) || applied.ReturnType != Type(Bool) {
		t.Errorf("FunctionType.Apply() = %+v, want all T resolved to boolean", applied)
	}
}

func TestObjectTypeStringSortsPropertiesDeterministically(t *testing.T) {
	ot := ObjectType{Name: "Point", Properties: map[string]Type{"y": Num, "x": Num}}
	want := "Point { x: number, y: number }"
	if got := ot.String(); got != want {
		t.Errorf("ObjectType.String() = %q, want %q", got, want)
	}
}

func TestGenericTypeUnresolvedUntilSubordinateSet(t *testing.T) {
	gt := GenericType{Name: "identity", TypeParameters: []TypeVar{{Name: "T"}}}
	if gt.IsResolved() {
		t.Fatal("GenericType.IsResolved() = true before subordinate type is set")
	}
	gt.SubordinateType = FunctionType{ArgumentTypes: []Type{TypeVar{Name: "T"}}, ReturnType: TypeVar{Name: "T"}}
	if !gt.IsResolved() {
		t.Fatal("GenericType.IsResolved() = false after subordinate type is set")
	}
}

func TestRegistryInternReturnsSameValueForRepeatedName(t *testing.T) {
	r := NewRegistry()
	first := r.Intern("Point", ObjectType{Name: "Point", Properties: map[string]Type{"x": Num}})
	second := r.Intern("Point", ObjectType{Name: "Point", Properties: map[string]Type{"x": Num, "y": Num}})
	if first.String() != second.String() {
		t.Errorf("Registry.Intern() returned different types for the same name: %v vs %v", first, second)
	}
	got, ok := r.Lookup("Point")
	if !ok || got.String() != first.String() {
		t.Errorf("Registry.Lookup() = %v, %v, want %v, true", got, ok, first)
	}
}

func TestRegistryReplaceOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Intern("T", TypeVar{Name: "T"})
	r.Replace("T", Num)
	got, _ := r.Lookup("T")
	if got != Type(Num) {
		t.Errorf("Registry.Replace() did not overwrite: got %v", got)
	}
}
