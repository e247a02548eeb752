// Package typesystem defines the type lattice the builder attaches to
// scope-graph variables: primitive types, type variables, object types,
// function types and generic types, each interned by canonical name
// within the type scope that owns it. There is no TApp/TTuple/TUnion or
// trait-constraint variant here; the lattice stays deliberately small.
package typesystem

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface every lattice member implements.
type Type interface {
	String() string
	// Apply substitutes type variables per s; returns itself when nothing
	// to do.
	Apply(Subst) Type
}

// Subst maps a TypeVar's name to its resolved Type.
type Subst map[string]Type

// PrimitiveType names a built-in scalar: string, number, boolean, null,
// undefined, void, mixed.
type PrimitiveType struct {
	Name string
}

func (t PrimitiveType) String() string { return t.Name }

func (t PrimitiveType) Apply(Subst) Type { return t }

// TypeVar is a named type-variable placeholder, optionally constrained
// (e.g. a generic function's "T" before its body has been inferred).
type TypeVar struct {
	Name       string
	Constraint Type // optional, nil when unconstrained
}

func (t TypeVar) String() string {
	if t.Constraint != nil {
		return fmt.Sprintf("%s: %s", t.Name, t.Constraint.String())
	}
	return t.Name
}

func (t TypeVar) Apply(s Subst) Type {
	if replacement, ok := s[t.Name]; ok {
		if tv, ok := replacement.(TypeVar); ok && tv.Name == t.Name {
			return t
		}
		return replacement
	}
	return t
}

// ObjectType describes a structural record of named properties (object
// literals, class instances).
type ObjectType struct {
	Name       string
	Properties map[string]Type
}

func (t ObjectType) String() string {
	keys := make([]string, 0, len(t.Properties))
	for k := range t.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s: %s", k, t.Properties[k].String()))
	}
	if t.Name != "" {
		return fmt.Sprintf("%s { %s }", t.Name, strings.Join(fields, ", "))
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

func (t ObjectType) Apply(s Subst) Type {
	newProps := make(map[string]Type, len(t.Properties))
	for k, v := range t.Properties {
		newProps[k] = v.Apply(s)
	}
	return ObjectType{Name: t.Name, Properties: newProps}
}

// FunctionType is a call signature: argument types, a return type, and
// whether the function's body can throw.
type FunctionType struct {
	ArgumentTypes []Type
	ReturnType    Type
	Throwable     bool
}

func (t FunctionType) String() string {
	args := make([]string, 0, len(t.ArgumentTypes))
	for _, a := range t.ArgumentTypes {
		args = append(args, a.String())
	}
	ret := "void"
	if t.ReturnType != nil {
		ret = t.ReturnType.String()
	}
	sig := fmt.Sprintf("(%s) => %s", strings.Join(args, ", "), ret)
	if t.Throwable {
		sig += " throws"
	}
	return sig
}

func (t FunctionType) Apply(s Subst) Type {
	newArgs := make([]Type, len(t.ArgumentTypes))
	for i, a := range t.ArgumentTypes {
		newArgs[i] = a.Apply(s)
	}
	var newRet Type
	if t.ReturnType != nil {
		newRet = t.ReturnType.Apply(s)
	}
	return FunctionType{ArgumentTypes: newArgs, ReturnType: newRet, Throwable: t.Throwable}
}

// GenericType wraps a subordinate type (usually a FunctionType) with its
// own type-parameter scope: a generic function's signature stays a
// placeholder until its body has been walked in Pass 2.
type GenericType struct {
	Name            string
	TypeParameters  []TypeVar
	LocalTypeScope  map[string]Type
	SubordinateType Type
}

func (t GenericType) String() string {
	params := make([]string, 0, len(t.TypeParameters))
	for _, p := range t.TypeParameters {
		params = append(params, p.String())
	}
	sub := "<pending>"
	if t.SubordinateType != nil {
		sub = t.SubordinateType.String()
	}
	return fmt.Sprintf("%s<%s>%s", t.Name, strings.Join(params, ", "), sub)
}

func (t GenericType) Apply(s Subst) Type {
	if t.SubordinateType == nil {
		return t
	}
	return GenericType{
		Name:            t.Name,
		TypeParameters:  t.TypeParameters,
		LocalTypeScope:  t.LocalTypeScope,
		SubordinateType: t.SubordinateType.Apply(s),
	}
}

// IsResolved reports whether a generic type's subordinate signature has
// been filled in by late inference yet, since generic function bodies are
// walked after their declared signature is seeded.
func (t GenericType) IsResolved() bool {
	return t.SubordinateType != nil
}
