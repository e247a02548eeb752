// Package analyzer implements the module type-graph builder: built-in
// seeding, the two-pass traversal (declaration filling, then call-graph
// construction and late inference), and the driver that ties them to the
// walker and its external collaborators. The Builder wraps a scope graph
// plus a sequence of named pass methods, driven by one New/Build entry
// point.
package analyzer

import (
	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/scopegraph"
	"github.com/yifan-blog/hegel/internal/typesystem"
)

// Oracle is the external inference collaborator: the type-for-node
// inference, error-type inference for try blocks, generic function
// specialization from body evidence, invocation-type simulation, and
// type-annotation materialization. The core builder consumes this
// interface only, so a fuller inference engine can be swapped in later.
// BasicOracle below is the narrowest implementation that lets the rest of
// this package produce end-to-end results without that external component.
type Oracle interface {
	// InferenceTypeForNode infers a node's type when reduceToCall's table
	// has no dedicated rule for its form: literals, object/sequence
	// expressions, and the pure-key/pure-value markers synthesized by
	// for-in/for-of hoisting.
	InferenceTypeForNode(node ast.Node, typeScope, scope *scopegraph.Scope, moduleScope *scopegraph.ModuleScope) typesystem.Type

	// InferenceErrorType computes the type of values thrown inside a try
	// block, from the throwables recorded against the try block's own
	// scope during Pass 2.
	InferenceErrorType(tryBlockScope *scopegraph.Scope) typesystem.Type

	// InferenceFunctionTypeByScope specializes a generic function's
	// signature from body evidence once its scope has been walked.
	InferenceFunctionTypeByScope(decl *scopegraph.VariableInfo, fnScope *scopegraph.Scope, moduleScope *scopegraph.ModuleScope) typesystem.Type

	// GetInvocationType simulates invoking callable with the given
	// argument types, returning the resulting invocation type.
	GetInvocationType(callable typesystem.Type, args []typesystem.Type) typesystem.Type

	// GetTypeFromTypeAnnotation materializes a Type from an annotation
	// subtree (NamedTypeAnnotation/GenericTypeAnnotation/ObjectTypeAnnotation/
	// FunctionTypeAnnotation), resolving named references against
	// typeScope.
	GetTypeFromTypeAnnotation(node ast.Node, typeScope *scopegraph.Scope) typesystem.Type
}

// BasicOracle is a direct, dependency-free Oracle implementation: literal
// nodes map onto the matching primitive, object/sequence forms structurally
// compose by inferring each sub-node again with these same rules (not from
// Pass 2's reductions), and generic specialization scans the module's
// recorded call sites. Specialization runs when the function's own
// post-order visit finishes, so it sees only calls recorded before that
// point; a call that follows the declaration in source order (as in
// `function f(a) { return a; } f(42);`) is not yet recorded, and f keeps
// its type-variable parameters. The return type is taken from the first
// return statement's argument type as recorded, without substituting the
// call-site argument types into it. It exists so this repo produces real
// results end to end without a fuller external inference engine.
type BasicOracle struct{}

func NewBasicOracle() *BasicOracle { return &BasicOracle{} }

func (o *BasicOracle) InferenceTypeForNode(node ast.Node, typeScope, scope *scopegraph.Scope, moduleScope *scopegraph.ModuleScope) typesystem.Type {
	switch n := node.(type) {
	case nil:
		return typesystem.Undefined
	case *ast.NumericLiteral:
		return typesystem.Num
	case *ast.StringLiteral:
		return typesystem.Str
	case *ast.BooleanLiteral:
		return typesystem.Bool
	case *ast.NullLiteral:
		return typesystem.Null
	case *ast.ObjectExpression:
		props := make(map[string]typesystem.Type, len(n.Properties))
		for _, p := range n.Properties {
			if p.Key == nil {
				continue
			}
			props[p.Key.Name] = o.InferenceTypeForNode(p.Value, typeScope, scope, moduleScope)
		}
		return typesystem.ObjectType{Properties: props}
	case *ast.SequenceExpression:
		if len(n.Expressions) == 0 {
			return typesystem.Undefined
		}
		return o.InferenceTypeForNode(n.Expressions[len(n.Expressions)-1], typeScope, scope, moduleScope)
	case *ast.PureKey:
		// for-in yields string keys over any iterated value (array index or
		// object property name), so the hoisted loop variable is a string.
		return typesystem.Str
	case *ast.PureValue:
		// for-of yields elements of the iterated collection; without a
		// parameterized array/iterable type in the lattice, the element
		// type is unknown statically and reported as mixed.
		return typesystem.Mixed
	case *ast.Identifier:
		if info, ok := scope.Lookup(n.Name); ok {
			return info.Type
		}
		return typesystem.Undefined
	default:
		return typesystem.Mixed
	}
}

func (o *BasicOracle) InferenceErrorType(tryBlockScope *scopegraph.Scope) typesystem.Type {
	switch len(tryBlockScope.Throwables) {
	case 0:
		return typesystem.Undefined
	case 1:
		return tryBlockScope.Throwables[0]
	default:
		// The lattice has no explicit union variant; with more than one
		// distinct escaping type, mixed is the closest sound
		// over-approximation rather than arbitrarily picking one branch.
		return typesystem.Mixed
	}
}

func (o *BasicOracle) InferenceFunctionTypeByScope(decl *scopegraph.VariableInfo, fnScope *scopegraph.Scope, moduleScope *scopegraph.ModuleScope) typesystem.Type {
	generic, ok := decl.Type.(typesystem.GenericType)
	if !ok {
		return decl.Type
	}
	sig, ok := generic.SubordinateType.(typesystem.FunctionType)
	if !ok {
		return decl.Type
	}

	if argTypes, ok := findCallSiteArguments(moduleScope.Scope, decl); ok {
		args := make([]typesystem.Type, len(sig.ArgumentTypes))
		copy(args, sig.ArgumentTypes)
		for i := range args {
			if i < len(argTypes) {
				args[i] = argTypes[i]
			}
		}
		sig.ArgumentTypes = args
	}

	if ret, ok := findReturnedType(fnScope); ok {
		sig.ReturnType = ret
	} else if sig.ReturnType == nil {
		sig.ReturnType = typesystem.Void
	}

	generic.SubordinateType = sig
	return generic
}

// findCallSiteArguments scans s and its descendants for a recorded call
// targeting decl, returning the argument types of the first one found
// (source order within a scope; scope order otherwise).
func findCallSiteArguments(s *scopegraph.Scope, decl *scopegraph.VariableInfo) ([]typesystem.Type, bool) {
	for _, c := range s.Calls() {
		if c.Target == decl {
			return c.Arguments, true
		}
	}
	for _, child := range s.ChildScopes() {
		if args, ok := findCallSiteArguments(child, decl); ok {
			return args, true
		}
	}
	return nil, false
}

// findReturnedType looks for a "return" CallMeta directly recorded against
// fnScope and reports the type of its argument; Pass 2 records one
// reduceToCall call per return statement.
func findReturnedType(fnScope *scopegraph.Scope) (typesystem.Type, bool) {
	for _, c := range fnScope.Calls() {
		if c.OperatorLabel == "return" && len(c.Arguments) == 1 {
			return c.Arguments[0], true
		}
	}
	return nil, false
}

func (o *BasicOracle) GetInvocationType(callable typesystem.Type, args []typesystem.Type) typesystem.Type {
	switch c := callable.(type) {
	case typesystem.FunctionType:
		if c.ReturnType == nil {
			return typesystem.Void
		}
		return c.ReturnType
	case typesystem.GenericType:
		sig, ok := c.SubordinateType.(typesystem.FunctionType)
		if !ok {
			return typesystem.Mixed
		}
		subst := make(typesystem.Subst, len(sig.ArgumentTypes))
		for i, argType := range sig.ArgumentTypes {
			if tv, ok := argType.(typesystem.TypeVar); ok && i < len(args) {
				subst[tv.Name] = args[i]
			}
		}
		if sig.ReturnType == nil {
			return typesystem.Void
		}
		return sig.ReturnType.Apply(subst)
	default:
		return typesystem.Mixed
	}
}

func (o *BasicOracle) GetTypeFromTypeAnnotation(node ast.Node, typeScope *scopegraph.Scope) typesystem.Type {
	if node == nil {
		return typesystem.Undefined
	}
	switch n := node.(type) {
	case *ast.NamedTypeAnnotation:
		switch n.Name {
		case "string":
			return typesystem.Str
		case "number":
			return typesystem.Num
		case "boolean":
			return typesystem.Bool
		case "void":
			return typesystem.Void
		case "null":
			return typesystem.Null
		case "mixed":
			return typesystem.Mixed
		}
		if t, ok := typeScope.LookupType(n.Name); ok {
			return t
		}
		return typesystem.TypeVar{Name: n.Name}
	case *ast.GenericTypeAnnotation:
		base, ok := typeScope.LookupType(n.Name)
		if !ok {
			return typesystem.TypeVar{Name: n.Name}
		}
		generic, ok := base.(typesystem.GenericType)
		if !ok {
			return base
		}
		subst := make(typesystem.Subst, len(n.TypeArgs))
		for i, param := range generic.TypeParameters {
			if i < len(n.TypeArgs) {
				subst[param.Name] = o.GetTypeFromTypeAnnotation(n.TypeArgs[i], typeScope)
			}
		}
		return generic.Apply(subst)
	case *ast.ObjectTypeAnnotation:
		props := make(map[string]typesystem.Type, len(n.Properties))
		for _, p := range n.Properties {
			props[p.Key] = o.GetTypeFromTypeAnnotation(p.Value, typeScope)
		}
		return typesystem.ObjectType{Properties: props}
	case *ast.FunctionTypeAnnotation:
		args := make([]typesystem.Type, len(n.Params))
		for i, p := range n.Params {
			args[i] = o.GetTypeFromTypeAnnotation(p, typeScope)
		}
		return typesystem.FunctionType{ArgumentTypes: args, ReturnType: o.GetTypeFromTypeAnnotation(n.ReturnType, typeScope)}
	default:
		return typesystem.Mixed
	}
}
