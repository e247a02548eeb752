package analyzer

import (
	"strconv"

	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/diagnostics"
	"github.com/yifan-blog/hegel/internal/scopegraph"
	"github.com/yifan-blog/hegel/internal/typesystem"
)

// declarePre is Pass 1's walker.Pre callback: it materializes scopes,
// registers variable/function/class declarations and type aliases, and
// binds function parameters, all before Pass 2 ever resolves a call.
// Every branch here only ever registers into b.scopeOf/the scope graph; it
// never consults a call's target type, so every declaration exists before
// any call that might reference it.
func (b *Builder) declarePre(n, parent ast.Node) bool {
	scope := b.scopeAt(parent)

	switch node := n.(type) {
	case *ast.TypeAlias:
		b.declareTypeAlias(node, scope)

	case *ast.VariableDeclarator:
		b.declareVariableDeclarator(node, scope)

	case *ast.FunctionDeclaration:
		fnScope := b.declareFunctionLike(node, node.ID, node.Params, node.ReturnType, scope, false, node.ExportAs)
		b.scopeOf[ast.Node(node)] = fnScope
		b.scopeOf[ast.Node(node.Body)] = fnScope

	case *ast.FunctionExpression:
		fnScope := b.declareFunctionLike(node, node.ID, node.Params, node.ReturnType, scope, false, "")
		b.scopeOf[ast.Node(node)] = fnScope
		b.scopeOf[ast.Node(node.Body)] = fnScope

	case *ast.ArrowFunctionExpression:
		fnScope := b.declareFunctionLike(node, nil, node.Params, node.ReturnType, scope, false, "")
		b.scopeOf[ast.Node(node)] = fnScope
		b.scopeOf[node.Body] = fnScope

	case *ast.MethodDefinition:
		fnScope := b.declareFunctionLike(node, node.Key, node.Params, nil, scope, true, "")
		b.scopeOf[ast.Node(node)] = fnScope
		b.scopeOf[ast.Node(node.Body)] = fnScope

	case *ast.ClassDeclaration:
		b.declareClassLike(node, node.ID, scope, node.ExportAs)

	case *ast.ClassExpression:
		b.declareClassLike(node, node.ID, scope, "")

	case *ast.TryStatement:
		b.declareTry(node, scope)

	case *ast.MemberExpression:
		// Static member access's Property is a raw identifier standing for
		// a property name, not a variable reference; mark it now, in Pass
		// 1's top-down order, so Pass 2's generic Identifier reduction can
		// tell the two apart without a lookup attempt that would otherwise
		// misfire ErrUnresolvedRef.
		if !node.Computed {
			if id, ok := node.Property.(*ast.Identifier); ok {
				b.staticMemberProperty[ast.Node(id)] = true
			}
		}

	case *ast.BlockStatement:
		// A function/method body's block already has its scope claimed by
		// the function-like branch above; a try block or catch handler
		// body is likewise already claimed by declareTry. Only open a
		// fresh BLOCK scope when this block is not already registered.
		if _, already := b.scopeOf[ast.Node(node)]; !already {
			blockScope := scopegraph.NewScope(scopegraph.KindBlock, scope, scopeKey(node))
			scope.AddChild(blockScope)
			b.scopeOf[ast.Node(node)] = blockScope
		}
	}

	return true
}

func (b *Builder) declareTypeAlias(node *ast.TypeAlias, scope *scopegraph.Scope) {
	typeScope := scope.TypeScope()
	if node.ID == nil {
		return
	}
	name := node.ID.Name

	if len(node.TypeParams) == 0 {
		body := b.Oracle.GetTypeFromTypeAnnotation(node.Right, typeScope)
		typeScope.Registry().Intern(name, body)
		return
	}

	local := scopegraph.NewScope(scopegraph.KindBlock, typeScope, scopeKey(node)+"#typeparams")
	typeScope.AddChild(local)
	params := make([]typesystem.TypeVar, 0, len(node.TypeParams))
	for _, p := range node.TypeParams {
		tv := typesystem.TypeVar{Name: p.Name}
		local.Registry().Intern(p.Name, tv)
		params = append(params, tv)
	}
	body := b.Oracle.GetTypeFromTypeAnnotation(node.Right, local)
	generic := typesystem.GenericType{
		Name:           name,
		TypeParameters: params,
		SubordinateType: body,
	}
	typeScope.Registry().Intern(name, generic)
}

func (b *Builder) declareVariableDeclarator(node *ast.VariableDeclarator, scope *scopegraph.Scope) {
	if node.ID == nil {
		return
	}
	name := node.ID.Name
	if scope.IsLocallyDeclared(name) {
		b.report(diagnostics.PhaseDeclare, diagnostics.ErrRedeclaration, node.ID, name)
		return
	}

	var declType typesystem.Type = typesystem.Undefined
	if node.TypeAnnotation != nil {
		declType = b.Oracle.GetTypeFromTypeAnnotation(node.TypeAnnotation, scope.TypeScope())
	}

	info := &scopegraph.VariableInfo{
		Type: declType,
		Meta: scopegraph.Meta{DeclaredAt: node.Loc(), Exported: node.ExportAs != "", ExportAs: node.ExportAs},
	}
	scope.Declare(name, info)
}

// declareFunctionLike registers the VariableInfo for a function, arrow, or
// object-method declaration in the parent scope (generating an anonymous
// key for unnamed forms — methods are the exception, since a method name
// is never a lexically-visible binding in the enclosing scope), computes
// its signature via the oracle, opens a FUNCTION scope whose Declaration
// field points back at that VariableInfo, and binds each parameter.
func (b *Builder) declareFunctionLike(node ast.Node, id *ast.Identifier, params []*ast.Parameter, returnType ast.Node, scope *scopegraph.Scope, isMethod bool, exportAs string) *scopegraph.Scope {
	name := ""
	if id != nil {
		name = id.Name
	}
	if name == "" {
		b.anonCounter++
		name = anonymousKey(b.anonCounter)
	}

	if !isMethod && id != nil && scope.IsLocallyDeclared(name) {
		b.report(diagnostics.PhaseDeclare, diagnostics.ErrRedeclaration, id, name)
	}

	sig, typeParams, isGeneric := b.signatureFor(params, returnType, scope)

	var declType typesystem.Type = sig
	if isGeneric {
		declType = typesystem.GenericType{
			Name:           name,
			TypeParameters: typeParams,
			SubordinateType: sig,
		}
	}

	info := &scopegraph.VariableInfo{
		Type: declType,
		Meta: scopegraph.Meta{DeclaredAt: node.Loc(), Exported: exportAs != "", ExportAs: exportAs},
	}
	if !isMethod {
		scope.Declare(name, info)
	}

	fnScope := scopegraph.NewScope(scopegraph.KindFunction, scope, scopeKey(node))
	fnScope.Declaration = info
	fnScope.Throwables = []typesystem.Type{}
	scope.AddChild(fnScope)

	for i, p := range params {
		if p.ID == nil {
			continue
		}
		var argType typesystem.Type = typesystem.Mixed
		if i < len(sig.ArgumentTypes) {
			argType = sig.ArgumentTypes[i]
		}
		paramInfo := &scopegraph.VariableInfo{
			Type: argType,
			Meta: scopegraph.Meta{DeclaredAt: p.ID.Loc()},
		}
		fnScope.Declare(p.ID.Name, paramInfo)
	}

	return fnScope
}

// signatureFor computes a function's signature type from its parameter
// and return type annotations via the inference oracle. An unannotated
// parameter becomes a fresh TypeVar and marks the signature generic: the
// signature of a generic function stays a placeholder until its body has
// been walked, and Pass 2's late operation re-derives it from
// call-site/return evidence once the body scope exists.
func (b *Builder) signatureFor(params []*ast.Parameter, returnType ast.Node, scope *scopegraph.Scope) (sig typesystem.FunctionType, typeParams []typesystem.TypeVar, isGeneric bool) {
	typeScope := scope.TypeScope()
	args := make([]typesystem.Type, len(params))
	for i, p := range params {
		if p.TypeAnnotation != nil {
			args[i] = b.Oracle.GetTypeFromTypeAnnotation(p.TypeAnnotation, typeScope)
			continue
		}
		b.anonCounter++
		tv := typesystem.TypeVar{Name: anonymousTypeVarName(b.anonCounter)}
		args[i] = tv
		typeParams = append(typeParams, tv)
		isGeneric = true
	}
	var ret typesystem.Type
	if returnType != nil {
		ret = b.Oracle.GetTypeFromTypeAnnotation(returnType, typeScope)
	} else {
		isGeneric = true
	}
	sig = typesystem.FunctionType{ArgumentTypes: args, ReturnType: ret}
	return sig, typeParams, isGeneric
}

func anonymousKey(n int) string {
	return "<anonymous#" + strconv.Itoa(n) + ">"
}

func anonymousTypeVarName(n int) string {
	return "T" + strconv.Itoa(n)
}

// declareClassLike registers a class declaration or expression as an
// ObjectType-typed VariableInfo and opens a CLASS scope whose Declaration
// points back at it. A class does not get a function scope, a signature,
// a throwable set or Pass 2's function-like late operation; Pass 2
// resolves it straight to that ObjectType (classType). Its method members
// each open their own function scope when the walker visits them directly (see internal/
// walker's effectiveParent rule: a scope-creator child of a scope-creator
// parent keeps the grandparent as its effective parent, so methods close
// over the class's enclosing lexical scope, not a class-body scope —
// matching how method bodies cannot see sibling methods as plain
// identifiers without `this`).
func (b *Builder) declareClassLike(node ast.Node, id *ast.Identifier, scope *scopegraph.Scope, exportAs string) {
	name := ""
	if id != nil {
		name = id.Name
	}
	if name == "" {
		b.anonCounter++
		name = anonymousKey(b.anonCounter)
	}
	if id != nil && scope.IsLocallyDeclared(name) {
		b.report(diagnostics.PhaseDeclare, diagnostics.ErrRedeclaration, id, name)
		return
	}

	classScope := scopegraph.NewScope(scopegraph.KindClass, scope, scopeKey(node))
	scope.AddChild(classScope)
	b.scopeOf[node] = classScope

	objType := typesystem.ObjectType{Name: name, Properties: map[string]typesystem.Type{}}
	info := &scopegraph.VariableInfo{
		Type: objType,
		Meta: scopegraph.Meta{DeclaredAt: node.Loc(), Exported: exportAs != "", ExportAs: exportAs},
	}
	classScope.Declaration = info
	if id != nil {
		scope.Declare(name, info)
	}
}

// declareTry implements the try-statement rule: a BLOCK scope for the try
// body with an empty throwable set ready to accumulate, and, when a
// handler is present, a BLOCK scope for its body with the catch parameter
// registered at an undefined type deferred to Pass 2's try-block late
// operation. Pass 2 recovers both scopes directly from the TryStatement
// node's own Block/Handler.Body fields via b.scopeOf, so no side-table is
// needed here.
func (b *Builder) declareTry(node *ast.TryStatement, scope *scopegraph.Scope) {
	tryScope := scopegraph.NewScope(scopegraph.KindBlock, scope, scopeKey(node.Block))
	tryScope.CatchesBoundary = true
	tryScope.Throwables = []typesystem.Type{}
	scope.AddChild(tryScope)
	b.scopeOf[ast.Node(node.Block)] = tryScope

	if node.Handler != nil {
		handlerScope := scopegraph.NewScope(scopegraph.KindBlock, scope, scopeKey(node.Handler.Body))
		scope.AddChild(handlerScope)
		b.scopeOf[ast.Node(node.Handler.Body)] = handlerScope

		if node.Handler.Param != nil {
			if handlerScope.IsLocallyDeclared(node.Handler.Param.Name) {
				b.report(diagnostics.PhaseDeclare, diagnostics.ErrRedeclaration, node.Handler.Param, node.Handler.Param.Name)
			} else {
				handlerScope.Declare(node.Handler.Param.Name, &scopegraph.VariableInfo{
					Type: typesystem.Undefined,
					Meta: scopegraph.Meta{DeclaredAt: node.Handler.Param.Loc()},
				})
			}
		}
	}
}
