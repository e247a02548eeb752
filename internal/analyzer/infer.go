package analyzer

import (
	"strconv"

	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/config"
	"github.com/yifan-blog/hegel/internal/diagnostics"
	"github.com/yifan-blog/hegel/internal/position"
	"github.com/yifan-blog/hegel/internal/scopegraph"
	"github.com/yifan-blog/hegel/internal/typesystem"
)

// inferPost is Pass 2's walker.Post callback: a post-order dispatch over
// every node that reduces it to either a resolved type or a recorded
// call, via the central reduceToCall routine.
func (b *Builder) inferPost(n, parent ast.Node) {
	scope := b.scopeAt(parent)
	b.reduceToCall(n, scope)
}

// reduceToCall is the central routine of Pass 2: it maps every expression
// or statement form to a resolved type, recording a CallMeta along the
// way for every construct that stands for an operator or pseudo-operator
// application. Results are memoized per node so that a sub-expression
// already reduced as another node's argument (e.g. an "if" test) is not
// re-reduced — and no call re-recorded — when the walker's own post-order
// visit reaches that node directly afterward.
func (b *Builder) reduceToCall(n ast.Node, scope *scopegraph.Scope) typesystem.Type {
	if n == nil {
		return typesystem.Undefined
	}
	if t, ok := b.reduced[n]; ok {
		return t
	}

	t := b.reduceUncached(n, scope)
	b.reduced[n] = t
	return t
}

func (b *Builder) reduceUncached(n ast.Node, scope *scopegraph.Scope) typesystem.Type {
	switch node := n.(type) {

	case *ast.IfStatement:
		test := b.reduceToCall(node.Test, scope)
		b.recordOperatorCall(scope, config.OpIf, node.Loc(), test)
		return typesystem.Void

	case *ast.WhileStatement:
		test := b.reduceToCall(node.Test, scope)
		b.recordOperatorCall(scope, config.OpWhile, node.Loc(), test)
		return typesystem.Void

	case *ast.DoWhileStatement:
		test := b.reduceToCall(node.Test, scope)
		b.recordOperatorCall(scope, config.OpDoWhile, node.Loc(), test)
		return typesystem.Void

	case *ast.ForStatement:
		// The test is reduced against the loop body's own scope, since
		// the for-init-hoist rewrite injected the loop variable's
		// declarator as the body's first statement.
		bodyScope := b.scopeAt(node.Body)
		var test typesystem.Type = typesystem.Undefined
		if node.Test != nil {
			test = b.reduceToCall(node.Test, bodyScope)
		}
		b.recordOperatorCall(scope, config.OpFor, node.Loc(), typesystem.Mixed, test, typesystem.Mixed)
		return typesystem.Void

	case *ast.ForInStatement, *ast.ForOfStatement:
		// No dedicated call to record; the hoisted loop declarator is
		// already reduced via the VariableDeclarator case and the
		// right-hand side as its own child, so the statement itself just
		// takes the oracle's type for the loop node.
		return b.Oracle.InferenceTypeForNode(n, scope.TypeScope(), scope, b.Module)

	case *ast.ReturnStatement:
		arg := b.reduceToCall(node.Argument, scope)
		b.recordOperatorCall(scope, config.OpReturn, node.Loc(), arg)
		return typesystem.Undefined

	case *ast.ThrowStatement:
		arg := b.reduceToCall(node.Argument, scope)
		b.recordOperatorCall(scope, config.OpThrow, node.Loc(), arg)
		scope.MarkThrowable(arg)
		return typesystem.Void

	case *ast.UnaryExpression:
		arg := b.reduceToCall(node.Argument, scope)
		label := node.Operator
		if node.Operator == "-" || node.Operator == "+" {
			label += "u"
		}
		return b.recordOperatorCall(scope, label, node.Loc(), arg)

	case *ast.UpdateExpression:
		arg := b.reduceToCall(node.Argument, scope)
		return b.recordOperatorCall(scope, node.Operator, node.Loc(), arg)

	case *ast.BinaryExpression:
		left := b.reduceToCall(node.Left, scope)
		right := b.reduceToCall(node.Right, scope)
		return b.recordOperatorCall(scope, node.Operator, node.Loc(), left, right)

	case *ast.LogicalExpression:
		left := b.reduceToCall(node.Left, scope)
		right := b.reduceToCall(node.Right, scope)
		return b.recordOperatorCall(scope, node.Operator, node.Loc(), left, right)

	case *ast.AssignmentExpression:
		left := b.reduceToCall(node.Left, scope)
		right := b.reduceToCall(node.Right, scope)
		return b.recordOperatorCall(scope, node.Operator, node.Loc(), left, right)

	case *ast.MemberExpression:
		objType := b.reduceToCall(node.Object, scope)
		var propType typesystem.Type
		if node.Computed {
			propType = b.reduceToCall(node.Property, scope)
			return b.recordOperatorCall(scope, config.OpComputed, node.Loc(), objType, propType)
		}
		propType = b.reduceToCall(node.Property, scope)
		return b.recordOperatorCall(scope, config.OpMember, node.Loc(), objType, propType)

	case *ast.ConditionalExpression:
		test := b.reduceToCall(node.Test, scope)
		cons := b.reduceToCall(node.Consequent, scope)
		alt := b.reduceToCall(node.Alternate, scope)
		return b.recordOperatorCall(scope, config.OpCond, node.Loc(), test, cons, alt)

	case *ast.CallExpression:
		return b.reduceCall(node, scope)

	case *ast.NewExpression:
		return b.reduceNew(node, scope)

	case *ast.VariableDeclarator:
		return b.reduceVariableDeclarator(node, scope)

	case *ast.ExpressionStatement:
		return b.reduceToCall(node.Expression, scope)

	case *ast.Identifier:
		return b.reduceIdentifier(node, scope)

	case *ast.FunctionExpression:
		return b.finishFunctionLike(node, scope)
	case *ast.FunctionDeclaration:
		return b.finishFunctionLike(node, scope)
	case *ast.ArrowFunctionExpression:
		return b.finishFunctionLike(node, scope)
	case *ast.MethodDefinition:
		return b.finishFunctionLike(node, scope)

	case *ast.ClassDeclaration:
		return b.classType(ast.Node(node))
	case *ast.ClassExpression:
		return b.classType(ast.Node(node))

	case *ast.TryStatement:
		b.finishTry(node, scope)
		return typesystem.Void

	case *ast.Program, *ast.BlockStatement, *ast.VariableDeclaration,
		*ast.EmptyStatement, *ast.BreakStatement, *ast.ContinueStatement,
		*ast.CatchClause:
		return typesystem.Void

	default:
		return b.Oracle.InferenceTypeForNode(n, scope.TypeScope(), scope, b.Module)
	}
}

// recordOperatorCall resolves label against the module/ancestor chain,
// records a CallMeta in the nearest enclosing function or module scope,
// and returns the invocation type. A label that fails to resolve is an
// ErrUnknownOperator diagnostic — a seeding bug, not a user error, but
// still reported rather than panicking so a partially broken seed table
// doesn't abort the whole build.
func (b *Builder) recordOperatorCall(scope *scopegraph.Scope, label string, loc position.Loc, args ...typesystem.Type) typesystem.Type {
	target, ok := scope.Lookup(label)
	if !ok {
		b.Diagnostics = append(b.Diagnostics, diagnostics.New(diagnostics.PhaseInfer, diagnostics.ErrUnknownOperator, loc, label))
		return typesystem.Mixed
	}
	result := b.Oracle.GetInvocationType(target.Type, args)
	nearestCallScope(scope).RecordCall(scopegraph.CallMeta{
		Target:        target,
		Arguments:     args,
		Location:      loc,
		OperatorLabel: label,
	})
	return result
}

func (b *Builder) reduceCall(node *ast.CallExpression, scope *scopegraph.Scope) typesystem.Type {
	args := make([]typesystem.Type, len(node.Arguments))
	for i, a := range node.Arguments {
		args[i] = b.reduceToCall(a, scope)
	}

	target, ok := b.calleeTarget(node.Callee, scope)
	if !ok || !isCallableType(target.Type) {
		b.Diagnostics = append(b.Diagnostics, diagnostics.New(diagnostics.PhaseInfer, diagnostics.ErrNotCallable, node.Loc(), calleeName(node.Callee)))
		return typesystem.Mixed
	}

	result := b.Oracle.GetInvocationType(target.Type, args)
	nearestCallScope(scope).RecordCall(scopegraph.CallMeta{
		Target:        target,
		Arguments:     args,
		Location:      node.Loc(),
		OperatorLabel: calleeName(node.Callee),
	})
	if len(target.Throwable) > 0 {
		for _, thrown := range target.Throwable {
			scope.MarkThrowable(thrown)
		}
	}
	return result
}

func (b *Builder) reduceNew(node *ast.NewExpression, scope *scopegraph.Scope) typesystem.Type {
	args := make([]typesystem.Type, len(node.Arguments))
	for i, a := range node.Arguments {
		args[i] = b.reduceToCall(a, scope)
	}

	var produced typesystem.Type = typesystem.ObjectType{Properties: map[string]typesystem.Type{}}
	if target, ok := b.calleeTarget(node.Callee, scope); ok && isCallableType(target.Type) {
		invoked := b.Oracle.GetInvocationType(target.Type, args)
		if obj, ok := invoked.(typesystem.ObjectType); ok {
			produced = obj
		}
	}

	return b.recordOperatorCall(scope, config.OpNew, node.Loc(), produced)
}

// calleeTarget resolves a call/new callee expression to the VariableInfo a
// CallMeta must reference — every recorded CallMeta references a target
// whose type resolves to a function type. Identifier callees resolve
// through the scope chain directly; any other callee shape (e.g. a member
// expression, `obj.method()`) still needs a VariableInfo to satisfy that
// invariant, so its resolved type is wrapped in a throwaway one not
// registered in any scope.
func (b *Builder) calleeTarget(callee ast.Node, scope *scopegraph.Scope) (*scopegraph.VariableInfo, bool) {
	if id, ok := callee.(*ast.Identifier); ok {
		info, found := scope.Lookup(id.Name)
		if !found {
			b.Diagnostics = append(b.Diagnostics, diagnostics.New(diagnostics.PhaseInfer, diagnostics.ErrUnresolvedRef, id.Loc(), id.Name))
			return nil, false
		}
		return info, true
	}
	t := b.reduceToCall(callee, scope)
	return &scopegraph.VariableInfo{Type: t}, true
}

func calleeName(callee ast.Node) string {
	if id, ok := callee.(*ast.Identifier); ok {
		return id.Name
	}
	return "<expression>"
}

func isCallableType(t typesystem.Type) bool {
	switch v := t.(type) {
	case typesystem.FunctionType:
		return true
	case typesystem.GenericType:
		_, ok := v.SubordinateType.(typesystem.FunctionType)
		return ok
	default:
		return false
	}
}

// nearestCallScope walks outward for the nearest function or module scope
// a CallMeta should be recorded against: only function-kind scopes (and
// the module scope) accumulate calls.
func nearestCallScope(s *scopegraph.Scope) *scopegraph.Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.ScopeKind == scopegraph.KindFunction || cur.Parent == nil {
			return cur
		}
	}
	return s
}

// reduceVariableDeclarator handles a variable declarator with an
// initializer: records "="(declared, init) when an initializer is
// present, then replaces an undefined-sentinel declared type with the
// init's resolved type. This is idempotent, since a second Pass 2 run
// over the same AST recomputes the identical type and reassigns it, a
// no-op by value.
func (b *Builder) reduceVariableDeclarator(node *ast.VariableDeclarator, scope *scopegraph.Scope) typesystem.Type {
	if node.ID == nil {
		return typesystem.Undefined
	}
	info, ok := scope.Lookup(node.ID.Name)
	if !ok {
		return typesystem.Undefined
	}
	if node.Init == nil {
		return info.Type
	}

	initType := b.reduceToCall(node.Init, scope)
	b.recordOperatorCall(scope, config.OpAssign, node.Loc(), info.Type, initType)

	if isUndefinedSentinel(info.Type) {
		info.Type = initType
	}
	return info.Type
}

func isUndefinedSentinel(t typesystem.Type) bool {
	p, ok := t.(typesystem.PrimitiveType)
	return ok && p.Name == config.UndefinedTypeName
}

// reduceIdentifier resolves a bare identifier directly to its
// VariableInfo. A static member-access property identifier (marked during
// Pass 1) is a literal property name, not a variable reference, and
// resolves to a string-literal type instead of going through the scope
// chain, avoiding a spurious ErrUnresolvedRef for every `obj.prop` access.
func (b *Builder) reduceIdentifier(node *ast.Identifier, scope *scopegraph.Scope) typesystem.Type {
	if b.staticMemberProperty[ast.Node(node)] {
		return typesystem.PrimitiveType{Name: strconv.Quote(node.Name)}
	}
	info, ok := scope.Lookup(node.Name)
	if !ok {
		b.Diagnostics = append(b.Diagnostics, diagnostics.New(diagnostics.PhaseInfer, diagnostics.ErrUnresolvedRef, node.Loc(), node.Name))
		return typesystem.Undefined
	}
	return info.Type
}

// classType resolves a class declaration/expression directly to the
// ObjectType its declaration VariableInfo was registered with in Pass 1.
func (b *Builder) classType(node ast.Node) typesystem.Type {
	classScope, ok := b.scopeOf[node]
	if !ok || classScope.Declaration == nil {
		return typesystem.Mixed
	}
	return classScope.Declaration.Type
}

// finishFunctionLike is the function-like declaration's late operation:
// if the signature is generic, specialize it from body evidence; run the
// external call checker against this function's own scope; then aggregate
// any accumulated throwables into the declaration's Throwable field (the
// union of types that escape the function body without being caught).
func (b *Builder) finishFunctionLike(node ast.Node, scope *scopegraph.Scope) typesystem.Type {
	fnScope, ok := b.scopeOf[node]
	if !ok || fnScope.Declaration == nil {
		return typesystem.Mixed
	}
	info := fnScope.Declaration

	if _, generic := info.Type.(typesystem.GenericType); generic {
		info.Type = b.Oracle.InferenceFunctionTypeByScope(info, fnScope, b.Module)
	}

	checkCalls(fnScope, fnScope.TypeScope(), &b.Diagnostics)

	if fnScope.IsThrowable() {
		info.Throwable = fnScope.Throwables
	}

	return info.Type
}

// finishTry is the try block's late operation: resolve the catch
// parameter's type from the try block's accumulated throwables via the
// external error-type collaborator.
func (b *Builder) finishTry(node *ast.TryStatement, scope *scopegraph.Scope) {
	if node.Handler == nil || node.Handler.Param == nil {
		return
	}
	tryScope, ok := b.scopeOf[ast.Node(node.Block)]
	if !ok {
		return
	}
	handlerScope, ok := b.scopeOf[ast.Node(node.Handler.Body)]
	if !ok {
		return
	}
	errType := b.Oracle.InferenceErrorType(tryScope)
	if info, ok := handlerScope.Lookup(node.Handler.Param.Name); ok {
		info.Type = errType
	}
}
