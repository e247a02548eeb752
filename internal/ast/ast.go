// Package ast defines the canonical node taxonomy the builder walks. The
// AST producer itself is an external collaborator; this package only
// specifies the node shapes it must emit: every node carries a Kind tag, a
// source Loc, and node-specific children in a tag+children shape, giving
// the walker a uniform, reflection-free way to enumerate a node's children
// in a prioritized field order rather than through double-dispatch.
package ast

import "github.com/yifan-blog/hegel/internal/position"

// Kind is the canonical tag set for syntactic forms.
type Kind string

const (
	KindProgram                   Kind = "Program"
	KindBlockStatement            Kind = "BlockStatement"
	KindExpressionStatement       Kind = "ExpressionStatement"
	KindEmptyStatement            Kind = "EmptyStatement"
	KindVariableDeclaration       Kind = "VariableDeclaration"
	KindVariableDeclarator        Kind = "VariableDeclarator"
	KindFunctionDeclaration       Kind = "FunctionDeclaration"
	KindFunctionExpression        Kind = "FunctionExpression"
	KindArrowFunctionExpression   Kind = "ArrowFunctionExpression"
	KindClassDeclaration          Kind = "ClassDeclaration"
	KindClassExpression           Kind = "ClassExpression"
	KindMethodDefinition          Kind = "MethodDefinition"
	KindIfStatement               Kind = "IfStatement"
	KindWhileStatement            Kind = "WhileStatement"
	KindDoWhileStatement          Kind = "DoWhileStatement"
	KindForStatement              Kind = "ForStatement"
	KindForInStatement            Kind = "ForInStatement"
	KindForOfStatement            Kind = "ForOfStatement"
	KindReturnStatement           Kind = "ReturnStatement"
	KindThrowStatement            Kind = "ThrowStatement"
	KindTryStatement              Kind = "TryStatement"
	KindCatchClause               Kind = "CatchClause"
	KindBreakStatement            Kind = "BreakStatement"
	KindContinueStatement         Kind = "ContinueStatement"
	KindExportNamedDeclaration    Kind = "ExportNamedDeclaration"
	KindExportDefaultDeclaration  Kind = "ExportDefaultDeclaration"
	KindTypeAlias                 Kind = "TypeAlias"
	KindIdentifier                Kind = "Identifier"
	KindNumericLiteral            Kind = "NumericLiteral"
	KindStringLiteral             Kind = "StringLiteral"
	KindBooleanLiteral            Kind = "BooleanLiteral"
	KindNullLiteral               Kind = "NullLiteral"
	KindBinaryExpression          Kind = "BinaryExpression"
	KindLogicalExpression         Kind = "LogicalExpression"
	KindUnaryExpression           Kind = "UnaryExpression"
	KindUpdateExpression          Kind = "UpdateExpression"
	KindAssignmentExpression      Kind = "AssignmentExpression"
	KindMemberExpression          Kind = "MemberExpression"
	KindConditionalExpression     Kind = "ConditionalExpression"
	KindCallExpression            Kind = "CallExpression"
	KindNewExpression             Kind = "NewExpression"
	KindObjectExpression          Kind = "ObjectExpression"
	KindProperty                  Kind = "Property"
	KindSequenceExpression        Kind = "SequenceExpression"

	// Pure markers synthesized by the for-init hoist rewrite, consumed
	// only by inference.
	KindPureKey   Kind = "__PureKey"
	KindPureValue Kind = "__PureValue"

	// Type-annotation tree, materialized by the external
	// getTypeFromTypeAnnotation collaborator.
	KindNamedTypeAnnotation     Kind = "NamedTypeAnnotation"
	KindGenericTypeAnnotation   Kind = "GenericTypeAnnotation"
	KindObjectTypeAnnotation    Kind = "ObjectTypeAnnotation"
	KindFunctionTypeAnnotation  Kind = "FunctionTypeAnnotation"
)

// Node is the base interface every AST node implements.
type Node interface {
	Kind() Kind
	Loc() position.Loc
	// Children returns this node's child nodes in a prioritized field
	// order, omitting absent fields.
	Children() []Node
}

// Base is embedded by every concrete node to carry its tag and location.
type Base struct {
	K Kind
	L position.Loc
}

func (b Base) Kind() Kind          { return b.K }
func (b Base) Loc() position.Loc   { return b.L }

func appendNode(children []Node, n Node) []Node {
	if n == nil || isNilNode(n) {
		return children
	}
	return append(children, n)
}

func appendNodes[T Node](children []Node, ns []T) []Node {
	for _, n := range ns {
		children = appendNode(children, n)
	}
	return children
}

// isNilNode guards against typed-nil interfaces (a nil *Identifier stored in
// an Expression field still satisfies the interface but must be skipped).
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *Identifier:
		return v == nil
	case *BlockStatement:
		return v == nil
	case *VariableDeclaration:
		return v == nil
	case *CatchClause:
		return v == nil
	default:
		return false
	}
}

// IsScopeCreator reports whether Pass 1 opens a new Scope for nodes of
// this kind: blocks, functions, classes, and try/catch.
func IsScopeCreator(k Kind) bool {
	switch k {
	case KindBlockStatement,
		KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression,
		KindMethodDefinition,
		KindClassDeclaration, KindClassExpression,
		KindCatchClause:
		return true
	default:
		return false
	}
}

// IsFunctionLike reports whether a node introduces a function-kind scope.
func IsFunctionLike(k Kind) bool {
	switch k {
	case KindFunctionDeclaration, KindFunctionExpression, KindArrowFunctionExpression, KindMethodDefinition:
		return true
	default:
		return false
	}
}
