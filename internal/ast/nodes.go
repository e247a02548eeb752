package ast

import "github.com/yifan-blog/hegel/internal/position"

// ---- Program & statements ----

type Program struct {
	Base
	Body []Node
}

func (n *Program) Children() []Node { return appendNodes(nil, n.Body) }

type BlockStatement struct {
	Base
	Body []Node
}

func (n *BlockStatement) Children() []Node { return appendNodes(nil, n.Body) }

type ExpressionStatement struct {
	Base
	Expression Node
}

func (n *ExpressionStatement) Children() []Node { return appendNode(nil, n.Expression) }

type EmptyStatement struct{ Base }

func (n *EmptyStatement) Children() []Node { return nil }

// Kind used for var/let/const; Kind carried separately from the tag so the
// checker can tell mutability apart without a new node type.
type DeclKind string

const (
	DeclVar   DeclKind = "var"
	DeclLet   DeclKind = "let"
	DeclConst DeclKind = "const"
)

type VariableDeclaration struct {
	Base
	DeclKind    DeclKind
	Declarators []*VariableDeclarator
	ExportAs    string // set by the export-annotation rewrite; empty if not exported
}

func (n *VariableDeclaration) Children() []Node {
	var children []Node
	for _, d := range n.Declarators {
		children = appendNode(children, d)
	}
	return children
}

type VariableDeclarator struct {
	Base
	ID             *Identifier
	TypeAnnotation Node // optional type-annotation tree, nil if unannotated
	Init           Node // optional
	ExportAs       string
}

func (n *VariableDeclarator) Children() []Node {
	var children []Node
	children = appendNode(children, n.ID)
	children = appendNode(children, n.Init)
	return children
}

type Parameter struct {
	ID             *Identifier
	TypeAnnotation Node
}

type FunctionDeclaration struct {
	Base
	ID         *Identifier // nil for anonymous default-export functions
	Params     []*Parameter
	ReturnType Node // optional
	Body       *BlockStatement
	ExportAs   string
}

func (n *FunctionDeclaration) Children() []Node {
	var children []Node
	children = appendNode(children, n.ID)
	children = appendNode(children, n.Body)
	return children
}

type FunctionExpression struct {
	Base
	ID         *Identifier // optional
	Params     []*Parameter
	ReturnType Node
	Body       *BlockStatement
}

func (n *FunctionExpression) Children() []Node { return appendNode(nil, n.Body) }

type ArrowFunctionExpression struct {
	Base
	Params     []*Parameter
	ReturnType Node
	Body       Node // an expression pre-normalization; always a *BlockStatement post-normalization
}

func (n *ArrowFunctionExpression) Children() []Node { return appendNode(nil, n.Body) }

type ClassMember struct {
	Key    *Identifier
	Value  *FunctionExpression
	Static bool
}

type ClassDeclaration struct {
	Base
	ID         *Identifier
	SuperClass Node // optional Identifier
	Body       []*MethodDefinition
	ExportAs   string
}

func (n *ClassDeclaration) Children() []Node {
	var children []Node
	for _, m := range n.Body {
		children = appendNode(children, m)
	}
	return children
}

type ClassExpression struct {
	Base
	ID         *Identifier
	SuperClass Node
	Body       []*MethodDefinition
}

func (n *ClassExpression) Children() []Node {
	var children []Node
	for _, m := range n.Body {
		children = appendNode(children, m)
	}
	return children
}

type MethodDefinition struct {
	Base
	Key    *Identifier
	Params []*Parameter
	Body   *BlockStatement
	Static     bool
	MethodKind string // "method", "constructor", "get", "set"
}

func (n *MethodDefinition) Children() []Node { return appendNode(nil, n.Body) }

type IfStatement struct {
	Base
	Test       Node
	Consequent Node // always a *BlockStatement post-normalization
	Alternate  Node // optional; always a *BlockStatement post-normalization when present
}

func (n *IfStatement) Children() []Node {
	var children []Node
	children = appendNode(children, n.Test)
	children = appendNode(children, n.Consequent)
	children = appendNode(children, n.Alternate)
	return children
}

type WhileStatement struct {
	Base
	Test Node
	Body Node // always a *BlockStatement post-normalization
}

func (n *WhileStatement) Children() []Node {
	var children []Node
	children = appendNode(children, n.Test)
	children = appendNode(children, n.Body)
	return children
}

type DoWhileStatement struct {
	Base
	Test Node
	Body Node // always a *BlockStatement post-normalization
}

func (n *DoWhileStatement) Children() []Node {
	var children []Node
	children = appendNode(children, n.Body)
	children = appendNode(children, n.Test)
	return children
}

type ForStatement struct {
	Base
	Init   Node // *VariableDeclaration or expression, optional; hoisted into Body by normalization
	Test   Node // optional
	Update Node // optional
	Body   Node // always a *BlockStatement post-normalization
}

func (n *ForStatement) Children() []Node {
	var children []Node
	children = appendNode(children, n.Test)
	children = appendNode(children, n.Body)
	return children
}

type ForInStatement struct {
	Base
	Left  *VariableDeclaration // hoisted into Body by normalization
	Right Node
	Body  Node // always a *BlockStatement post-normalization
}

func (n *ForInStatement) Children() []Node {
	var children []Node
	children = appendNode(children, n.Right)
	children = appendNode(children, n.Body)
	return children
}

type ForOfStatement struct {
	Base
	Left  *VariableDeclaration
	Right Node
	Body  Node // always a *BlockStatement post-normalization
}

func (n *ForOfStatement) Children() []Node {
	var children []Node
	children = appendNode(children, n.Right)
	children = appendNode(children, n.Body)
	return children
}

type ReturnStatement struct {
	Base
	Argument Node // optional
}

func (n *ReturnStatement) Children() []Node { return appendNode(nil, n.Argument) }

type ThrowStatement struct {
	Base
	Argument Node
}

func (n *ThrowStatement) Children() []Node { return appendNode(nil, n.Argument) }

type TryStatement struct {
	Base
	Block      *BlockStatement
	Handler    *CatchClause // optional
	Finalizer  *BlockStatement
	CatchBlock *CatchClause // back-reference synthesized by normalization; == Handler
}

func (n *TryStatement) Children() []Node {
	var children []Node
	children = appendNode(children, n.Block)
	children = appendNode(children, n.Handler)
	children = appendNode(children, n.Finalizer)
	return children
}

type CatchClause struct {
	Base
	Param *Identifier // optional
	Body  *BlockStatement
}

func (n *CatchClause) Children() []Node { return appendNode(nil, n.Body) }

type BreakStatement struct{ Base }

func (n *BreakStatement) Children() []Node { return nil }

type ContinueStatement struct{ Base }

func (n *ContinueStatement) Children() []Node { return nil }

// ExportNamedDeclaration/ExportDefaultDeclaration are consumed and
// unwrapped entirely by the export-annotation normalization rewrite; they
// never survive to reach the walker, but are part of the node taxonomy
// the AST producer may emit.
type ExportNamedDeclaration struct {
	Base
	Declaration Node // VariableDeclaration | FunctionDeclaration | ClassDeclaration | TypeAlias
}

func (n *ExportNamedDeclaration) Children() []Node { return appendNode(nil, n.Declaration) }

type ExportDefaultDeclaration struct {
	Base
	Declaration Node
}

func (n *ExportDefaultDeclaration) Children() []Node { return appendNode(nil, n.Declaration) }

type TypeAlias struct {
	Base
	ID         *Identifier
	TypeParams []*Identifier
	Right      Node // type-annotation tree
	ExportAs   string
}

func (n *TypeAlias) Children() []Node { return nil }

// ---- Expressions ----

type Identifier struct {
	Base
	Name string
}

func (n *Identifier) Children() []Node { return nil }

type NumericLiteral struct {
	Base
	Value float64
}

func (n *NumericLiteral) Children() []Node { return nil }

type StringLiteral struct {
	Base
	Value string
}

func (n *StringLiteral) Children() []Node { return nil }

type BooleanLiteral struct {
	Base
	Value bool
}

func (n *BooleanLiteral) Children() []Node { return nil }

type NullLiteral struct{ Base }

func (n *NullLiteral) Children() []Node { return nil }

type BinaryExpression struct {
	Base
	Operator string
	Left     Node
	Right    Node
}

func (n *BinaryExpression) Children() []Node {
	var children []Node
	children = appendNode(children, n.Left)
	children = appendNode(children, n.Right)
	return children
}

type LogicalExpression struct {
	Base
	Operator string
	Left     Node
	Right    Node
}

func (n *LogicalExpression) Children() []Node {
	var children []Node
	children = appendNode(children, n.Left)
	children = appendNode(children, n.Right)
	return children
}

type UnaryExpression struct {
	Base
	Operator string
	Argument Node
}

func (n *UnaryExpression) Children() []Node { return appendNode(nil, n.Argument) }

type UpdateExpression struct {
	Base
	Operator string
	Argument Node
	Prefix   bool
}

func (n *UpdateExpression) Children() []Node { return appendNode(nil, n.Argument) }

type AssignmentExpression struct {
	Base
	Operator string // "=", "+=", etc.
	Left     Node
	Right    Node
}

func (n *AssignmentExpression) Children() []Node {
	var children []Node
	children = appendNode(children, n.Left)
	children = appendNode(children, n.Right)
	return children
}

type MemberExpression struct {
	Base
	Object   Node
	Property Node // Identifier for static access, any Expression when Computed
	Computed bool
}

func (n *MemberExpression) Children() []Node {
	var children []Node
	children = appendNode(children, n.Object)
	children = appendNode(children, n.Property)
	return children
}

type ConditionalExpression struct {
	Base
	Test       Node
	Consequent Node
	Alternate  Node
}

func (n *ConditionalExpression) Children() []Node {
	var children []Node
	children = appendNode(children, n.Test)
	children = appendNode(children, n.Consequent)
	children = appendNode(children, n.Alternate)
	return children
}

type CallExpression struct {
	Base
	Callee    Node
	Arguments []Node
}

func (n *CallExpression) Children() []Node {
	var children []Node
	children = appendNode(children, n.Callee)
	children = appendNodes(children, n.Arguments)
	return children
}

type NewExpression struct {
	Base
	Callee    Node
	Arguments []Node
}

func (n *NewExpression) Children() []Node {
	var children []Node
	children = appendNode(children, n.Callee)
	children = appendNodes(children, n.Arguments)
	return children
}

type Property struct {
	Base
	Key   *Identifier
	Value Node
}

func (n *Property) Children() []Node { return appendNode(nil, n.Value) }

type ObjectExpression struct {
	Base
	Properties []*Property
}

func (n *ObjectExpression) Children() []Node {
	var children []Node
	for _, p := range n.Properties {
		children = appendNode(children, p)
	}
	return children
}

type SequenceExpression struct {
	Base
	Expressions []Node
}

func (n *SequenceExpression) Children() []Node { return appendNodes(nil, n.Expressions) }

// PureKey/PureValue are synthesized by the for-in/for-of hoist rewrite as
// the Init of the hoisted loop variable declaration; they reference the
// iterated right-hand side and are consumed by inference.
type PureKey struct {
	Base
	Iterated Node
}

func (n *PureKey) Children() []Node { return nil }

type PureValue struct {
	Base
	Iterated Node
}

func (n *PureValue) Children() []Node { return nil }

// ---- Type annotation tree ----
// Materialized by the external getTypeFromTypeAnnotation collaborator;
// these node shapes are what that collaborator consumes.

type NamedTypeAnnotation struct {
	Base
	Name string
}

func (n *NamedTypeAnnotation) Children() []Node { return nil }

type GenericTypeAnnotation struct {
	Base
	Name      string
	TypeArgs  []Node
}

func (n *GenericTypeAnnotation) Children() []Node { return appendNodes(nil, n.TypeArgs) }

type ObjectTypeAnnotation struct {
	Base
	Properties []*TypeProperty
}

type TypeProperty struct {
	Key   string
	Value Node
}

func (n *ObjectTypeAnnotation) Children() []Node {
	var children []Node
	for _, p := range n.Properties {
		children = appendNode(children, p.Value)
	}
	return children
}

type FunctionTypeAnnotation struct {
	Base
	Params     []Node
	ReturnType Node
}

func (n *FunctionTypeAnnotation) Children() []Node {
	var children []Node
	children = appendNodes(children, n.Params)
	children = appendNode(children, n.ReturnType)
	return children
}

// Loc builder helper used throughout the package and by tests.
func At(startLine, startCol, endLine, endCol int) position.Loc {
	return position.Loc{
		Start: position.Point{Line: startLine, Column: startCol},
		End:   position.Point{Line: endLine, Column: endCol},
	}
}
