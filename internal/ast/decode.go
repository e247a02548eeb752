package ast

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yifan-blog/hegel/internal/position"
)

// DecodeProgram reads an ESTree-shaped JSON document produced by an
// external AST producer and materializes it into the typed Node tree the
// walker operates on. The producer itself is never implemented here; this
// is the narrowest possible seam letting the builder run against a real
// AST without absorbing a full source-to-AST parser.
func DecodeProgram(r io.Reader) (*Program, error) {
	var raw rawNode
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ast: decode program: %w", err)
	}
	n, err := build(&raw)
	if err != nil {
		return nil, err
	}
	prog, ok := n.(*Program)
	if !ok {
		return nil, fmt.Errorf("ast: root node has type %q, want %q", raw.Type, KindProgram)
	}
	return prog, nil
}

// rawNode is the untyped JSON shape every node decodes through before being
// routed to its concrete Go type by Type.
type rawNode struct {
	Type     string            `json:"type"`
	Loc      rawLoc            `json:"loc"`
	Body     []rawNode         `json:"body"`      // statement list: Program, BlockStatement; member list: class declarations/expressions
	BodyBlock *rawNode         `json:"bodyBlock"`  // single nested block: function/loop/catch bodies
	Declarations []rawNode     `json:"declarations"`
	ID       *rawNode          `json:"id"`
	Params   []rawNode         `json:"params"`
	ReturnType *rawNode        `json:"returnType"`
	TypeAnnotation *rawNode    `json:"typeAnnotation"`
	ExportAs string            `json:"exportAs"`
	Init     *rawNode          `json:"init"`
	Test     *rawNode          `json:"test"`
	Consequent *rawNode        `json:"consequent"`
	Alternate  *rawNode        `json:"alternate"`
	Update     *rawNode        `json:"update"`
	Left       *rawNode        `json:"left"`
	Right      *rawNode        `json:"right"`      // binary/logical/assignment right-hand side
	RightType  *rawNode        `json:"rightType"`   // TypeAlias right-hand side (a type-annotation node)
	Object     *rawNode        `json:"object"`
	Property   *rawNode        `json:"property"`
	Computed   bool            `json:"computed"`
	Operator   string          `json:"operator"`
	Prefix     bool            `json:"prefix"`
	Argument   *rawNode        `json:"argument"`
	Callee     *rawNode        `json:"callee"`
	Arguments  []rawNode       `json:"arguments"`
	Block      *rawNode        `json:"block"`
	Handler    *rawNode        `json:"handler"`
	Finalizer  *rawNode        `json:"finalizer"`
	Param      *rawNode        `json:"param"`
	SuperClass *rawNode        `json:"superClass"`
	Kind       string          `json:"kind"`
	Static     bool            `json:"static"`
	Key        *rawNode        `json:"key"`
	Value      *rawNode        `json:"value"`
	Properties []rawNode       `json:"properties"`
	Expression *rawNode        `json:"expression"`
	Expressions []rawNode      `json:"expressions"`
	Declaration *rawNode       `json:"declaration"`
	Name        string         `json:"name"`
	StringValue *string        `json:"stringValue"`
	NumericValue *float64      `json:"numericValue"`
	BooleanValue *bool         `json:"booleanValue"`
	TypeParams  []rawNode      `json:"typeParams"`
	TypeArgs    []rawNode      `json:"typeArgs"`
}

type rawLoc struct {
	Start rawPoint `json:"start"`
	End   rawPoint `json:"end"`
}

type rawPoint struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (l rawLoc) toLoc() position.Loc {
	return position.Loc{
		Start: position.Point{Line: l.Start.Line, Column: l.Start.Column},
		End:   position.Point{Line: l.End.Line, Column: l.End.Column},
	}
}

func buildList(raws []rawNode) ([]Node, error) {
	out := make([]Node, 0, len(raws))
	for i := range raws {
		n, err := build(&raws[i])
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func buildIdentifier(r *rawNode) (*Identifier, error) {
	if r == nil {
		return nil, nil
	}
	n, err := build(r)
	if err != nil {
		return nil, err
	}
	id, ok := n.(*Identifier)
	if !ok {
		return nil, fmt.Errorf("ast: expected Identifier, got %q at %s", r.Type, r.Loc.toLoc())
	}
	return id, nil
}

func buildBlock(r *rawNode) (*BlockStatement, error) {
	if r == nil {
		return nil, nil
	}
	n, err := build(r)
	if err != nil {
		return nil, err
	}
	b, ok := n.(*BlockStatement)
	if !ok {
		return nil, fmt.Errorf("ast: expected BlockStatement, got %q at %s", r.Type, r.Loc.toLoc())
	}
	return b, nil
}

func buildParams(raws []rawNode) ([]*Parameter, error) {
	out := make([]*Parameter, 0, len(raws))
	for i := range raws {
		id, err := buildIdentifier(raws[i].ID)
		if err != nil {
			return nil, err
		}
		var typ Node
		if raws[i].TypeAnnotation != nil {
			typ, err = build(raws[i].TypeAnnotation)
			if err != nil {
				return nil, err
			}
		}
		out = append(out, &Parameter{ID: id, TypeAnnotation: typ})
	}
	return out, nil
}

func buildOpt(r *rawNode) (Node, error) {
	if r == nil {
		return nil, nil
	}
	return build(r)
}

// build dispatches a rawNode to its concrete Go type by Type, recursively
// decoding children in the same order the field is declared on the struct.
func build(r *rawNode) (Node, error) {
	if r == nil {
		return nil, nil
	}
	base := Base{K: Kind(r.Type), L: r.Loc.toLoc()}

	switch Kind(r.Type) {
	case KindProgram:
		body, err := buildList(r.Body)
		if err != nil {
			return nil, err
		}
		return &Program{Base: base, Body: body}, nil

	case KindBlockStatement:
		body, err := buildList(r.Body)
		if err != nil {
			return nil, err
		}
		return &BlockStatement{Base: base, Body: body}, nil

	case KindExpressionStatement:
		expr, err := buildOpt(r.Expression)
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Base: base, Expression: expr}, nil

	case KindEmptyStatement:
		return &EmptyStatement{Base: base}, nil

	case KindVariableDeclaration:
		decls := make([]*VariableDeclarator, 0, len(r.Declarations))
		for i := range r.Declarations {
			n, err := build(&r.Declarations[i])
			if err != nil {
				return nil, err
			}
			d, ok := n.(*VariableDeclarator)
			if !ok {
				return nil, fmt.Errorf("ast: expected VariableDeclarator, got %q", r.Declarations[i].Type)
			}
			decls = append(decls, d)
		}
		return &VariableDeclaration{Base: base, DeclKind: DeclKind(r.Kind), Declarators: decls, ExportAs: r.ExportAs}, nil

	case KindVariableDeclarator:
		id, err := buildIdentifier(r.ID)
		if err != nil {
			return nil, err
		}
		var typeAnno Node
		if r.TypeAnnotation != nil {
			typeAnno, err = build(r.TypeAnnotation)
			if err != nil {
				return nil, err
			}
		}
		init, err := buildOpt(r.Init)
		if err != nil {
			return nil, err
		}
		return &VariableDeclarator{Base: base, ID: id, TypeAnnotation: typeAnno, Init: init, ExportAs: r.ExportAs}, nil

	case KindFunctionDeclaration:
		id, err := buildIdentifier(r.ID)
		if err != nil {
			return nil, err
		}
		params, err := buildParams(r.Params)
		if err != nil {
			return nil, err
		}
		retType, err := buildOpt(r.ReturnType)
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(r.Body0())
		if err != nil {
			return nil, err
		}
		return &FunctionDeclaration{Base: base, ID: id, Params: params, ReturnType: retType, Body: body, ExportAs: r.ExportAs}, nil

	case KindFunctionExpression:
		id, err := buildIdentifier(r.ID)
		if err != nil {
			return nil, err
		}
		params, err := buildParams(r.Params)
		if err != nil {
			return nil, err
		}
		retType, err := buildOpt(r.ReturnType)
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(r.Body0())
		if err != nil {
			return nil, err
		}
		return &FunctionExpression{Base: base, ID: id, Params: params, ReturnType: retType, Body: body}, nil

	case KindArrowFunctionExpression:
		params, err := buildParams(r.Params)
		if err != nil {
			return nil, err
		}
		retType, err := buildOpt(r.ReturnType)
		if err != nil {
			return nil, err
		}
		// Pre-normalization the body is either an expression or a block,
		// both carried on the single-node "bodyBlock" wire field; the
		// arrow-body-lift rewrite turns the expression form into a block
		// during normalization.
		body, err := buildOpt(r.Body0())
		if err != nil {
			return nil, err
		}
		return &ArrowFunctionExpression{Base: base, Params: params, ReturnType: retType, Body: body}, nil

	case KindClassDeclaration, KindClassExpression:
		id, err := buildIdentifier(r.ID)
		if err != nil {
			return nil, err
		}
		super, err := buildOpt(r.SuperClass)
		if err != nil {
			return nil, err
		}
		members := make([]*MethodDefinition, 0, len(r.Body))
		for i := range r.Body {
			n, err := build(&r.Body[i])
			if err != nil {
				return nil, err
			}
			m, ok := n.(*MethodDefinition)
			if !ok {
				return nil, fmt.Errorf("ast: expected MethodDefinition, got %q", r.Body[i].Type)
			}
			members = append(members, m)
		}
		if Kind(r.Type) == KindClassDeclaration {
			return &ClassDeclaration{Base: base, ID: id, SuperClass: super, Body: members, ExportAs: r.ExportAs}, nil
		}
		return &ClassExpression{Base: base, ID: id, SuperClass: super, Body: members}, nil

	case KindMethodDefinition:
		key, err := buildIdentifier(r.Key)
		if err != nil {
			return nil, err
		}
		params, err := buildParams(r.Params)
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(r.Body0())
		if err != nil {
			return nil, err
		}
		return &MethodDefinition{Base: base, Key: key, Params: params, Body: body, Static: r.Static, MethodKind: r.Kind}, nil

	case KindIdentifier:
		return &Identifier{Base: base, Name: r.Name}, nil

	case KindNumericLiteral:
		var v float64
		if r.NumericValue != nil {
			v = *r.NumericValue
		}
		return &NumericLiteral{Base: base, Value: v}, nil

	case KindStringLiteral:
		var v string
		if r.StringValue != nil {
			v = *r.StringValue
		}
		return &StringLiteral{Base: base, Value: v}, nil

	case KindBooleanLiteral:
		var v bool
		if r.BooleanValue != nil {
			v = *r.BooleanValue
		}
		return &BooleanLiteral{Base: base, Value: v}, nil

	case KindNullLiteral:
		return &NullLiteral{Base: base}, nil

	case KindBinaryExpression:
		left, err := buildOpt(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildOpt(r.Right)
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{Base: base, Operator: r.Operator, Left: left, Right: right}, nil

	case KindLogicalExpression:
		left, err := buildOpt(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildOpt(r.Right)
		if err != nil {
			return nil, err
		}
		return &LogicalExpression{Base: base, Operator: r.Operator, Left: left, Right: right}, nil

	case KindUnaryExpression:
		arg, err := buildOpt(r.Argument)
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{Base: base, Operator: r.Operator, Argument: arg}, nil

	case KindUpdateExpression:
		arg, err := buildOpt(r.Argument)
		if err != nil {
			return nil, err
		}
		return &UpdateExpression{Base: base, Operator: r.Operator, Argument: arg, Prefix: r.Prefix}, nil

	case KindAssignmentExpression:
		left, err := buildOpt(r.Left)
		if err != nil {
			return nil, err
		}
		right, err := buildOpt(r.Right)
		if err != nil {
			return nil, err
		}
		return &AssignmentExpression{Base: base, Operator: r.Operator, Left: left, Right: right}, nil

	case KindMemberExpression:
		obj, err := buildOpt(r.Object)
		if err != nil {
			return nil, err
		}
		prop, err := buildOpt(r.Property)
		if err != nil {
			return nil, err
		}
		return &MemberExpression{Base: base, Object: obj, Property: prop, Computed: r.Computed}, nil

	case KindConditionalExpression:
		test, err := buildOpt(r.Test)
		if err != nil {
			return nil, err
		}
		cons, err := buildOpt(r.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := buildOpt(r.Alternate)
		if err != nil {
			return nil, err
		}
		return &ConditionalExpression{Base: base, Test: test, Consequent: cons, Alternate: alt}, nil

	case KindCallExpression:
		callee, err := buildOpt(r.Callee)
		if err != nil {
			return nil, err
		}
		args, err := buildList(r.Arguments)
		if err != nil {
			return nil, err
		}
		return &CallExpression{Base: base, Callee: callee, Arguments: args}, nil

	case KindNewExpression:
		callee, err := buildOpt(r.Callee)
		if err != nil {
			return nil, err
		}
		args, err := buildList(r.Arguments)
		if err != nil {
			return nil, err
		}
		return &NewExpression{Base: base, Callee: callee, Arguments: args}, nil

	case KindProperty:
		key, err := buildIdentifier(r.Key)
		if err != nil {
			return nil, err
		}
		val, err := buildOpt(r.Value)
		if err != nil {
			return nil, err
		}
		return &Property{Base: base, Key: key, Value: val}, nil

	case KindObjectExpression:
		props := make([]*Property, 0, len(r.Properties))
		for i := range r.Properties {
			n, err := build(&r.Properties[i])
			if err != nil {
				return nil, err
			}
			p, ok := n.(*Property)
			if !ok {
				return nil, fmt.Errorf("ast: expected Property, got %q", r.Properties[i].Type)
			}
			props = append(props, p)
		}
		return &ObjectExpression{Base: base, Properties: props}, nil

	case KindSequenceExpression:
		exprs, err := buildList(r.Expressions)
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{Base: base, Expressions: exprs}, nil

	case KindIfStatement:
		test, err := buildOpt(r.Test)
		if err != nil {
			return nil, err
		}
		cons, err := buildOpt(r.Consequent)
		if err != nil {
			return nil, err
		}
		alt, err := buildOpt(r.Alternate)
		if err != nil {
			return nil, err
		}
		return &IfStatement{Base: base, Test: test, Consequent: cons, Alternate: alt}, nil

	case KindWhileStatement:
		test, err := buildOpt(r.Test)
		if err != nil {
			return nil, err
		}
		body, err := buildOpt(r.Body0())
		if err != nil {
			return nil, err
		}
		return &WhileStatement{Base: base, Test: test, Body: body}, nil

	case KindDoWhileStatement:
		test, err := buildOpt(r.Test)
		if err != nil {
			return nil, err
		}
		body, err := buildOpt(r.Body0())
		if err != nil {
			return nil, err
		}
		return &DoWhileStatement{Base: base, Test: test, Body: body}, nil

	case KindForStatement:
		init, err := buildOpt(r.Init)
		if err != nil {
			return nil, err
		}
		test, err := buildOpt(r.Test)
		if err != nil {
			return nil, err
		}
		update, err := buildOpt(r.Update)
		if err != nil {
			return nil, err
		}
		body, err := buildOpt(r.Body0())
		if err != nil {
			return nil, err
		}
		return &ForStatement{Base: base, Init: init, Test: test, Update: update, Body: body}, nil

	case KindForInStatement, KindForOfStatement:
		leftNode, err := buildOpt(r.Left)
		if err != nil {
			return nil, err
		}
		left, _ := leftNode.(*VariableDeclaration)
		right, err := buildOpt(r.Right)
		if err != nil {
			return nil, err
		}
		body, err := buildOpt(r.Body0())
		if err != nil {
			return nil, err
		}
		if Kind(r.Type) == KindForInStatement {
			return &ForInStatement{Base: base, Left: left, Right: right, Body: body}, nil
		}
		return &ForOfStatement{Base: base, Left: left, Right: right, Body: body}, nil

	case KindReturnStatement:
		arg, err := buildOpt(r.Argument)
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{Base: base, Argument: arg}, nil

	case KindThrowStatement:
		arg, err := buildOpt(r.Argument)
		if err != nil {
			return nil, err
		}
		return &ThrowStatement{Base: base, Argument: arg}, nil

	case KindTryStatement:
		block, err := buildBlock(r.Block)
		if err != nil {
			return nil, err
		}
		var handler *CatchClause
		if r.Handler != nil {
			n, err := build(r.Handler)
			if err != nil {
				return nil, err
			}
			handler, _ = n.(*CatchClause)
		}
		finalizer, err := buildBlock(r.Finalizer)
		if err != nil {
			return nil, err
		}
		return &TryStatement{Base: base, Block: block, Handler: handler, Finalizer: finalizer, CatchBlock: handler}, nil

	case KindCatchClause:
		param, err := buildIdentifier(r.Param)
		if err != nil {
			return nil, err
		}
		body, err := buildBlock(r.Body0())
		if err != nil {
			return nil, err
		}
		return &CatchClause{Base: base, Param: param, Body: body}, nil

	case KindBreakStatement:
		return &BreakStatement{Base: base}, nil

	case KindContinueStatement:
		return &ContinueStatement{Base: base}, nil

	case KindExportNamedDeclaration:
		decl, err := buildOpt(r.Declaration)
		if err != nil {
			return nil, err
		}
		return &ExportNamedDeclaration{Base: base, Declaration: decl}, nil

	case KindExportDefaultDeclaration:
		decl, err := buildOpt(r.Declaration)
		if err != nil {
			return nil, err
		}
		return &ExportDefaultDeclaration{Base: base, Declaration: decl}, nil

	case KindTypeAlias:
		id, err := buildIdentifier(r.ID)
		if err != nil {
			return nil, err
		}
		tparams, err := buildList(r.TypeParams)
		if err != nil {
			return nil, err
		}
		idTParams := make([]*Identifier, 0, len(tparams))
		for _, t := range tparams {
			if id, ok := t.(*Identifier); ok {
				idTParams = append(idTParams, id)
			}
		}
		right, err := buildOpt(r.Right0())
		if err != nil {
			return nil, err
		}
		return &TypeAlias{Base: base, ID: id, TypeParams: idTParams, Right: right, ExportAs: r.ExportAs}, nil

	case KindNamedTypeAnnotation:
		return &NamedTypeAnnotation{Base: base, Name: r.Name}, nil

	case KindGenericTypeAnnotation:
		targs, err := buildList(r.TypeArgs)
		if err != nil {
			return nil, err
		}
		return &GenericTypeAnnotation{Base: base, Name: r.Name, TypeArgs: targs}, nil

	case KindObjectTypeAnnotation:
		// Each wire property is {name: <field name>, value: <nested type
		// annotation node>}, distinct from KindProperty (an object-literal
		// property, keyed by an Identifier rather than a bare string).
		props := make([]*TypeProperty, 0, len(r.Properties))
		for i := range r.Properties {
			v, err := buildOpt(r.Properties[i].Value)
			if err != nil {
				return nil, err
			}
			props = append(props, &TypeProperty{Key: r.Properties[i].Name, Value: v})
		}
		return &ObjectTypeAnnotation{Base: base, Properties: props}, nil

	case KindFunctionTypeAnnotation:
		params, err := buildList(r.Params)
		if err != nil {
			return nil, err
		}
		ret, err := buildOpt(r.ReturnType)
		if err != nil {
			return nil, err
		}
		return &FunctionTypeAnnotation{Base: base, Params: params, ReturnType: ret}, nil

	default:
		return nil, fmt.Errorf("ast: unrecognized node type %q at %s", r.Type, base.L)
	}
}

// Body0 returns the single nested block used by function, loop and catch
// bodies, carried on its own "bodyBlock" wire field so it never collides
// with the statement-list "body" field of Program and BlockStatement.
func (r *rawNode) Body0() *rawNode {
	return r.BodyBlock
}

// Right0 returns a TypeAlias's right-hand type-annotation node, carried on
// its own "rightType" wire field so it never collides with the binary/
// assignment "right" field.
func (r *rawNode) Right0() *rawNode {
	return r.RightType
}
