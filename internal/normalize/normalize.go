// Package normalize applies an AST normalization pipeline: a sequence of
// pure, order-significant, idempotent node rewrites applied before the
// walker ever sees a node. Each rewrite is its own small, single-purpose
// function, composed once by Program, rather than one monolithic walk.
package normalize

import (
	"github.com/yifan-blog/hegel/internal/ast"
)

// Program rewrites every node in prog in place and returns it, applying
// five rewrites in order: arrow body lift, branch body wrap, try/catch
// link, export annotation, for-init hoist. Running Program a second time
// on its own output is a no-op, since every rewrite below first checks
// whether its target shape already holds.
func Program(prog *ast.Program) *ast.Program {
	for i, n := range prog.Body {
		prog.Body[i] = statement(n, "")
	}
	return prog
}

// statement rewrites one statement (and, recursively, its substatements),
// threading exportAs down from an enclosing export declaration per the
// export-annotation rewrite.
func statement(n ast.Node, exportAs string) ast.Node {
	if n == nil {
		return nil
	}
	switch s := n.(type) {
	case *ast.ExportNamedDeclaration:
		return exportNamedDeclaration(s)
	case *ast.ExportDefaultDeclaration:
		return exportDefaultDeclaration(s)
	case *ast.VariableDeclaration:
		for _, d := range s.Declarators {
			d.Init = expression(d.Init)
			if exportAs != "" {
				d.ExportAs = d.ID.Name
			}
		}
		if exportAs != "" {
			s.ExportAs = exportAs
		}
		return s
	case *ast.FunctionDeclaration:
		if exportAs != "" {
			s.ExportAs = exportAs
		}
		block(s.Body)
		return s
	case *ast.ClassDeclaration:
		if exportAs != "" {
			s.ExportAs = exportAs
		}
		for _, m := range s.Body {
			block(m.Body)
		}
		return s
	case *ast.TypeAlias:
		if exportAs != "" {
			s.ExportAs = exportAs
		}
		return s
	case *ast.BlockStatement:
		for i, c := range s.Body {
			s.Body[i] = statement(c, "")
		}
		return s
	case *ast.ExpressionStatement:
		s.Expression = expression(s.Expression)
		return s
	case *ast.IfStatement:
		return ifStatement(s)
	case *ast.WhileStatement:
		return whileStatement(s)
	case *ast.DoWhileStatement:
		return doWhileStatement(s)
	case *ast.ForStatement:
		return forStatement(s)
	case *ast.ForInStatement:
		return forInStatement(s)
	case *ast.ForOfStatement:
		return forOfStatement(s)
	case *ast.ReturnStatement:
		s.Argument = expression(s.Argument)
		return s
	case *ast.ThrowStatement:
		s.Argument = expression(s.Argument)
		return s
	case *ast.TryStatement:
		return tryStatement(s)
	default:
		return n
	}
}

// exportNamedDeclaration unwraps the export wrapper and annotates its
// inner declaration's exportAs.
func exportNamedDeclaration(s *ast.ExportNamedDeclaration) ast.Node {
	inner := s.Declaration
	name := exportedName(inner)
	return statement(inner, name)
}

func exportDefaultDeclaration(s *ast.ExportDefaultDeclaration) ast.Node {
	return statement(s.Declaration, "default")
}

// exportedName computes the name used to annotate a freshly-unwrapped
// export, used only as a starting point for statement's finer per-
// declarator annotation in the VariableDeclaration case.
func exportedName(n ast.Node) string {
	switch d := n.(type) {
	case *ast.FunctionDeclaration:
		if d.ID != nil {
			return d.ID.Name
		}
		return "default"
	case *ast.ClassDeclaration:
		if d.ID != nil {
			return d.ID.Name
		}
		return "default"
	case *ast.TypeAlias:
		if d.ID != nil {
			return d.ID.Name
		}
	case *ast.VariableDeclaration:
		return "<per-declarator>"
	}
	return "default"
}

// block applies the branch-body-wrap rewrite's invariant recursively to an
// already-block body (functions are always blocks; nothing to wrap, but
// their statements still need recursive normalization).
func block(b *ast.BlockStatement) {
	if b == nil {
		return
	}
	for i, c := range b.Body {
		b.Body[i] = statement(c, "")
	}
}

// asBlock implements the branch-body-wrap rewrite: if n is already a
// *ast.BlockStatement, it is normalized and returned unchanged; otherwise
// n is wrapped in a synthesized block carrying n's own location, making
// the rewrite idempotent (running it twice wraps once).
func asBlock(n ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	if b, ok := n.(*ast.BlockStatement); ok {
		block(b)
		return b
	}
	wrapped := statement(n, "")
	return &ast.BlockStatement{
		Base: ast.Base{K: ast.KindBlockStatement, L: n.Loc()},
		Body: []ast.Node{wrapped},
	}
}

func ifStatement(s *ast.IfStatement) ast.Node {
	s.Test = expression(s.Test)
	s.Consequent = asBlock(s.Consequent)
	if s.Alternate != nil {
		s.Alternate = asBlock(s.Alternate)
	}
	return s
}

func whileStatement(s *ast.WhileStatement) ast.Node {
	s.Test = expression(s.Test)
	s.Body = asBlock(s.Body)
	return s
}

func doWhileStatement(s *ast.DoWhileStatement) ast.Node {
	s.Test = expression(s.Test)
	s.Body = asBlock(s.Body)
	return s
}

// forStatement applies the branch-body-wrap rewrite then the for-init-hoist
// rewrite: Init is injected as the first statement of the (now
// guaranteed-block) body, and Init itself is cleared from the ForStatement
// so a second normalization pass finds nothing left to hoist.
func forStatement(s *ast.ForStatement) ast.Node {
	s.Test = expression(s.Test)
	s.Update = expression(s.Update)
	body := asBlock(s.Body).(*ast.BlockStatement)
	if s.Init != nil {
		hoisted := statement(s.Init, "")
		body.Body = append([]ast.Node{hoisted}, body.Body...)
		s.Init = nil
	}
	s.Body = body
	return s
}

// forInStatement hoists Left as a pure-key declarator referencing Right.
func forInStatement(s *ast.ForInStatement) ast.Node {
	s.Right = expression(s.Right)
	body := asBlock(s.Body).(*ast.BlockStatement)
	if s.Left != nil {
		hoisted := hoistLoopDeclarator(s.Left, s.Right, true)
		body.Body = append([]ast.Node{hoisted}, body.Body...)
		s.Left = nil
	}
	s.Body = body
	return s
}

func forOfStatement(s *ast.ForOfStatement) ast.Node {
	s.Right = expression(s.Right)
	body := asBlock(s.Body).(*ast.BlockStatement)
	if s.Left != nil {
		hoisted := hoistLoopDeclarator(s.Left, s.Right, false)
		body.Body = append([]ast.Node{hoisted}, body.Body...)
		s.Left = nil
	}
	s.Body = body
	return s
}

// hoistLoopDeclarator synthesizes the for-in/for-of loop variable's Init as
// a pure-key (isKey) or pure-value marker referencing the iterated
// right-hand side, consumed later by inference.
func hoistLoopDeclarator(decl *ast.VariableDeclaration, iterated ast.Node, isKey bool) ast.Node {
	for _, d := range decl.Declarators {
		if isKey {
			d.Init = &ast.PureKey{Base: ast.Base{K: ast.KindPureKey, L: d.Loc()}, Iterated: iterated}
		} else {
			d.Init = &ast.PureValue{Base: ast.Base{K: ast.KindPureValue, L: d.Loc()}, Iterated: iterated}
		}
	}
	return decl
}

// tryStatement applies the try/catch-link rewrite, setting CatchBlock as a
// back-reference to Handler.
func tryStatement(s *ast.TryStatement) ast.Node {
	block(s.Block)
	if s.Handler != nil {
		block(s.Handler.Body)
	}
	block(s.Finalizer)
	s.CatchBlock = s.Handler
	return s
}

// expression recursively normalizes an expression tree. Only
// ArrowFunctionExpression needs a rewrite at this level (the
// arrow-body-lift); every other expression form simply recurses so that
// nested function/arrow bodies reachable through it are normalized.
func expression(n ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	switch e := n.(type) {
	case *ast.ArrowFunctionExpression:
		return arrowFunctionExpression(e)
	case *ast.FunctionExpression:
		block(e.Body)
		return e
	case *ast.ClassExpression:
		for _, m := range e.Body {
			block(m.Body)
		}
		return e
	case *ast.BinaryExpression:
		e.Left = expression(e.Left)
		e.Right = expression(e.Right)
		return e
	case *ast.LogicalExpression:
		e.Left = expression(e.Left)
		e.Right = expression(e.Right)
		return e
	case *ast.UnaryExpression:
		e.Argument = expression(e.Argument)
		return e
	case *ast.UpdateExpression:
		e.Argument = expression(e.Argument)
		return e
	case *ast.AssignmentExpression:
		e.Left = expression(e.Left)
		e.Right = expression(e.Right)
		return e
	case *ast.MemberExpression:
		e.Object = expression(e.Object)
		if e.Computed {
			e.Property = expression(e.Property)
		}
		return e
	case *ast.ConditionalExpression:
		e.Test = expression(e.Test)
		e.Consequent = expression(e.Consequent)
		e.Alternate = expression(e.Alternate)
		return e
	case *ast.CallExpression:
		e.Callee = expression(e.Callee)
		for i, a := range e.Arguments {
			e.Arguments[i] = expression(a)
		}
		return e
	case *ast.NewExpression:
		e.Callee = expression(e.Callee)
		for i, a := range e.Arguments {
			e.Arguments[i] = expression(a)
		}
		return e
	case *ast.ObjectExpression:
		for _, p := range e.Properties {
			p.Value = expression(p.Value)
		}
		return e
	case *ast.SequenceExpression:
		for i, x := range e.Expressions {
			e.Expressions[i] = expression(x)
		}
		return e
	default:
		return n
	}
}

// arrowFunctionExpression lifts an expression body into { return E; },
// preserving E's own location on the synthesized return and the block.
// Already-block bodies are left alone but still normalized recursively,
// so a second pass is a no-op.
func arrowFunctionExpression(e *ast.ArrowFunctionExpression) ast.Node {
	if b, ok := e.Body.(*ast.BlockStatement); ok {
		block(b)
		return e
	}
	body := expression(e.Body)
	ret := &ast.ReturnStatement{Base: ast.Base{K: ast.KindReturnStatement, L: body.Loc()}, Argument: body}
	e.Body = &ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement, L: body.Loc()}, Body: []ast.Node{ret}}
	return e
}
