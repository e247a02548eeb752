package normalize

import (
	"testing"

	"github.com/yifan-blog/hegel/internal/ast"
)

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Base: ast.Base{K: ast.KindIdentifier}, Name: name}
}

func TestArrowBodyLiftWrapsExpressionInReturn(t *testing.T) {
	arrow := &ast.ArrowFunctionExpression{
		Base: ast.Base{K: ast.KindArrowFunctionExpression},
		Body: ident("x"),
	}
	prog := &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: []ast.Node{
		&ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement}, Expression: arrow},
	}}

	Program(prog)

	body, ok := arrow.Body.(*ast.BlockStatement)
	if !ok {
		t.Fatalf("arrow.Body = %T, want *ast.BlockStatement", arrow.Body)
	}
	if len(body.Body) != 1 {
		t.Fatalf("len(body.Body) = %d, want 1", len(body.Body))
	}
	ret, ok := body.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("body.Body[0] = %T, want *ast.ReturnStatement", body.Body[0])
	}
	if id, ok := ret.Argument.(*ast.Identifier); !ok || id.Name != "x" {
		t.Errorf("ret.Argument = %v, want identifier x", ret.Argument)
	}
}

func TestBranchBodyWrapWrapsNonBlockConsequent(t *testing.T) {
	assign := &ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement}, Expression: ident("y")}
	ifS := &ast.IfStatement{Base: ast.Base{K: ast.KindIfStatement}, Test: ident("x"), Consequent: assign}
	prog := &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: []ast.Node{ifS}}

	Program(prog)

	block, ok := ifS.Consequent.(*ast.BlockStatement)
	if !ok {
		t.Fatalf("ifS.Consequent = %T, want *ast.BlockStatement", ifS.Consequent)
	}
	if len(block.Body) != 1 || block.Body[0] != ast.Node(assign) {
		t.Errorf("block.Body = %v, want [assign]", block.Body)
	}
}

func TestForInitHoistInjectsDeclarationAsFirstBodyStatement(t *testing.T) {
	decl := &ast.VariableDeclaration{
		Base:        ast.Base{K: ast.KindVariableDeclaration},
		DeclKind:    ast.DeclLet,
		Declarators: []*ast.VariableDeclarator{{Base: ast.Base{K: ast.KindVariableDeclarator}, ID: ident("i")}},
	}
	bodyStmt := &ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement}, Expression: ident("s")}
	forS := &ast.ForStatement{
		Base: ast.Base{K: ast.KindForStatement},
		Init: decl,
		Test: ident("cond"),
		Body: &ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement}, Body: []ast.Node{bodyStmt}},
	}
	prog := &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: []ast.Node{forS}}

	Program(prog)

	if forS.Init != nil {
		t.Error("forS.Init was not cleared after hoisting")
	}
	body := forS.Body.(*ast.BlockStatement)
	if len(body.Body) != 2 {
		t.Fatalf("len(body.Body) = %d, want 2", len(body.Body))
	}
	if body.Body[0] != ast.Node(decl) {
		t.Error("hoisted declaration is not the first body statement")
	}
}

func TestForOfHoistSynthesizesPureValueInit(t *testing.T) {
	decl := &ast.VariableDeclaration{
		Base:        ast.Base{K: ast.KindVariableDeclaration},
		DeclKind:    ast.DeclLet,
		Declarators: []*ast.VariableDeclarator{{Base: ast.Base{K: ast.KindVariableDeclarator}, ID: ident("v")}},
	}
	iterated := ident("items")
	forOf := &ast.ForOfStatement{
		Base:  ast.Base{K: ast.KindForOfStatement},
		Left:  decl,
		Right: iterated,
		Body:  &ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement}},
	}
	prog := &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: []ast.Node{forOf}}

	Program(prog)

	if _, ok := decl.Declarators[0].Init.(*ast.PureValue); !ok {
		t.Fatalf("declarator Init = %T, want *ast.PureValue", decl.Declarators[0].Init)
	}
}

func TestExportNamedDeclarationUnwrapsAndAnnotates(t *testing.T) {
	fn := &ast.FunctionDeclaration{
		Base: ast.Base{K: ast.KindFunctionDeclaration},
		ID:   ident("helper"),
		Body: &ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement}},
	}
	export := &ast.ExportNamedDeclaration{Base: ast.Base{K: ast.KindExportNamedDeclaration}, Declaration: fn}
	prog := &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: []ast.Node{export}}

	Program(prog)

	if fn.ExportAs != "helper" {
		t.Errorf("fn.ExportAs = %q, want %q", fn.ExportAs, "helper")
	}
}

func TestTryCatchLinkSetsBackReference(t *testing.T) {
	handler := &ast.CatchClause{Base: ast.Base{K: ast.KindCatchClause}, Body: &ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement}}}
	tryS := &ast.TryStatement{
		Base:    ast.Base{K: ast.KindTryStatement},
		Block:   &ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement}},
		Handler: handler,
	}
	prog := &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: []ast.Node{tryS}}

	Program(prog)

	if tryS.CatchBlock != handler {
		t.Error("tryS.CatchBlock was not linked to Handler")
	}
}

func TestNormalizationIsIdempotent(t *testing.T) {
	arrow := &ast.ArrowFunctionExpression{Base: ast.Base{K: ast.KindArrowFunctionExpression}, Body: ident("x")}
	ifS := &ast.IfStatement{Base: ast.Base{K: ast.KindIfStatement}, Test: ident("t"), Consequent: &ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement}, Expression: ident("y")}}
	prog := &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: []ast.Node{
		&ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement}, Expression: arrow},
		ifS,
	}}

	Program(prog)
	firstConsequent := ifS.Consequent
	firstArrowBody := arrow.Body

	Program(prog)

	if ifS.Consequent != firstConsequent {
		t.Error("second normalization pass re-wrapped an already-normalized if-branch")
	}
	if arrow.Body != firstArrowBody {
		t.Error("second normalization pass re-lifted an already-normalized arrow body")
	}
}
