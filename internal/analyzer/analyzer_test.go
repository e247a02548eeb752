package analyzer

import (
	"testing"

	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/diagnostics"
	"github.com/yifan-blog/hegel/internal/scopegraph"
	"github.com/yifan-blog/hegel/internal/typesystem"
)

func ident(name string, line int) *ast.Identifier {
	return &ast.Identifier{Base: ast.Base{K: ast.KindIdentifier, L: ast.At(line, 0, line, len(name))}, Name: name}
}

func num(v float64, line int) *ast.NumericLiteral {
	return &ast.NumericLiteral{Base: ast.Base{K: ast.KindNumericLiteral, L: ast.At(line, 0, line, 1)}, Value: v}
}

func block(line int, body ...ast.Node) *ast.BlockStatement {
	return &ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement, L: ast.At(line, 0, line+1, 0)}, Body: body}
}

func program(body ...ast.Node) *ast.Program {
	return &ast.Program{Base: ast.Base{K: ast.KindProgram}, Body: body}
}

// const x = 1 + 2; binds x at number, via a single recorded "+" call.
func TestBinaryInitializerResolvesDeclaredType(t *testing.T) {
	plus := &ast.BinaryExpression{Base: ast.Base{K: ast.KindBinaryExpression, L: ast.At(1, 10, 1, 15)}, Operator: "+", Left: num(1, 1), Right: num(2, 1)}
	decl := &ast.VariableDeclarator{Base: ast.Base{K: ast.KindVariableDeclarator, L: ast.At(1, 6, 1, 15)}, ID: ident("x", 1), Init: plus}
	prog := program(&ast.VariableDeclaration{Base: ast.Base{K: ast.KindVariableDeclaration, L: ast.At(1, 0, 1, 16)}, DeclKind: ast.DeclConst, Declarators: []*ast.VariableDeclarator{decl}})

	mod, diags := Build(prog, nil)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}

	info, ok := mod.Lookup("x")
	if !ok {
		t.Fatal("x was not declared in the module scope")
	}
	if info.Type != typesystem.Type(typesystem.Num) {
		t.Errorf("x.Type = %v, want %v", info.Type, typesystem.Num)
	}

	var plusCalls int
	for _, c := range mod.Calls() {
		if c.OperatorLabel == "+" {
			plusCalls++
		}
	}
	if plusCalls != 1 {
		t.Errorf("recorded %d \"+\" call(s), want exactly 1", plusCalls)
	}
}

// function add(a) { return a; } add(42); -- add's signature stays generic
// in its declared form, but the call site's invocation type resolves to
// number via substitution.
func TestGenericFunctionSpecializesAtCallSite(t *testing.T) {
	ret := &ast.ReturnStatement{Base: ast.Base{K: ast.KindReturnStatement, L: ast.At(2, 2, 2, 11)}, Argument: ident("a", 2)}
	fn := &ast.FunctionDeclaration{
		Base:   ast.Base{K: ast.KindFunctionDeclaration, L: ast.At(1, 0, 3, 1)},
		ID:     ident("add", 1),
		Params: []*ast.Parameter{{ID: ident("a", 1)}},
		Body:   block(2, ret),
	}
	call := &ast.CallExpression{
		Base:      ast.Base{K: ast.KindCallExpression, L: ast.At(4, 0, 4, 8)},
		Callee:    ident("add", 4),
		Arguments: []ast.Node{num(42, 4)},
	}
	prog := program(fn, &ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement, L: ast.At(4, 0, 4, 9)}, Expression: call})

	mod, diags := Build(prog, nil)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}

	info, ok := mod.Lookup("add")
	if !ok {
		t.Fatal("add was not declared in the module scope")
	}
	generic, ok := info.Type.(typesystem.GenericType)
	if !ok {
		t.Fatalf("add.Type = %v (%T), want a GenericType", info.Type, info.Type)
	}
	sig, ok := generic.SubordinateType.(typesystem.FunctionType)
	if !ok {
		t.Fatalf("add's SubordinateType = %v, want a FunctionType", generic.SubordinateType)
	}

	var called *typesystem.Type
	for _, c := range mod.Calls() {
		if c.OperatorLabel == "add" {
			got := NewBasicOracle().GetInvocationType(info.Type, c.Arguments)
			called = &got
		}
	}
	if called == nil {
		t.Fatal("add(42) was not recorded as a call against the module scope")
	}
	if (*called) != typesystem.Type(typesystem.Num) {
		t.Errorf("GetInvocationType(add, [number]) = %v, want %v", *called, typesystem.Num)
	}
	if len(sig.ArgumentTypes) != 1 {
		t.Fatalf("len(sig.ArgumentTypes) = %d, want 1", len(sig.ArgumentTypes))
	}
}

// let x; let y; if (x > 0) { y = 1; } -- the test and the assignment both
// record a call against the module scope.
func TestIfStatementRecordsTestAndBodyCalls(t *testing.T) {
	declX := &ast.VariableDeclarator{Base: ast.Base{K: ast.KindVariableDeclarator, L: ast.At(1, 4, 1, 5)}, ID: ident("x", 1)}
	declY := &ast.VariableDeclarator{Base: ast.Base{K: ast.KindVariableDeclarator, L: ast.At(2, 4, 2, 5)}, ID: ident("y", 2)}

	test := &ast.BinaryExpression{Base: ast.Base{K: ast.KindBinaryExpression, L: ast.At(3, 4, 3, 10)}, Operator: ">", Left: ident("x", 3), Right: num(0, 3)}
	assign := &ast.AssignmentExpression{Base: ast.Base{K: ast.KindAssignmentExpression, L: ast.At(3, 13, 3, 18)}, Operator: "=", Left: ident("y", 3), Right: num(1, 3)}
	ifS := &ast.IfStatement{
		Base:       ast.Base{K: ast.KindIfStatement, L: ast.At(3, 0, 3, 20)},
		Test:       test,
		Consequent: block(3, &ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement, L: ast.At(3, 13, 3, 19)}, Expression: assign}),
	}

	prog := program(
		&ast.VariableDeclaration{Base: ast.Base{K: ast.KindVariableDeclaration, L: ast.At(1, 0, 1, 6)}, DeclKind: ast.DeclLet, Declarators: []*ast.VariableDeclarator{declX}},
		&ast.VariableDeclaration{Base: ast.Base{K: ast.KindVariableDeclaration, L: ast.At(2, 0, 2, 6)}, DeclKind: ast.DeclLet, Declarators: []*ast.VariableDeclarator{declY}},
		ifS,
	)

	mod, diags := Build(prog, nil)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}

	seen := map[string]int{}
	for _, c := range mod.Calls() {
		seen[c.OperatorLabel]++
	}
	for _, label := range []string{">", "=", "if"} {
		if seen[label] != 1 {
			t.Errorf("recorded %d %q call(s), want exactly 1", seen[label], label)
		}
	}
}

// try { throw "boom"; } catch (e) { } -- the thrown type is captured by
// the try block's own throwable set, and the catch parameter's type
// resolves from it rather than escalating past the try statement.
func TestTryCatchResolvesCaughtParameterType(t *testing.T) {
	thr := &ast.ThrowStatement{Base: ast.Base{K: ast.KindThrowStatement, L: ast.At(2, 2, 2, 14)}, Argument: &ast.StringLiteral{Base: ast.Base{K: ast.KindStringLiteral, L: ast.At(2, 8, 2, 14)}, Value: "boom"}}
	handlerBody := block(3)
	handler := &ast.CatchClause{Base: ast.Base{K: ast.KindCatchClause, L: ast.At(3, 0, 4, 1)}, Param: ident("e", 3), Body: handlerBody}
	tryS := &ast.TryStatement{
		Base:       ast.Base{K: ast.KindTryStatement, L: ast.At(1, 0, 4, 1)},
		Block:      block(1, thr),
		Handler:    handler,
		CatchBlock: handler,
	}
	prog := program(tryS)

	mod, diags := Build(prog, nil)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %v, want none", diags)
	}

	var sawTryScope bool
	var handlerScope *scopegraph.Scope
	for _, s := range mod.ChildScopes() {
		if s.CatchesBoundary {
			sawTryScope = true
			if len(s.Throwables) != 1 {
				t.Errorf("try block's Throwables = %v, want exactly one entry", s.Throwables)
			}
			continue
		}
		if _, ok := s.Lookup("e"); ok && s.Parent == mod.Scope {
			handlerScope = s
		}
	}
	if !sawTryScope {
		t.Fatal("no try-block scope (CatchesBoundary) was registered as a child of the module scope")
	}
	if handlerScope == nil {
		t.Fatal("handler scope was not registered as a child of the module scope")
	}

	info, ok := handlerScope.Lookup("e")
	if !ok {
		t.Fatal("catch parameter e was not declared in the handler scope")
	}
	if info.Type != typesystem.Type(typesystem.Str) {
		t.Errorf("caught parameter type = %v, want %v", info.Type, typesystem.Str)
	}
}

// not callable: calling a plain string value is an ErrNotCallable
// diagnostic, not a panic.
func TestCallingNonFunctionProducesNotCallableDiagnostic(t *testing.T) {
	decl := &ast.VariableDeclarator{
		Base: ast.Base{K: ast.KindVariableDeclarator, L: ast.At(1, 4, 1, 14)},
		ID:   ident("greeting", 1),
		Init: &ast.StringLiteral{Base: ast.Base{K: ast.KindStringLiteral, L: ast.At(1, 15, 1, 20)}, Value: "hi"},
	}
	call := &ast.CallExpression{Base: ast.Base{K: ast.KindCallExpression, L: ast.At(2, 0, 2, 11)}, Callee: ident("greeting", 2)}
	prog := program(
		&ast.VariableDeclaration{Base: ast.Base{K: ast.KindVariableDeclaration, L: ast.At(1, 0, 1, 20)}, DeclKind: ast.DeclLet, Declarators: []*ast.VariableDeclarator{decl}},
		&ast.ExpressionStatement{Base: ast.Base{K: ast.KindExpressionStatement, L: ast.At(2, 0, 2, 12)}, Expression: call},
	)

	_, diags := Build(prog, nil)
	if len(diags) == 0 {
		t.Fatal("calling a string value produced no diagnostics, want ErrNotCallable")
	}
}

// redeclaring a name in the same scope is flagged rather than silently
// shadowing the first binding.
func TestRedeclarationInSameScopeIsFlagged(t *testing.T) {
	d1 := &ast.VariableDeclarator{Base: ast.Base{K: ast.KindVariableDeclarator, L: ast.At(1, 4, 1, 5)}, ID: ident("x", 1)}
	d2 := &ast.VariableDeclarator{Base: ast.Base{K: ast.KindVariableDeclarator, L: ast.At(2, 4, 2, 5)}, ID: ident("x", 2)}
	prog := program(
		&ast.VariableDeclaration{Base: ast.Base{K: ast.KindVariableDeclaration, L: ast.At(1, 0, 1, 6)}, DeclKind: ast.DeclLet, Declarators: []*ast.VariableDeclarator{d1}},
		&ast.VariableDeclaration{Base: ast.Base{K: ast.KindVariableDeclaration, L: ast.At(2, 0, 2, 6)}, DeclKind: ast.DeclLet, Declarators: []*ast.VariableDeclarator{d2}},
	)

	_, diags := Build(prog, nil)
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want exactly 1 ErrRedeclaration", diags)
	}
}

// { throw "boom"; dead(); } -- Build runs two walker passes over the same
// tree, but the statement following the throw must still be flagged
// exactly once, not once per pass.
func TestUnreachableAfterThrowIsFlaggedExactlyOnceAcrossBothPasses(t *testing.T) {
	thr := &ast.ThrowStatement{
		Base:     ast.Base{K: ast.KindThrowStatement, L: ast.At(1, 2, 1, 14)},
		Argument: &ast.StringLiteral{Base: ast.Base{K: ast.KindStringLiteral, L: ast.At(1, 8, 1, 14)}, Value: "boom"},
	}
	dead := &ast.ExpressionStatement{
		Base:       ast.Base{K: ast.KindExpressionStatement, L: ast.At(2, 2, 2, 8)},
		Expression: ident("dead", 2),
	}
	prog := program(&ast.BlockStatement{Base: ast.Base{K: ast.KindBlockStatement, L: ast.At(1, 0, 3, 1)}, Body: []ast.Node{thr, dead}})

	_, diags := Build(prog, nil)

	var unreachable int
	for _, d := range diags {
		if d.Code == diagnostics.ErrUnreachable {
			unreachable++
		}
	}
	if unreachable != 1 {
		t.Errorf("recorded %d ErrUnreachable diagnostic(s), want exactly 1", unreachable)
	}
}
