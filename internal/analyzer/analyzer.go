// Package analyzer's driver ties built-in seeding, the two walker passes,
// and the whole-module call check together, the way a multi-pass analyzer
// orchestrates naming/header/instance/body passes over one symbol table.
package analyzer

import (
	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/diagnostics"
	"github.com/yifan-blog/hegel/internal/scopegraph"
	"github.com/yifan-blog/hegel/internal/typesystem"
	"github.com/yifan-blog/hegel/internal/walker"
)

// Builder holds the mutable state threaded through both passes: the module
// scope under construction, the inference oracle, the diagnostics
// accumulated so far, and a map from each scope-opening AST node (the
// program, blocks, functions and their bodies, classes, try blocks and
// catch bodies) to the Scope it opens — populated during Pass 1 and
// consumed, unchanged, by Pass 2. Any other node resolves to the module
// scope through scopeAt.
type Builder struct {
	Module      *scopegraph.ModuleScope
	Oracle      Oracle
	Diagnostics []*diagnostics.DiagnosticError

	scopeOf     map[ast.Node]*scopegraph.Scope
	anonCounter int

	// reduced memoizes reduceToCall's result per node (Pass 2), so that a
	// sub-expression reduced once as another node's argument (e.g. a binary
	// test feeding an "if" call) is not re-reduced, and its CallMeta not
	// re-recorded, when the walker's own post-order visit reaches that same
	// node directly.
	reduced map[ast.Node]typesystem.Type

	// staticMemberProperty marks a MemberExpression's Property identifier
	// node when access is non-computed, so Pass 2 treats it as the raw
	// property name rather than resolving it as a variable reference.
	// Populated during Pass 1 (declarePre), read during Pass 2.
	staticMemberProperty map[ast.Node]bool
}

// New creates a Builder with a fresh, seeded module scope.
func New(oracle Oracle) *Builder {
	if oracle == nil {
		oracle = NewBasicOracle()
	}
	mod := scopegraph.NewModuleScope()
	mixBaseGlobals(mod)
	mixBaseOperators(mod)
	return &Builder{
		Module:               mod,
		Oracle:               oracle,
		scopeOf:              make(map[ast.Node]*scopegraph.Scope),
		reduced:              make(map[ast.Node]typesystem.Type),
		staticMemberProperty: make(map[ast.Node]bool),
	}
}

// Build runs the builder over an already-normalized program (normalize →
// walker/Pass 1 → walker/Pass 2 → checker → diagnostics), returning the
// populated module scope and the ordered diagnostics list. prog is
// expected to already have gone through normalize.Program; Build does not
// re-normalize it, folding that step into one upfront pass.
func Build(prog *ast.Program, oracle Oracle) (*scopegraph.ModuleScope, []*diagnostics.DiagnosticError) {
	b := New(oracle)
	b.scopeOf[ast.Node(prog)] = b.Module.Scope

	declareWalker := walker.New()
	declareWalker.Pre = b.declarePre
	declareWalker.DetectUnreachable = true
	declareWalker.Walk(prog, nil)
	b.Diagnostics = append(b.Diagnostics, declareWalker.Diagnostics()...)

	inferWalker := walker.New()
	inferWalker.Post = b.inferPost
	inferWalker.Walk(prog, nil)
	b.Diagnostics = append(b.Diagnostics, inferWalker.Diagnostics()...)

	checkCalls(b.Module.Scope, b.Module.Scope.TypeScope(), &b.Diagnostics)

	return b.Module, b.Diagnostics
}

// scopeAt resolves the Scope a node given as a walker "parent" argument
// executes in, defaulting to the module scope when parent is nil (the
// walker's own convention for the program root).
func (b *Builder) scopeAt(parent ast.Node) *scopegraph.Scope {
	if parent == nil {
		return b.Module.Scope
	}
	if s, ok := b.scopeOf[parent]; ok {
		return s
	}
	return b.Module.Scope
}

// scopeKey derives a stable scope key from a node's own source location.
func scopeKey(n ast.Node) string {
	return n.Loc().Key()
}
