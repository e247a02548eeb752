// Package walker implements a generic depth-first traversal: a single
// recursive descent receiving pre/middle/post visitor callbacks,
// recomputing the effective parent scope as it descends, and converting a
// non-last sibling's unreachable-control-flow signal into a diagnostic.
// A single generic recursion driven by ast.Node.Children() replaces a
// per-node-kind Visitor dispatch, since one traversal engine is reused
// across both passes rather than a pass-specific visitor implementation
// per AST node kind.
package walker

import (
	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/diagnostics"
)

// PreFunc is invoked before a node's children are visited. Returning false
// prunes the subtree.
type PreFunc func(n, parent ast.Node) bool

// MiddleFunc is invoked once per child, in source order, before that child
// is recursed into.
type MiddleFunc func(n, parent ast.Node)

// PostFunc is invoked after a node's children have all been visited.
type PostFunc func(n, parent ast.Node)

// Walker holds the three optional visitor callbacks for one traversal.
// The same traversal engine supports being invoked twice to thread two
// passes over the same tree by simply leaving unused callbacks nil.
type Walker struct {
	Pre    PreFunc
	Middle MiddleFunc
	Post   PostFunc

	// DetectUnreachable gates the sibling unreachable-code check: the
	// scope graph is built from exactly two Walk calls over the same
	// tree (Pass 1, then Pass 2), and a construct's Terminates-ness
	// doesn't change between them, so leaving this on for both would
	// report the identical diagnostic twice. Only the walk driving Pass 1
	// sets this.
	DetectUnreachable bool

	diagnostics []*diagnostics.DiagnosticError
}

// New creates a Walker with no callbacks set; assign Pre/Middle/Post before
// calling Walk.
func New() *Walker {
	return &Walker{}
}

// Diagnostics returns the unreachable-code diagnostics accumulated across
// every Walk call made on this Walker.
func (w *Walker) Diagnostics() []*diagnostics.DiagnosticError {
	return w.diagnostics
}

// Walk performs one depth-first descent from n (with the given starting
// parent, typically nil for the module Program), returning whether n
// itself terminates control flow (so that a caller walking n's own
// siblings can apply the unreachable-code rule at that level too).
func (w *Walker) Walk(n, parent ast.Node) bool {
	if n == nil {
		return false
	}
	if w.Pre != nil && !w.Pre(n, parent) {
		return false
	}

	children := n.Children()
	for i, c := range children {
		effParent := effectiveParent(n, parent, c)
		if w.Middle != nil {
			w.Middle(c, effParent)
		}
		childTerminates := w.Walk(c, effParent)
		if w.DetectUnreachable && childTerminates && i < len(children)-1 {
			w.diagnostics = append(w.diagnostics, diagnostics.New(
				diagnostics.PhaseDeclare, diagnostics.ErrUnreachable, children[i+1].Loc(),
			))
		}
	}

	if w.Post != nil {
		w.Post(n, parent)
	}
	return Terminates(n)
}

// effectiveParent implements the parent-propagation rule: the current
// node becomes the effective parent for child c when n is a scope creator
// and c is not one itself, or when c is n's function body; otherwise the
// parent is unchanged.
func effectiveParent(n, parent, c ast.Node) ast.Node {
	if ast.IsScopeCreator(n.Kind()) && !ast.IsScopeCreator(c.Kind()) {
		return n
	}
	if b := functionBodyOf(n); b != nil && b == c {
		return n
	}
	return parent
}

func functionBodyOf(n ast.Node) ast.Node {
	switch v := n.(type) {
	case *ast.FunctionDeclaration:
		return v.Body
	case *ast.FunctionExpression:
		return v.Body
	case *ast.ArrowFunctionExpression:
		return v.Body
	case *ast.MethodDefinition:
		return v.Body
	default:
		return nil
	}
}

// Terminates reports whether executing n always diverts control flow past
// whatever would otherwise follow it: a value returned by the child's
// traversal, not an exception. It is a pure function of n's own shape,
// not of Walk's recursion, so Pass 1 (which never calls Walk with a Post)
// and Pass 2 observe the identical rule.
func Terminates(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.ReturnStatement, *ast.ThrowStatement, *ast.BreakStatement, *ast.ContinueStatement:
		return true
	case *ast.BlockStatement:
		if len(v.Body) == 0 {
			return false
		}
		return Terminates(v.Body[len(v.Body)-1])
	case *ast.IfStatement:
		if v.Alternate == nil {
			return false
		}
		return Terminates(v.Consequent) && Terminates(v.Alternate)
	case *ast.TryStatement:
		if v.Finalizer != nil && Terminates(v.Finalizer) {
			return true
		}
		blockTerminates := Terminates(v.Block)
		if v.Handler == nil {
			return blockTerminates
		}
		return blockTerminates && Terminates(v.Handler.Body)
	default:
		return false
	}
}
