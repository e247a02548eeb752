package analyzer

import (
	"github.com/yifan-blog/hegel/internal/ast"
	"github.com/yifan-blog/hegel/internal/diagnostics"
)

// report appends a shape-error diagnostic rather than aborting traversal,
// collecting analyzer errors instead of panicking.
func (b *Builder) report(phase diagnostics.Phase, code diagnostics.ErrorCode, node ast.Node, args ...interface{}) {
	b.Diagnostics = append(b.Diagnostics, diagnostics.New(phase, code, node.Loc(), args...))
}
