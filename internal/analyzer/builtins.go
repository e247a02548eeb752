package analyzer

import (
	"github.com/yifan-blog/hegel/internal/config"
	"github.com/yifan-blog/hegel/internal/scopegraph"
	"github.com/yifan-blog/hegel/internal/typesystem"
)

// mixBaseGlobals seeds the module scope with its global value bindings,
// populating a fresh scope with a fixed table of names before traversal
// begins.
func mixBaseGlobals(mod *scopegraph.ModuleScope) {
	mod.Declare(config.GlobalUndefined, &scopegraph.VariableInfo{Type: typesystem.Undefined})
	mod.Declare(config.GlobalNaN, &scopegraph.VariableInfo{Type: typesystem.Num})
	mod.Declare(config.GlobalInfinity, &scopegraph.VariableInfo{Type: typesystem.Num})
}

// mixBaseOperators seeds one VariableInfo per operator label reduceToCall
// can target: arithmetic/comparison/logical binary operators, unary and
// update operators, and the pseudo-operators standing in for assignment,
// member access, the conditional expression, `new`, and every
// control-flow construct. Every operator label used by reduceToCall must
// be resolvable in the module or its ancestor, and this function is the
// sole place that seeding happens.
func mixBaseOperators(mod *scopegraph.ModuleScope) {
	num := typesystem.Num
	str := typesystem.Str
	boolean := typesystem.Bool
	mixed := typesystem.Mixed
	undef := typesystem.Undefined
	void := typesystem.Void

	declareFn := func(label string, args []typesystem.Type, ret typesystem.Type) {
		mod.Declare(label, &scopegraph.VariableInfo{
			Type: typesystem.FunctionType{ArgumentTypes: args, ReturnType: ret},
		})
	}

	// Arithmetic: polymorphic in practice (string concatenation via "+"),
	// modeled with mixed operands/result rather than a per-overload
	// function-type set; checkCalls is the seam a fuller implementation
	// would extend with overload selection.
	for _, op := range []string{"+", "-", "*", "/", "%", "**"} {
		declareFn(op, []typesystem.Type{mixed, mixed}, num)
	}
	for _, op := range []string{"==", "!=", "===", "!==", "<", "<=", ">", ">="} {
		declareFn(op, []typesystem.Type{mixed, mixed}, boolean)
	}
	for _, op := range []string{"&&", "||", "??"} {
		declareFn(op, []typesystem.Type{mixed, mixed}, mixed)
	}
	for _, op := range []string{"&", "|", "^", "<<", ">>", ">>>"} {
		declareFn(op, []typesystem.Type{num, num}, num)
	}
	for _, op := range []string{"!", "typeof", "void", "~"} {
		declareFn(op, []typesystem.Type{mixed}, boolean)
	}
	declareFn("-u", []typesystem.Type{num}, num) // unary minus, distinct label from binary "-"
	declareFn("+u", []typesystem.Type{mixed}, num)
	for _, op := range []string{"++", "--"} {
		declareFn(op, []typesystem.Type{num}, num)
	}
	for _, op := range []string{"+=", "-=", "*=", "/=", "%=", "**="} {
		declareFn(op, []typesystem.Type{mixed, mixed}, mixed)
	}
	for _, op := range []string{"in", "instanceof"} {
		declareFn(op, []typesystem.Type{mixed, mixed}, boolean)
	}
	declareFn("delete", []typesystem.Type{mixed}, boolean)
	for _, op := range []string{"<<=", ">>=", ">>>=", "&=", "|=", "^=", "&&=", "||=", "??="} {
		declareFn(op, []typesystem.Type{mixed, mixed}, mixed)
	}

	declareFn(config.OpAssign, []typesystem.Type{mixed, mixed}, mixed)
	declareFn(config.OpMember, []typesystem.Type{mixed, str}, mixed)
	declareFn(config.OpComputed, []typesystem.Type{mixed, mixed}, mixed)
	declareFn(config.OpCond, []typesystem.Type{boolean, mixed, mixed}, mixed)
	declareFn(config.OpNew, []typesystem.Type{mixed}, mixed)
	declareFn(config.OpIf, []typesystem.Type{boolean}, void)
	declareFn(config.OpWhile, []typesystem.Type{boolean}, void)
	declareFn(config.OpDoWhile, []typesystem.Type{boolean}, void)
	declareFn(config.OpFor, []typesystem.Type{mixed, mixed, mixed}, void)
	declareFn(config.OpThrow, []typesystem.Type{mixed}, void)
	declareFn(config.OpReturn, []typesystem.Type{mixed}, undef)
}
