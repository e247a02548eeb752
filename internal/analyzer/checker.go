package analyzer

import (
	"github.com/yifan-blog/hegel/internal/diagnostics"
	"github.com/yifan-blog/hegel/internal/scopegraph"
)

// checkCalls validates every CallMeta recorded directly against scope and
// appends an ErrNotCallable diagnostic for any whose target isn't a
// function type or a generic wrapping one. It does not recurse into child
// scopes: only function-kind scopes (and the module scope) ever
// accumulate calls, so every CallMeta lives in exactly one such scope.
// This is called once per function scope as Pass 2's function-like late
// operation, and once more over the module scope itself as the driver's
// final whole-module call check, together covering every recorded call
// exactly once. typeScope is accepted to match spec §6's documented
// collaborator interface (`checkCalls(scope, typeScope, errors)`); a
// fuller call checker doing overload selection on operator targets would
// need it to resolve parameter/argument types, but BasicOracle's
// single-signature function types don't require it here.
func checkCalls(scope, typeScope *scopegraph.Scope, errs *[]*diagnostics.DiagnosticError) {
	_ = typeScope
	for _, c := range scope.Calls() {
		if c.Target == nil || isCallableType(c.Target.Type) {
			continue
		}
		*errs = append(*errs, diagnostics.New(diagnostics.PhaseCheck, diagnostics.ErrNotCallable, c.Location, c.OperatorLabel))
	}
}
