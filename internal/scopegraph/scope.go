// Package scopegraph implements a tree of lexical Scopes rooted at a
// ModuleScope, each holding variable declarations and recorded calls,
// with a parallel type-scope chain addressed through a reserved sentinel
// key. Lookup walks the outer chain the way a symbol table's Find does,
// generalized from a single flat store to a declaration/body/meta split.
package scopegraph

import (
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/yifan-blog/hegel/internal/config"
	"github.com/yifan-blog/hegel/internal/position"
	"github.com/yifan-blog/hegel/internal/typesystem"
)

// Kind classifies what kind of construct opened a Scope.
type Kind string

const (
	KindBlock    Kind = "BLOCK"
	KindFunction Kind = "FUNCTION"
	KindObject   Kind = "OBJECT"
	KindClass    Kind = "CLASS"
)

// CallMeta records one reduceToCall reduction: the callee variable, its
// argument types in order, the source location of the reduced form, and
// the operator label when the call stands in for an operator or
// control-flow construct rather than an explicit call expression.
type CallMeta struct {
	Target        *VariableInfo
	Arguments     []typesystem.Type
	Location      position.Loc
	OperatorLabel string
}

// Meta carries auxiliary per-declaration bookkeeping that is neither a
// type nor a nested scope: whether a function is async/generator-like is
// outside this language's scope, so Meta today only tracks the fields the
// walker and checker need to reconstruct provenance.
type Meta struct {
	DeclaredAt position.Loc
	Exported   bool
	ExportAs   string
}

// VariableInfo is one binding inside a Scope's body: a mutable Type slot
// (mutable because Pass 2 fills it in for forward/generic declarations),
// the scope that owns the binding, auxiliary Meta, and the throwable set —
// the ordered sequence of types that may escape a scope via exception,
// present only on function-like declarations.
type VariableInfo struct {
	Type        typesystem.Type
	ParentScope *Scope
	Meta        Meta
	Throwable   []typesystem.Type
}

// Scope is one lexical node in the scope graph: a kind, a parent pointer,
// a body of declarations, the calls recorded against this scope by
// reduceToCall, and whether this scope (or something it encloses) can
// throw.
type Scope struct {
	ScopeKind Kind
	Parent    *Scope
	Key       string // derived from the opening node's Loc

	body  map[string]*VariableInfo
	calls []CallMeta

	// children holds every inner scope opened directly inside this one,
	// kept as a typed slice rather than folded into the VariableInfo map:
	// Go has no built-in sum type to store "VariableInfo | *Scope" under
	// one map value without a wrapper/interface{} box and a type switch at
	// every read, so this keeps the common VariableInfo lookup path
	// (Lookup/IsLocallyDeclared) simply typed while still giving callers
	// that need every reachable scope (the whole-module call check) a way
	// to enumerate them.
	children []*Scope

	// Throwables is the ordered set of types that may escape this scope
	// via exception; nil/empty means "throws propagate past me" for a
	// scope that does not itself catch or aggregate them.
	Throwables []typesystem.Type

	// CatchesBoundary marks a try block's scope as a throw-capture
	// boundary, distinct from an ordinary block that simply lets its
	// throwables propagate. Set by Pass 1 on a try statement's block scope
	// only; function scopes capture throws through their FUNCTION kind
	// instead (see NearestThrowableScope).
	CatchesBoundary bool

	// Declaration is the VariableInfo whose definition opened this scope
	// (for function/class scopes); nil for plain block scopes and the
	// module root.
	Declaration *VariableInfo

	// typeScope is this scope's parallel type scope, created lazily by
	// TypeScope(); it is an unexported field rather than an entry in body,
	// and its Key is this scope's Key suffixed with config.TypeScopeKey.
	typeScope *Scope

	// registry interns types by canonical name for this scope, populated
	// only on scopes reached via TypeScope().
	registry *typesystem.Registry
}

// NewScope creates a scope of the given kind under parent, keyed by the
// opening node's location.
func NewScope(kind Kind, parent *Scope, key string) *Scope {
	s := &Scope{
		ScopeKind: kind,
		Parent:    parent,
		Key:       key,
		body:      make(map[string]*VariableInfo),
	}
	return s
}

// TypeScope returns this scope's parallel type scope, creating it on first
// access the way the declaration pass lazily opens a type scope only when a
// type annotation is actually encountered.
func (s *Scope) TypeScope() *Scope {
	if s.typeScope == nil {
		var outerType *Scope
		if s.Parent != nil {
			outerType = s.Parent.TypeScope()
		}
		s.typeScope = NewScope(KindBlock, outerType, s.Key+config.TypeScopeKey)
		s.typeScope.registry = typesystem.NewRegistry()
	}
	return s.typeScope
}

// Registry returns this scope's interning table, creating one on first use.
// Meaningful only on a scope reached through TypeScope(); a value scope's
// own registry is never consulted.
func (s *Scope) Registry() *typesystem.Registry {
	if s.registry == nil {
		s.registry = typesystem.NewRegistry()
	}
	return s.registry
}

// LookupType walks this type scope's own parent chain for name, the type-
// scope analog of Lookup: a type alias bound in an outer type scope (e.g.
// a module-level `type Box = {...}`) must be visible from an inner
// function's type scope, the same way an outer variable is visible from
// an inner value scope. s is expected to be a scope reached through
// TypeScope(), not an ordinary value scope.
func (s *Scope) LookupType(name string) (typesystem.Type, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if t, ok := cur.Registry().Lookup(name); ok {
			return t, true
		}
	}
	return nil, false
}

// Declare adds name to this scope's body. Redeclaration in the same scope
// is the caller's responsibility to detect (ErrRedeclaration) before
// calling Declare a second time.
func (s *Scope) Declare(name string, info *VariableInfo) {
	info.ParentScope = s
	s.body[name] = info
}

// Lookup walks the outer chain starting at s, returning the nearest
// enclosing binding for name.
func (s *Scope) Lookup(name string) (*VariableInfo, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if info, ok := cur.body[name]; ok {
			return info, true
		}
	}
	return nil, false
}

// AddChild registers c as an inner scope reachable from s.
func (s *Scope) AddChild(c *Scope) {
	s.children = append(s.children, c)
}

// ChildScopes returns the inner scopes opened directly inside s, in the
// order they were created.
func (s *Scope) ChildScopes() []*Scope {
	return s.children
}

// LocalNames returns the names declared directly in this scope (not
// outer scopes), sorted for deterministic diagnostic and test output.
func (s *Scope) LocalNames() []string {
	names := maps.Keys(s.body)
	slices.Sort(names)
	return names
}

// IsLocallyDeclared reports whether name is declared directly in this
// scope, without walking outward — used by the redeclaration check, which
// must not flag shadowing of an outer binding as an error.
func (s *Scope) IsLocallyDeclared(name string) bool {
	_, ok := s.body[name]
	return ok
}

// RecordCall appends a CallMeta to s itself. It does not walk outward:
// callers are expected to have already walked up to the nearest
// function/module scope before calling RecordCall.
func (s *Scope) RecordCall(c CallMeta) {
	s.calls = append(s.calls, c)
}

// Calls returns the calls recorded directly against this scope.
func (s *Scope) Calls() []CallMeta {
	return s.calls
}

// NearestThrowableScope walks outward for the nearest scope a thrown type
// is captured by: a try block (CatchesBoundary), a function scope, or the
// module root. A throw inside a try block is captured by the try block's
// throwable list; a throw outside any try escalates to the enclosing
// function scope.
func (s *Scope) NearestThrowableScope() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.CatchesBoundary || cur.ScopeKind == KindFunction || cur.Parent == nil {
			return cur
		}
	}
	return s
}

// MarkThrowable appends t to the throwable set of s's nearest throwable
// scope (a try block, a function scope, or the module root, as found by
// NearestThrowableScope). Throwable effects bubble through try
// blocks, function scopes, and callee throwables into the caller's
// nearest throwable scope. Duplicate types (by canonical name) are not
// appended twice.
func (s *Scope) MarkThrowable(t typesystem.Type) {
	target := s.NearestThrowableScope()
	for _, existing := range target.Throwables {
		if existing.String() == t.String() {
			return
		}
	}
	target.Throwables = append(target.Throwables, t)
}

// IsThrowable reports whether this scope's own throwable set is non-empty.
func (s *Scope) IsThrowable() bool {
	return len(s.Throwables) > 0
}

// ModuleScope is the root of the scope graph, one per analyzed module.
// BuildID is a diagnostic handle distinguishing one builder run
// from another when diagnostics from several modules are aggregated by a
// caller (e.g. an editor integration watching several files); it carries no
// semantic weight to the analysis itself.
type ModuleScope struct {
	*Scope
	BuildID uuid.UUID
}

// NewModuleScope creates the root scope for a module.
func NewModuleScope() *ModuleScope {
	return &ModuleScope{
		Scope:   NewScope(KindBlock, nil, "<module>"),
		BuildID: uuid.New(),
	}
}
