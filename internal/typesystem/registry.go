package typesystem

// Registry interns types by their canonical name within a single type
// scope, so that two references to the same name (e.g. two uses of a
// module-level class name) resolve to the identical Type value instead of
// structurally-equal copies.
type Registry struct {
	byName map[string]Type
}

func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Type)}
}

// Intern returns the previously-registered type for name if one exists,
// otherwise registers and returns t.
func (r *Registry) Intern(name string, t Type) Type {
	if existing, ok := r.byName[name]; ok {
		return existing
	}
	r.byName[name] = t
	return t
}

// Lookup returns the interned type for name, if any.
func (r *Registry) Lookup(name string) (Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Replace forcibly overwrites the interned type for name.
func (r *Registry) Replace(name string, t Type) {
	r.byName[name] = t
}

// Names returns every interned name. The order follows Go map iteration
// and is not sorted or stable between calls.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}
	return names
}

// Builtin primitive singletons, package-level values shared by every module.
var (
	Undefined = PrimitiveType{Name: "undefined"}
	Mixed     = PrimitiveType{Name: "mixed"}
	Str       = PrimitiveType{Name: "string"}
	Num       = PrimitiveType{Name: "number"}
	Bool      = PrimitiveType{Name: "boolean"}
	Null      = PrimitiveType{Name: "null"}
	Void      = PrimitiveType{Name: "void"}
)
