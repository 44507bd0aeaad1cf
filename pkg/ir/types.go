package ir

// TypeKind discriminates the closed set of type reference variants.
type TypeKind int

const (
	// TypeSimple is a named type, possibly nullable (e.g. "Widget", "int?").
	TypeSimple TypeKind = iota
	// TypeDynamic is the unknown/any placeholder used when inference gives up.
	TypeDynamic
	// TypeVoid is the absence of a value.
	TypeVoid
	// TypeNever is the bottom type (a throw expression, an aborting call).
	TypeNever
)

// TypeRef is a reference to a type as written in source or inferred by the
// analyzer.
//
// Resolution does not rewrite TypeRefs: the Resolved flag is the only field
// the resolution pass mutates, confirming the name maps to a built-in or a
// declared symbol.
type TypeRef struct {
	Kind     TypeKind `json:"kind"`
	Name     string   `json:"name,omitempty"`
	Nullable bool     `json:"nullable,omitempty"`

	// Resolved is set by the resolution pass when Name maps to a built-in
	// or a declaration in the project's file graph.
	Resolved bool `json:"resolved,omitempty"`
}

// SimpleType constructs a named type reference.
func SimpleType(name string) *TypeRef {
	return &TypeRef{Kind: TypeSimple, Name: name}
}

// NullableType constructs a nullable named type reference.
func NullableType(name string) *TypeRef {
	return &TypeRef{Kind: TypeSimple, Name: name, Nullable: true}
}

// DynamicType constructs the unknown-type placeholder.
func DynamicType() *TypeRef {
	return &TypeRef{Kind: TypeDynamic}
}

// VoidType constructs the void type reference.
func VoidType() *TypeRef {
	return &TypeRef{Kind: TypeVoid}
}

// NeverType constructs the bottom type reference.
func NeverType() *TypeRef {
	return &TypeRef{Kind: TypeNever}
}

// String renders the type reference the way it would appear in source.
func (t *TypeRef) String() string {
	if t == nil {
		return "dynamic"
	}
	switch t.Kind {
	case TypeDynamic:
		return "dynamic"
	case TypeVoid:
		return "void"
	case TypeNever:
		return "never"
	}
	if t.Nullable {
		return t.Name + "?"
	}
	return t.Name
}

// Equal reports structural equality between two type references, ignoring
// the Resolved flag.
func (t *TypeRef) Equal(other *TypeRef) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Kind == other.Kind && t.Name == other.Name && t.Nullable == other.Nullable
}

// builtinTypes are type names the resolver accepts without a declaration.
// These cover the dialect's primitives, core containers, and the framework
// base vocabulary.
var builtinTypes = map[string]bool{
	"int": true, "double": true, "num": true, "bool": true,
	"string": true, "String": true, "number": true, "boolean": true,
	"void": true, "dynamic": true, "never": true, "any": true,
	"Object": true, "List": true, "Map": true, "Set": true, "Array": true,
	"Future": true, "Promise": true, "Stream": true, "Iterable": true,
	"Function": true, "Duration": true, "DateTime": true, "Date": true,

	// Framework surface. Third-party library symbols resolve the same way:
	// as opaque built-ins.
	"Widget": true, "StatelessWidget": true, "StatefulWidget": true,
	"State": true, "BuildContext": true, "Key": true, "Element": true,
	"ChangeNotifier": true, "ValueNotifier": true, "Listenable": true,
	"Observable": true,
	"AnimationController": true, "StreamSubscription": true, "Timer": true,
	"TextEditingController": true, "FocusNode": true, "ScrollController": true,
}

// IsBuiltinType reports whether name needs no project-local declaration.
func IsBuiltinType(name string) bool {
	return builtinTypes[name]
}

// IsNumericType reports whether the type is int, double, or num.
func (t *TypeRef) IsNumericType() bool {
	if t == nil || t.Kind != TypeSimple {
		return false
	}
	switch t.Name {
	case "int", "double", "num", "number":
		return true
	}
	return false
}
