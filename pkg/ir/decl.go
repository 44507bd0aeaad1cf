package ir

import (
	"strings"
	"sync/atomic"
)

// declIDCounter generates process-unique declaration ids. The counter is
// atomic so per-file extraction can run in parallel without coordination.
var declIDCounter atomic.Int64

// NextDeclID returns the next process-unique declaration id. Ids are stable
// for the life of the analysis run.
func NextDeclID() int64 {
	return declIDCounter.Add(1)
}

// Declaration is implemented by every named source-level construct.
type Declaration interface {
	DeclID() int64
	DeclName() string
	Pos() Location
	// Failed reports whether this is a fallback declaration emitted after a
	// recovered extraction failure.
	Failed() bool
}

// DeclBase carries the fields shared by every declaration.
//
// A non-empty ExtractionError marks a fallback declaration: same id, name,
// and location as the construct that failed, empty body, the error text
// attached. One malformed declaration never aborts the file.
type DeclBase struct {
	ID              int64
	Name            string
	Loc             Location
	Doc             string
	Annotations     []string
	ExtractionError string
}

func (b *DeclBase) DeclID() int64    { return b.ID }
func (b *DeclBase) DeclName() string { return b.Name }
func (b *DeclBase) Pos() Location    { return b.Loc }
func (b *DeclBase) Failed() bool     { return b.ExtractionError != "" }

// IsPrivate reports whether the declaration name follows the dialect's
// underscore-private convention.
func (b *DeclBase) IsPrivate() bool {
	return strings.HasPrefix(b.Name, "_")
}

// ImportDirective is `import 'uri' ...` with an optional namespace prefix
// and show/hide symbol filters.
type ImportDirective struct {
	DeclBase
	URI    string
	Prefix string
	Show   []string
	Hide   []string
}

// ExportDirective re-exports symbols from another library.
type ExportDirective struct {
	DeclBase
	URI  string
	Show []string
	Hide []string
}

// PartOfDirective marks the file as part of another library.
type PartOfDirective struct {
	DeclBase
	URI string
}

// VariableDecl is a top-level variable.
type VariableDecl struct {
	DeclBase
	DeclType *TypeRef
	Init     Expr
	IsFinal  bool
	IsConst  bool
}

// Param is one function/method/constructor parameter.
type Param struct {
	Name         string
	DeclType     *TypeRef
	IsOptional   bool
	DefaultValue Expr
}

// FunctionBody holds a function's statement list and, flattened, every
// expression reachable from it. The flattened list lets per-expression
// analyses run without re-walking statements.
type FunctionBody struct {
	Statements  []Stmt
	Expressions []Expr
	IsAsync     bool
}

// ComponentKind is the fixed vocabulary for component-producing
// declarations. The tier that produced the classification is recorded so the
// name-heuristic fallback is never silently mistaken for type-based evidence.
type ComponentKind string

const (
	ComponentKindStateless ComponentKind = "stateless"
	ComponentKindStateful  ComponentKind = "stateful"
	ComponentKindBuilder   ComponentKind = "builder"
	ComponentKindFactory   ComponentKind = "factory"
)

// DetectionTier records how a component classification was reached.
type DetectionTier string

const (
	// TierReturnType means the return-type hierarchy identified the component.
	TierReturnType DetectionTier = "return-type"
	// TierNameHeuristic is the approximate fallback: the name contains
	// "build", "render", or "create". Known source of misclassification.
	TierNameHeuristic DetectionTier = "name-heuristic"
)

// ComponentInfo marks a declaration as component-producing.
type ComponentInfo struct {
	Kind   ComponentKind
	Tier   DetectionTier
	Widget *WidgetNode // structural metadata for build methods, may be nil
}

// WidgetNode is the structural metadata of one widget construction inside a
// build method: constructor name, property map, children.
type WidgetNode struct {
	Name     string
	Props    map[string]Expr
	Children []*WidgetNode
	IsConst  bool
	Loc      Location
}

// FunctionDecl is a top-level function.
type FunctionDecl struct {
	DeclBase
	ReturnType *TypeRef
	Params     []Param
	TypeParams []string
	Body       *FunctionBody
	IsAsync    bool
	Component  *ComponentInfo // non-nil when the function produces a component
}

// MethodDecl is a method owned by a class.
type MethodDecl struct {
	FunctionDecl
	Owner      string
	IsStatic   bool
	IsAbstract bool
	IsGetter   bool
	IsSetter   bool
}

// FieldDecl is a field owned by a class.
type FieldDecl struct {
	DeclBase
	Owner    string
	DeclType *TypeRef
	Init     Expr
	IsFinal  bool
	IsConst  bool
	IsStatic bool
}

// ConstructorDecl is a class constructor. Name is the class name for the
// unnamed constructor, "Class.named" otherwise.
type ConstructorDecl struct {
	DeclBase
	Owner      string
	Params     []Param
	FieldInits map[string]Expr
	IsConst    bool
	IsFactory  bool
}

// ClassDecl is a class with its heritage, members, and modifiers.
//
// The paired-state variant is represented by a non-nil State extension
// rather than a separate node type, so class-shaped consumers need no type
// assertions.
type ClassDecl struct {
	DeclBase
	Superclass   *TypeRef
	Interfaces   []*TypeRef
	Mixins       []*TypeRef
	Fields       []*FieldDecl
	Methods      []*MethodDecl
	Constructors []*ConstructorDecl
	IsAbstract   bool
	IsFinal      bool
	IsSealed     bool
	Component    *ComponentInfo
	State        *StateInfo // non-nil when the class is a paired state object
}

// MethodNamed returns the class's method with the given name, or nil.
func (c *ClassDecl) MethodNamed(name string) *MethodDecl {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// FieldNamed returns the class's field with the given name, or nil.
func (c *ClassDecl) FieldNamed(name string) *FieldDecl {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// StateInfo tracks what the lifecycle and mutation-trigger rules need from a
// paired state object: hook presence, super delegation, disposable resource
// fields, and every setState call site.
type StateInfo struct {
	HasInitState        bool
	InitCallsSuper      bool
	InitIsAsync         bool
	HasDispose          bool
	DisposeCallsSuper   bool
	HasDidUpdate        bool
	DidUpdateCallsSuper bool

	DisposableFields []DisposableField
	SetStateCalls    []SetStateCall
}

// DisposableField is a state field holding a resource that must be released
// in the dispose hook.
type DisposableField struct {
	FieldName    string
	ResourceType string
	Loc          Location
}

// SetStateCall is one aggregated call site of the mutation trigger.
type SetStateCall struct {
	Loc           Location
	InBuild       bool
	InLoop        bool
	IsAsync       bool
	TouchedFields []string
}
