package checker

// SymbolKind distinguishes where a symbol is bound.
type SymbolKind int

const (
	// MemberDef is a class-body member.
	MemberDef SymbolKind = iota
	// GlobalDef is a module-level definition.
	GlobalDef
)

// SymbolNode is anything a symbol table entry can point at: a variable
// or a class definition.
type SymbolNode interface {
	Fullname() string
}

// SymbolTableNode wraps a symbol with its binding metadata. Entries the
// plugin synthesizes carry PluginGenerated so downstream passes can tell
// them from user-written members.
type SymbolTableNode struct {
	Kind            SymbolKind
	Node            SymbolNode
	PluginGenerated bool
}

// TypeInfo returns the entry's class definition, or nil when the entry
// is not a type definition. Lookup callers use this to distinguish
// "resolved to a class" from "resolved to something else".
func (n *SymbolTableNode) TypeInfo() *TypeInfo {
	if n == nil {
		return nil
	}
	info, _ := n.Node.(*TypeInfo)
	return info
}

// Var returns the entry's variable node, or nil.
func (n *SymbolTableNode) Var() *Var {
	if n == nil {
		return nil
	}
	v, _ := n.Node.(*Var)
	return v
}

// SymbolTable maps attribute or global names to their symbols.
type SymbolTable map[string]*SymbolTableNode

// Var is a declared or inferred variable. For synthetic class members,
// Info points at the class the member was injected into.
type Var struct {
	Name                 string
	Type                 Type
	Info                 *TypeInfo
	IsInitializedInClass bool
	IsInferred           bool

	fullname string
}

func NewVar(name string, typ Type) *Var {
	return &Var{Name: name, Type: typ}
}

func (v *Var) Fullname() string { return v.fullname }

// BindToClass attaches the variable to its owning class and derives the
// variable's fully qualified name from it.
func (v *Var) BindToClass(info *TypeInfo) {
	v.Info = info
	v.fullname = info.Fullname() + "." + v.Name
}

// TypeInfo is the resolved form of one class definition: its members,
// bases and checker flags. Every model class, field class stub and
// manager class stub is represented by one of these.
type TypeInfo struct {
	Name  string
	Bases []*TypeInfo
	Names SymbolTable

	// FallbackToAny makes any unresolvable or incompatible base of this
	// class behave as Any. Set on nested Meta classes so each model can
	// declare its own unrelated Meta.
	FallbackToAny bool

	fullname string
}

func NewTypeInfo(name, fullname string, bases ...*TypeInfo) *TypeInfo {
	return &TypeInfo{
		Name:     name,
		Bases:    bases,
		Names:    make(SymbolTable),
		fullname: fullname,
	}
}

func (ti *TypeInfo) Fullname() string { return ti.fullname }

// Get looks up a directly declared member.
func (ti *TypeInfo) Get(name string) *SymbolTableNode {
	if ti == nil {
		return nil
	}
	return ti.Names[name]
}

// HasReadableMember reports whether name resolves on this class or any
// class in its MRO.
func (ti *TypeInfo) HasReadableMember(name string) bool {
	if ti == nil {
		return false
	}
	seen := make(map[*TypeInfo]bool)
	return ti.hasMember(name, seen)
}

func (ti *TypeInfo) hasMember(name string, seen map[*TypeInfo]bool) bool {
	if ti == nil || seen[ti] {
		return false
	}
	seen[ti] = true
	if _, ok := ti.Names[name]; ok {
		return true
	}
	for _, base := range ti.Bases {
		if base.hasMember(name, seen) {
			return true
		}
	}
	return false
}

// NestedClass returns the TypeInfo of a class declared in this class
// body (e.g. the inner Meta), or nil.
func (ti *TypeInfo) NestedClass(name string) *TypeInfo {
	return ti.Get(name).TypeInfo()
}

// Instance builds an instance type of this class.
func (ti *TypeInfo) Instance(args ...Type) *Instance {
	return &Instance{Type: ti, Args: args}
}

// ClassDef is one user-written class definition under analysis. Info is
// the mutable symbol environment every initializer injects into; the
// analyzer owns it, the plugin borrows it for the duration of one call.
type ClassDef struct {
	Name     string
	Fullname string
	Info     *TypeInfo
	File     string
	Line     int
}
