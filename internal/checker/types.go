package checker

import "strings"

// Type is the checker's rendering-level view of a declared type. The
// plugin only constructs types; it never infers them, so the surface is
// deliberately small.
type Type interface {
	String() string
}

// Instance is a concrete class type, optionally parameterized,
// e.g. Manager[myapp.models.Author] or AutoField[int, int].
type Instance struct {
	Type *TypeInfo
	Args []Type
}

func (i *Instance) String() string {
	if i == nil || i.Type == nil {
		return "<bad instance>"
	}
	if len(i.Args) == 0 {
		return i.Type.Fullname()
	}
	parts := make([]string, 0, len(i.Args))
	for _, arg := range i.Args {
		parts = append(parts, arg.String())
	}
	return i.Type.Fullname() + "[" + strings.Join(parts, ", ") + "]"
}

// AnyType is the checker's untyped escape hatch.
type AnyType struct{}

func (AnyType) String() string { return "Any" }

// NoneType is the type of Python's None.
type NoneType struct{}

func (NoneType) String() string { return "None" }

// UnionType is a union of alternatives. Nullable attributes are
// expressed as Union[T, None].
type UnionType struct {
	Items []Type
}

func (u *UnionType) String() string {
	parts := make([]string, 0, len(u.Items))
	for _, item := range u.Items {
		parts = append(parts, item.String())
	}
	return "Union[" + strings.Join(parts, ", ") + "]"
}

// Optional wraps t into Union[t, None] unless it already is one.
func Optional(t Type) Type {
	if u, ok := t.(*UnionType); ok {
		for _, item := range u.Items {
			if _, isNone := item.(NoneType); isNone {
				return u
			}
		}
		items := append(append([]Type{}, u.Items...), NoneType{})
		return &UnionType{Items: items}
	}
	return &UnionType{Items: []Type{t, NoneType{}}}
}
