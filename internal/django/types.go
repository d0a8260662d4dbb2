package django

import "strings"

// Field is the reflection-level view of one declared column/attribute
// descriptor on a model class.
type Field struct {
	// Name is the attribute name as written in the class body.
	Name string
	// Attname is the concrete column attribute: equal to Name for plain
	// fields, Name + "_id" for foreign keys.
	Attname string
	// ClassFullname is the fully qualified name of the field's runtime
	// class, e.g. django.db.models.fields.CharField.
	ClassFullname string

	Null       bool
	PrimaryKey bool
	// Auto marks the implicit primary key synthesized for models that
	// declare no primary_key=True field themselves.
	Auto bool

	// RelatedModel is the fully qualified name of the target model for
	// relational fields, empty otherwise.
	RelatedModel string
}

// IsRelation reports whether the field references another model.
func (f *Field) IsRelation() bool {
	return f != nil && f.RelatedModel != ""
}

// Manager is one (attribute name, runtime class) manager binding.
type Manager struct {
	Name          string
	ClassFullname string
}

// Model is the reflection metadata for one concrete or abstract model
// class.
type Model struct {
	Name     string
	Fullname string
	Abstract bool
	Fields   []*Field
	// Managers preserves declaration order; Django's default manager is
	// the first one declared.
	Managers []Manager

	HasMeta bool
}

// PrimaryKey returns the model's primary key field, or nil for abstract
// models.
func (m *Model) PrimaryKey() *Field {
	if m == nil {
		return nil
	}
	for _, f := range m.Fields {
		if f.PrimaryKey {
			return f
		}
	}
	return nil
}

// AutoPrimaryKey returns the primary key only when it is an
// auto-generated one (implicit id or an explicit AutoField variant).
func (m *Model) AutoPrimaryKey() *Field {
	pk := m.PrimaryKey()
	if pk == nil {
		return nil
	}
	if pk.Auto || isAutoFieldClass(pk.ClassFullname) {
		return pk
	}
	return nil
}

// Field returns the declared field with the given attribute name.
func (m *Model) Field(name string) *Field {
	if m == nil {
		return nil
	}
	for _, f := range m.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func isAutoFieldClass(fullname string) bool {
	short := fullname
	if idx := strings.LastIndex(fullname, "."); idx >= 0 {
		short = fullname[idx+1:]
	}
	switch short {
	case "AutoField", "BigAutoField", "SmallAutoField":
		return true
	}
	return false
}
