package django

import "sort"

// Context is the read-only reflection surface the transformers consume.
// Implementations are swappable so tests can supply synthetic metadata
// without any Python sources.
type Context interface {
	// ModelByFullname resolves a class FQN to its model metadata. A nil
	// result means "not a concrete model here" (abstract base or not a
	// model at all) and is not an error.
	ModelByFullname(fullname string) *Model
	// Fields lists the model's declared fields, auto primary key
	// included.
	Fields(m *Model) []*Field
	// PrimaryKeyField returns the model's primary key field.
	PrimaryKeyField(m *Model) *Field
	// Managers returns the model's manager map in declaration order.
	Managers(m *Model) []Manager
	// DefaultManager returns the runtime class FQN of the model's
	// default manager.
	DefaultManager(m *Model) string
	// FieldNullability reports whether the given field admits None.
	FieldNullability(f *Field) bool
}

// Registry is the in-memory Context over a fixed model set, either
// introspected from sources or loaded from a fixture.
type Registry struct {
	models map[string]*Model
}

var _ Context = (*Registry)(nil)

func NewRegistry(models ...*Model) *Registry {
	r := &Registry{models: make(map[string]*Model, len(models))}
	for _, m := range models {
		r.Add(m)
	}
	return r
}

// Add normalizes and registers one model: implicit primary key for
// concrete models without one, the conventional objects manager when
// none is declared.
func (r *Registry) Add(m *Model) {
	if m == nil || m.Fullname == "" {
		return
	}
	normalizeModel(m)
	r.models[m.Fullname] = m
}

func (r *Registry) ModelByFullname(fullname string) *Model {
	m := r.models[fullname]
	if m == nil || m.Abstract {
		return nil
	}
	return m
}

func (r *Registry) Fields(m *Model) []*Field {
	if m == nil {
		return nil
	}
	return m.Fields
}

func (r *Registry) PrimaryKeyField(m *Model) *Field {
	return m.PrimaryKey()
}

func (r *Registry) Managers(m *Model) []Manager {
	if m == nil {
		return nil
	}
	return m.Managers
}

func (r *Registry) DefaultManager(m *Model) string {
	if m == nil || len(m.Managers) == 0 {
		return ManagerFullname
	}
	return m.Managers[0].ClassFullname
}

func (r *Registry) FieldNullability(f *Field) bool {
	return f != nil && f.Null
}

// Models lists all registered models, concrete and abstract, sorted by
// fully qualified name for stable iteration.
func (r *Registry) Models() []*Model {
	out := make([]*Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fullname < out[j].Fullname })
	return out
}

func normalizeModel(m *Model) {
	for _, f := range m.Fields {
		if f.Attname == "" {
			f.Attname = f.Name
			if f.IsRelation() {
				f.Attname = f.Name + "_id"
			}
		}
	}

	if !m.Abstract && m.PrimaryKey() == nil {
		auto := &Field{
			Name:          "id",
			Attname:       "id",
			ClassFullname: FieldsModule + ".AutoField",
			PrimaryKey:    true,
			Auto:          true,
		}
		m.Fields = append([]*Field{auto}, m.Fields...)
	}

	if !m.Abstract && len(m.Managers) == 0 {
		m.Managers = []Manager{{Name: DefaultManagerName, ClassFullname: ManagerFullname}}
	}
}
