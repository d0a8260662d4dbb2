package django

import "testing"

func TestRegistryNormalization(t *testing.T) {
	author := &Model{
		Name:     "Author",
		Fullname: "myapp.models.Author",
		Fields: []*Field{
			{Name: "name", ClassFullname: FieldsModule + ".CharField"},
		},
	}
	r := NewRegistry(author)

	m := r.ModelByFullname("myapp.models.Author")
	if m == nil {
		t.Fatal("expected model")
	}

	pk := m.PrimaryKey()
	if pk == nil {
		t.Fatal("expected implicit primary key")
	}
	if pk.Name != "id" || !pk.Auto {
		t.Errorf("expected auto id pk, got %+v", pk)
	}
	if m.AutoPrimaryKey() == nil {
		t.Error("expected implicit pk to count as auto-generated")
	}

	if len(m.Managers) != 1 || m.Managers[0].Name != DefaultManagerName {
		t.Errorf("expected default objects manager, got %+v", m.Managers)
	}
	if got := r.DefaultManager(m); got != ManagerFullname {
		t.Errorf("DefaultManager = %q, expected %q", got, ManagerFullname)
	}
}

func TestRegistryExplicitPrimaryKey(t *testing.T) {
	m := &Model{
		Name:     "Tag",
		Fullname: "myapp.models.Tag",
		Fields: []*Field{
			{Name: "slug", ClassFullname: FieldsModule + ".SlugField", PrimaryKey: true},
		},
	}
	r := NewRegistry(m)

	got := r.ModelByFullname("myapp.models.Tag")
	if pk := got.PrimaryKey(); pk == nil || pk.Name != "slug" {
		t.Fatalf("expected slug pk, got %+v", pk)
	}
	if got.AutoPrimaryKey() != nil {
		t.Error("explicit non-auto pk must not report as auto-generated")
	}
}

func TestRegistryAbstractModelResolvesToNil(t *testing.T) {
	r := NewRegistry(&Model{
		Name:     "Base",
		Fullname: "myapp.models.Base",
		Abstract: true,
	})

	if r.ModelByFullname("myapp.models.Base") != nil {
		t.Error("abstract models must resolve to nil")
	}
	if r.ModelByFullname("myapp.models.Missing") != nil {
		t.Error("unknown names must resolve to nil")
	}
}

func TestForeignKeyAttname(t *testing.T) {
	m := &Model{
		Name:     "Book",
		Fullname: "myapp.models.Book",
		Fields: []*Field{
			{
				Name:          "author",
				ClassFullname: RelatedModule + ".ForeignKey",
				RelatedModel:  "myapp.models.Author",
				Null:          true,
			},
		},
	}
	r := NewRegistry(m)

	book := r.ModelByFullname("myapp.models.Book")
	f := book.Field("author")
	if f == nil {
		t.Fatal("expected author field")
	}
	if f.Attname != "author_id" {
		t.Errorf("Attname = %q, expected author_id", f.Attname)
	}
	if !f.IsRelation() {
		t.Error("expected relation")
	}
	if !r.FieldNullability(f) {
		t.Error("expected nullable field")
	}
}

func TestLookupFieldClass(t *testing.T) {
	tests := []struct {
		ref      string
		fullname string
		ok       bool
	}{
		{"CharField", FieldsModule + ".CharField", true},
		{"models.CharField", FieldsModule + ".CharField", true},
		{"django.db.models.AutoField", FieldsModule + ".AutoField", true},
		{"ForeignKey", RelatedModule + ".ForeignKey", true},
		{"JSONField", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			spec, ok := LookupFieldClass(tt.ref)
			if ok != tt.ok {
				t.Fatalf("ok = %v, expected %v", ok, tt.ok)
			}
			if ok && spec.Fullname != tt.fullname {
				t.Errorf("fullname = %q, expected %q", spec.Fullname, tt.fullname)
			}
		})
	}
}

func TestManagerClassFullname(t *testing.T) {
	tests := []struct {
		ref      string
		module   string
		expected string
	}{
		{"models.Manager", "myapp.models", ManagerFullname},
		{"Manager", "myapp.models", ManagerFullname},
		{"AuthorManager", "myapp.models", "myapp.models.AuthorManager"},
		{"managers.BookManager", "myapp.models", "myapp.models.BookManager"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			if got := ManagerClassFullname(tt.ref, tt.module); got != tt.expected {
				t.Errorf("ManagerClassFullname(%q) = %q, expected %q", tt.ref, got, tt.expected)
			}
		})
	}
}

func TestStubTypeInfos(t *testing.T) {
	stubs := StubTypeInfos()
	byName := make(map[string]bool, len(stubs))
	for _, info := range stubs {
		byName[info.Fullname()] = true
	}

	for _, want := range []string{
		"builtins.int",
		"builtins.str",
		ModelFullname,
		ManagerFullname,
		FieldsModule + ".AutoField",
		RelatedModule + ".ForeignKey",
	} {
		if !byName[want] {
			t.Errorf("missing stub %s", want)
		}
	}
}
