package django

import (
	"testing"

	"modelcheck/internal/pysrc"
)

func call(target, constructor string, positional []string, keywords map[string]string) *pysrc.Assignment {
	return &pysrc.Assignment{
		Target:      target,
		IsCall:      true,
		Constructor: constructor,
		Positional:  positional,
		Keywords:    keywords,
	}
}

func sampleFiles() []*pysrc.File {
	return []*pysrc.File{
		{
			Path:   "myapp/models.py",
			Module: "myapp.models",
			Classes: []*pysrc.Class{
				{
					Name:     "AuthorManager",
					Fullname: "myapp.models.AuthorManager",
					Bases:    []string{"models.Manager"},
				},
				{
					Name:     "Author",
					Fullname: "myapp.models.Author",
					Bases:    []string{"models.Model"},
					HasMeta:  true,
					Assignments: []*pysrc.Assignment{
						call("name", "models.CharField", nil, map[string]string{"max_length": "100"}),
						call("objects", "AuthorManager", nil, nil),
					},
				},
				{
					Name:     "Book",
					Fullname: "myapp.models.Book",
					Bases:    []string{"models.Model"},
					Assignments: []*pysrc.Assignment{
						call("author", "models.ForeignKey", []string{"Author"},
							map[string]string{"null": "True"}),
						call("parent", "models.ForeignKey", []string{"self"},
							map[string]string{"null": "True"}),
						call("note", "models.TextField", nil, nil),
						{Target: "helper"},
					},
				},
				{
					Name:     "SignedBook",
					Fullname: "myapp.models.SignedBook",
					Bases:    []string{"Book"},
				},
			},
		},
		{
			Path:   "shop/models.py",
			Module: "shop.models",
			Classes: []*pysrc.Class{
				{
					Name:     "Order",
					Fullname: "shop.models.Order",
					Bases:    []string{"models.Model"},
					Assignments: []*pysrc.Assignment{
						call("book", "models.ForeignKey", []string{"Book"},
							map[string]string{"null": "False"}),
					},
				},
			},
		},
	}
}

func TestIntrospectDiscoversModels(t *testing.T) {
	result := Introspect(sampleFiles())

	for _, fullname := range []string{
		"myapp.models.Author",
		"myapp.models.Book",
		"myapp.models.SignedBook", // transitively via Book
		"shop.models.Order",
	} {
		if result.Registry.ModelByFullname(fullname) == nil {
			t.Errorf("expected model %s", fullname)
		}
	}

	if result.Registry.ModelByFullname("myapp.models.AuthorManager") != nil {
		t.Error("manager subclass must not be a model")
	}
	if len(result.Sources) != 4 {
		t.Errorf("expected 4 model sources, got %d", len(result.Sources))
	}
}

func TestIntrospectFieldsAndManagers(t *testing.T) {
	result := Introspect(sampleFiles())

	author := result.Registry.ModelByFullname("myapp.models.Author")
	if author.Field("name") == nil {
		t.Error("expected name field")
	}
	if !author.HasMeta {
		t.Error("expected HasMeta")
	}
	if len(author.Managers) != 1 || author.Managers[0].Name != "objects" ||
		author.Managers[0].ClassFullname != "myapp.models.AuthorManager" {
		t.Errorf("managers = %+v", author.Managers)
	}

	book := result.Registry.ModelByFullname("myapp.models.Book")
	if book.Field("note") == nil {
		t.Error("expected note field")
	}
	if book.Field("helper") != nil {
		t.Error("plain member must not become a field")
	}
}

func TestIntrospectRelationResolution(t *testing.T) {
	result := Introspect(sampleFiles())
	book := result.Registry.ModelByFullname("myapp.models.Book")

	tests := []struct {
		field    string
		expected string
	}{
		{"author", "myapp.models.Author"},
		{"parent", "myapp.models.Book"}, // self reference
	}
	for _, tt := range tests {
		f := book.Field(tt.field)
		if f == nil {
			t.Fatalf("missing field %s", tt.field)
		}
		if f.RelatedModel != tt.expected {
			t.Errorf("%s RelatedModel = %q, expected %q", tt.field, f.RelatedModel, tt.expected)
		}
	}

	// Cross-module unique short-name match.
	order := result.Registry.ModelByFullname("shop.models.Order")
	if got := order.Field("book").RelatedModel; got != "myapp.models.Book" {
		t.Errorf("Order.book RelatedModel = %q", got)
	}
}
