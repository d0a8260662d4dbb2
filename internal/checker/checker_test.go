package checker

import (
	"testing"
)

func TestHasReadableMember(t *testing.T) {
	base := NewTypeInfo("Model", "django.db.models.base.Model")
	base.Names["save"] = &SymbolTableNode{Kind: MemberDef, Node: NewVar("save", AnyType{})}

	child := NewTypeInfo("Author", "myapp.models.Author", base)
	child.Names["name"] = &SymbolTableNode{Kind: MemberDef, Node: NewVar("name", AnyType{})}

	tests := []struct {
		name     string
		member   string
		expected bool
	}{
		{"direct member", "name", true},
		{"inherited member", "save", true},
		{"missing member", "id", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := child.HasReadableMember(tt.member); got != tt.expected {
				t.Errorf("HasReadableMember(%q) = %v, expected %v", tt.member, got, tt.expected)
			}
		})
	}
}

func TestHasReadableMemberCyclicBases(t *testing.T) {
	a := NewTypeInfo("A", "m.A")
	b := NewTypeInfo("B", "m.B", a)
	a.Bases = append(a.Bases, b)

	if a.HasReadableMember("missing") {
		t.Error("expected false for missing member on cyclic hierarchy")
	}
}

func TestTypeRendering(t *testing.T) {
	manager := NewTypeInfo("Manager", "django.db.models.manager.Manager")
	author := NewTypeInfo("Author", "myapp.models.Author")

	tests := []struct {
		name     string
		typ      Type
		expected string
	}{
		{"plain instance", author.Instance(), "myapp.models.Author"},
		{"parameterized", manager.Instance(author.Instance()), "django.db.models.manager.Manager[myapp.models.Author]"},
		{"optional", Optional(author.Instance()), "Union[myapp.models.Author, None]"},
		{"optional idempotent", Optional(Optional(author.Instance())), "Union[myapp.models.Author, None]"},
		{"any", AnyType{}, "Any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.expected {
				t.Errorf("String() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestAnalyzerLookup(t *testing.T) {
	a := NewAnalyzer()
	info := NewTypeInfo("CharField", "django.db.models.fields.CharField")
	a.AddTypeInfo(info)

	sym := a.LookupFullyQualified("django.db.models.fields.CharField")
	if sym == nil {
		t.Fatal("expected symbol")
	}
	if sym.TypeInfo() != info {
		t.Error("expected TypeInfo round-trip")
	}
	if a.LookupFullyQualified("django.db.models.fields.TextField") != nil {
		t.Error("expected nil for unregistered name")
	}
}

func TestAnalyzerRunResolvesForwardReference(t *testing.T) {
	a := NewAnalyzer()

	first := &ClassDef{Name: "Book", Fullname: "m.Book", Info: NewTypeInfo("Book", "m.Book")}
	second := &ClassDef{Name: "Author", Fullname: "m.Author", Info: NewTypeInfo("Author", "m.Author")}

	processed := make(map[string]int)
	result := a.Run([]*ClassDef{first, second}, 5, func(ctx *ClassDefContext) error {
		processed[ctx.Cls.Fullname]++
		// Book needs Author, which is defined after it.
		if ctx.Cls.Fullname == "m.Book" {
			if ctx.API.LookupFullyQualified("m.Author") == nil {
				ctx.API.Defer()
			}
		}
		return nil
	})

	if result.Passes != 2 {
		t.Errorf("expected 2 passes, got %d", result.Passes)
	}
	if result.Deferrals != 1 {
		t.Errorf("expected 1 deferral, got %d", result.Deferrals)
	}
	if processed["m.Book"] != 2 {
		t.Errorf("expected Book processed twice, got %d", processed["m.Book"])
	}
	if processed["m.Author"] != 1 {
		t.Errorf("expected Author processed once, got %d", processed["m.Author"])
	}
}

func TestAnalyzerRunFinalIterationSwallowsDeferral(t *testing.T) {
	a := NewAnalyzer()
	cls := &ClassDef{Name: "Book", Fullname: "m.Book", Info: NewTypeInfo("Book", "m.Book")}

	finalSeen := false
	result := a.Run([]*ClassDef{cls}, 3, func(ctx *ClassDefContext) error {
		if ctx.API.FinalIteration() {
			finalSeen = true
		}
		// Dependency that never resolves.
		if ctx.API.LookupFullyQualified("m.Missing") == nil {
			ctx.API.Defer()
		}
		return nil
	})

	if !finalSeen {
		t.Error("expected the final iteration to be reached")
	}
	if result.Passes != 3 {
		t.Errorf("expected 3 passes, got %d", result.Passes)
	}
	if len(a.DeferredClasses()) != 0 {
		t.Errorf("expected no deferred classes after final pass, got %v", a.DeferredClasses())
	}
}
