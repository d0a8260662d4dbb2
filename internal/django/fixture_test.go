package django

import (
	"testing"

	"modelcheck/internal/core/errors"
)

const sampleFixture = `
[[models]]
fullname = "myapp.models.Author"

[[models.fields]]
name = "name"
class = "CharField"

[[models]]
fullname = "myapp.models.Book"

[[models.fields]]
name = "author"
class = "ForeignKey"
null = true
related_model = "myapp.models.Author"

[[models.managers]]
name = "published"
class = "BookManager"
`

func TestParseFixture(t *testing.T) {
	r, err := ParseFixture([]byte(sampleFixture))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}

	author := r.ModelByFullname("myapp.models.Author")
	if author == nil {
		t.Fatal("expected Author")
	}
	if author.PrimaryKey() == nil {
		t.Error("expected implicit pk on Author")
	}

	book := r.ModelByFullname("myapp.models.Book")
	if book == nil {
		t.Fatal("expected Book")
	}
	fk := book.Field("author")
	if fk == nil || fk.RelatedModel != "myapp.models.Author" {
		t.Fatalf("expected author FK, got %+v", fk)
	}
	if !fk.Null {
		t.Error("expected nullable FK")
	}
	if got := r.DefaultManager(book); got != "myapp.models.BookManager" {
		t.Errorf("DefaultManager = %q", got)
	}
}

func TestParseFixtureRejectsUnknownFieldClass(t *testing.T) {
	bad := `
[[models]]
fullname = "m.X"

[[models.fields]]
name = "f"
class = "MysteryField"
`
	if _, err := ParseFixture([]byte(bad)); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestParseFixtureRejectsRelationWithoutTarget(t *testing.T) {
	bad := `
[[models]]
fullname = "m.X"

[[models.fields]]
name = "rel"
class = "ForeignKey"
`
	if _, err := ParseFixture([]byte(bad)); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("expected validation error, got %v", err)
	}
}
