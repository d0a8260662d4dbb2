package pysrc

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleModels = `from django.db import models


class AuthorManager(models.Manager):
    pass


class Author(models.Model):
    name = models.CharField(max_length=100)
    email = models.EmailField(null=True)

    objects = AuthorManager()

    class Meta:
        ordering = ["name"]


class Book(models.Model):
    title = models.CharField(max_length=200)
    author = models.ForeignKey(Author, null=True, on_delete=models.CASCADE)
    publisher = models.ForeignKey("thirdparty.Publisher", null=False, on_delete=models.CASCADE)


class TimestampedBase(models.Model):
    created = models.DateTimeField(auto_now_add=True)

    class Meta:
        abstract = True
`

func parseSample(t *testing.T) *File {
	t.Helper()
	p := NewParser()
	file, err := p.ParseFile("myapp/models.py", "myapp.models", []byte(sampleModels))
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	return file
}

func classByName(t *testing.T, file *File, name string) *Class {
	t.Helper()
	for _, cls := range file.Classes {
		if cls.Name == name {
			return cls
		}
	}
	t.Fatalf("class %s not found", name)
	return nil
}

func TestParseClasses(t *testing.T) {
	file := parseSample(t)

	if len(file.Classes) != 4 {
		t.Fatalf("expected 4 classes, got %d", len(file.Classes))
	}

	author := classByName(t, file, "Author")
	if author.Fullname != "myapp.models.Author" {
		t.Errorf("Fullname = %q", author.Fullname)
	}
	if len(author.Bases) != 1 || author.Bases[0] != "models.Model" {
		t.Errorf("Bases = %v", author.Bases)
	}
	if !author.HasMeta || author.MetaAbstract {
		t.Errorf("expected non-abstract Meta, got HasMeta=%v MetaAbstract=%v",
			author.HasMeta, author.MetaAbstract)
	}
}

func TestParseAssignments(t *testing.T) {
	file := parseSample(t)
	author := classByName(t, file, "Author")

	byTarget := make(map[string]*Assignment)
	for _, a := range author.Assignments {
		byTarget[a.Target] = a
	}

	name := byTarget["name"]
	if name == nil || !name.IsCall || name.Constructor != "models.CharField" {
		t.Fatalf("name assignment = %+v", name)
	}

	email := byTarget["email"]
	if email == nil || email.Keyword("null") != "True" {
		t.Fatalf("email assignment = %+v", email)
	}

	objects := byTarget["objects"]
	if objects == nil || objects.Constructor != "AuthorManager" {
		t.Fatalf("objects assignment = %+v", objects)
	}
}

func TestParseForeignKeyArguments(t *testing.T) {
	file := parseSample(t)
	book := classByName(t, file, "Book")

	var authorFK, publisherFK *Assignment
	for _, a := range book.Assignments {
		switch a.Target {
		case "author":
			authorFK = a
		case "publisher":
			publisherFK = a
		}
	}

	if authorFK == nil || len(authorFK.Positional) == 0 || authorFK.Positional[0] != "Author" {
		t.Fatalf("author FK = %+v", authorFK)
	}
	if authorFK.Keyword("null") != "True" {
		t.Errorf("author null = %q", authorFK.Keyword("null"))
	}

	if publisherFK == nil || len(publisherFK.Positional) == 0 ||
		publisherFK.Positional[0] != "thirdparty.Publisher" {
		t.Fatalf("publisher FK = %+v (quoted reference should be unquoted)", publisherFK)
	}
	if publisherFK.Keyword("null") != "False" {
		t.Errorf("publisher null = %q", publisherFK.Keyword("null"))
	}
}

func TestParseAbstractMeta(t *testing.T) {
	file := parseSample(t)
	base := classByName(t, file, "TimestampedBase")

	if !base.HasMeta || !base.MetaAbstract {
		t.Errorf("expected abstract Meta, got HasMeta=%v MetaAbstract=%v",
			base.HasMeta, base.MetaAbstract)
	}
}

func TestModuleName(t *testing.T) {
	root, _ := os.MkdirTemp("", "pyproj")
	defer os.RemoveAll(root)

	app := filepath.Join(root, "myapp")
	os.MkdirAll(app, 0755)
	os.WriteFile(filepath.Join(app, "__init__.py"), []byte(""), 0644)

	tests := []struct {
		path     string
		expected string
	}{
		{filepath.Join(app, "models.py"), "myapp.models"},
		{filepath.Join(app, "__init__.py"), "myapp"},
		{filepath.Join(root, "settings.py"), "settings"},
	}

	for _, tt := range tests {
		if got := ModuleName(root, tt.path); got != tt.expected {
			t.Errorf("ModuleName(%s) = %s, expected %s", tt.path, got, tt.expected)
		}
	}
}

func TestScanner(t *testing.T) {
	root, _ := os.MkdirTemp("", "scan")
	defer os.RemoveAll(root)

	os.MkdirAll(filepath.Join(root, "myapp", "migrations"), 0755)
	os.WriteFile(filepath.Join(root, "myapp", "models.py"), []byte(""), 0644)
	os.WriteFile(filepath.Join(root, "myapp", "migrations", "0001_initial.py"), []byte(""), 0644)
	os.WriteFile(filepath.Join(root, "myapp", "test_models.py"), []byte(""), 0644)
	os.WriteFile(filepath.Join(root, "README.md"), []byte(""), 0644)

	s, err := NewScanner([]string{"migrations"}, []string{"test_*.py"})
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}

	files, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "models.py" {
		t.Errorf("expected only models.py, got %v", files)
	}
}
