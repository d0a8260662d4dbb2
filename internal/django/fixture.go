package django

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"modelcheck/internal/core/errors"
)

// Fixture metadata lets tests and offline runs describe a model set in
// TOML instead of introspecting Python sources.
//
//	[[models]]
//	fullname = "myapp.models.Author"
//
//	[[models.fields]]
//	name = "name"
//	class = "CharField"
//	null = false
type fixtureFile struct {
	Models []fixtureModel `toml:"models"`
}

type fixtureModel struct {
	Fullname string           `toml:"fullname"`
	Name     string           `toml:"name"`
	Abstract bool             `toml:"abstract"`
	Meta     bool             `toml:"meta"`
	Fields   []fixtureField   `toml:"fields"`
	Managers []fixtureManager `toml:"managers"`
}

type fixtureField struct {
	Name         string `toml:"name"`
	Class        string `toml:"class"`
	Null         bool   `toml:"null"`
	PrimaryKey   bool   `toml:"primary_key"`
	RelatedModel string `toml:"related_model"`
}

type fixtureManager struct {
	Name  string `toml:"name"`
	Class string `toml:"class"`
}

// LoadFixture reads a TOML model-set description into a Registry.
func LoadFixture(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeNotFound, "read fixture")
	}
	return ParseFixture(data)
}

// ParseFixture builds a Registry from raw fixture TOML.
func ParseFixture(data []byte) (*Registry, error) {
	var file fixtureFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "decode fixture")
	}

	registry := NewRegistry()
	for _, fm := range file.Models {
		if fm.Fullname == "" {
			return nil, errors.New(errors.CodeValidationError, "fixture model missing fullname")
		}
		model := &Model{
			Name:     fm.Name,
			Fullname: fm.Fullname,
			Abstract: fm.Abstract,
			HasMeta:  fm.Meta,
		}
		if model.Name == "" {
			model.Name = shortName(fm.Fullname)
		}

		for _, ff := range fm.Fields {
			spec, ok := LookupFieldClass(ff.Class)
			if !ok {
				return nil, errors.New(errors.CodeValidationError,
					fmt.Sprintf("unknown field class %q on %s", ff.Class, fm.Fullname))
			}
			if spec.Relational && ff.RelatedModel == "" {
				return nil, errors.New(errors.CodeValidationError,
					fmt.Sprintf("relational field %s.%s needs related_model", fm.Fullname, ff.Name))
			}
			model.Fields = append(model.Fields, &Field{
				Name:          ff.Name,
				ClassFullname: spec.Fullname,
				Null:          ff.Null,
				PrimaryKey:    ff.PrimaryKey,
				RelatedModel:  ff.RelatedModel,
			})
		}

		for _, mgr := range fm.Managers {
			model.Managers = append(model.Managers, Manager{
				Name:          mgr.Name,
				ClassFullname: ManagerClassFullname(mgr.Class, moduleOf(fm.Fullname)),
			})
		}

		registry.Add(model)
	}
	return registry, nil
}

func moduleOf(fullname string) string {
	for i := len(fullname) - 1; i >= 0; i-- {
		if fullname[i] == '.' {
			return fullname[:i]
		}
	}
	return ""
}
