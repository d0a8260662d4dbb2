package django

import (
	"log/slog"
	"strings"

	"modelcheck/internal/pysrc"
)

// ModelSource pairs a model's reflection metadata with the class
// definition it was introspected from, in source order.
type ModelSource struct {
	Model *Model
	Class *pysrc.Class
}

// Introspection is the result of turning parsed sources into reflection
// metadata.
type Introspection struct {
	Registry *Registry
	// Sources lists discovered model classes in file/declaration order,
	// which is also the order the analyzer processes them in.
	Sources []*ModelSource
}

// Introspect classifies the classes of the parsed files: which are
// models, which of their assignments declare fields or managers, and
// how relational references resolve across modules.
func Introspect(files []*pysrc.File) *Introspection {
	idx := buildClassIndex(files)
	modelNames := discoverModelClasses(idx)

	result := &Introspection{Registry: NewRegistry()}
	for _, file := range files {
		for _, cls := range file.Classes {
			if !modelNames[cls.Fullname] {
				continue
			}
			model := buildModel(cls, file.Module, idx)
			result.Registry.Add(model)
			result.Sources = append(result.Sources, &ModelSource{Model: model, Class: cls})
		}
	}
	return result
}

type classIndex struct {
	byFullname map[string]*pysrc.Class
	byShort    map[string][]string // short name -> fullnames
	moduleOf   map[string]string
}

func buildClassIndex(files []*pysrc.File) *classIndex {
	idx := &classIndex{
		byFullname: make(map[string]*pysrc.Class),
		byShort:    make(map[string][]string),
		moduleOf:   make(map[string]string),
	}
	for _, file := range files {
		for _, cls := range file.Classes {
			idx.byFullname[cls.Fullname] = cls
			idx.byShort[cls.Name] = append(idx.byShort[cls.Name], cls.Fullname)
			idx.moduleOf[cls.Fullname] = file.Module
		}
	}
	return idx
}

// discoverModelClasses finds classes deriving from models.Model,
// directly or through other project classes, to a fixed point. Classes
// deriving from Manager are excluded even if named like models.
func discoverModelClasses(idx *classIndex) map[string]bool {
	models := make(map[string]bool)

	changed := true
	for changed {
		changed = false
		for fullname, cls := range idx.byFullname {
			if models[fullname] || isManagerSubclass(cls) {
				continue
			}
			for _, base := range cls.Bases {
				if isModelBase(base) || models[resolveClassRef(base, idx.moduleOf[fullname], idx)] {
					models[fullname] = true
					changed = true
					break
				}
			}
		}
	}
	return models
}

func isModelBase(base string) bool {
	return base == "models.Model" || base == "Model" ||
		strings.HasSuffix(base, ".models.Model") || base == ModelFullname
}

func isManagerSubclass(cls *pysrc.Class) bool {
	for _, base := range cls.BaseNames() {
		if base == "Manager" || strings.HasSuffix(base, "Manager") {
			return true
		}
	}
	return false
}

func buildModel(cls *pysrc.Class, module string, idx *classIndex) *Model {
	model := &Model{
		Name:     cls.Name,
		Fullname: cls.Fullname,
		Abstract: cls.MetaAbstract,
		HasMeta:  cls.HasMeta,
	}

	for _, assignment := range cls.Assignments {
		if !assignment.IsCall {
			continue
		}

		if spec, ok := LookupFieldClass(assignment.Constructor); ok {
			field := &Field{
				Name:          assignment.Target,
				ClassFullname: spec.Fullname,
				Null:          assignment.Keyword("null") == "True",
				PrimaryKey:    assignment.Keyword("primary_key") == "True",
			}
			if spec.Relational {
				field.RelatedModel = resolveRelatedRef(assignment, cls, module, idx)
				if field.RelatedModel == "" {
					slog.Debug("unresolvable relation target",
						"model", cls.Fullname, "field", assignment.Target)
				}
			}
			model.Fields = append(model.Fields, field)
			continue
		}

		if IsManagerClass(assignment.Constructor) {
			model.Managers = append(model.Managers, Manager{
				Name:          assignment.Target,
				ClassFullname: ManagerClassFullname(assignment.Constructor, module),
			})
		}
	}
	return model
}

// resolveRelatedRef resolves a relational constructor's first positional
// argument ("Author", "'app.Author'", "self") to a class fullname.
// Unresolvable references keep their best-effort dotted form so the
// analyzer's lookup reports them as incomplete rather than crashing.
func resolveRelatedRef(assignment *pysrc.Assignment, cls *pysrc.Class, module string, idx *classIndex) string {
	if len(assignment.Positional) == 0 {
		if to := assignment.Keyword("to"); to != "" {
			return resolveClassRef(strings.Trim(to, "\"'"), module, idx)
		}
		return ""
	}

	ref := assignment.Positional[0]
	if ref == "self" {
		return cls.Fullname
	}
	return resolveClassRef(ref, module, idx)
}

func resolveClassRef(ref, module string, idx *classIndex) string {
	if ref == "" {
		return ""
	}

	// Exact fullname match wins.
	if _, ok := idx.byFullname[ref]; ok {
		return ref
	}

	short := ref
	if i := strings.LastIndex(ref, "."); i >= 0 {
		short = ref[i+1:]
	}

	candidates := idx.byShort[short]
	// Prefer the class from the same module, then a unique global match.
	for _, fullname := range candidates {
		if idx.moduleOf[fullname] == module {
			return fullname
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	if strings.Contains(ref, ".") {
		return ref
	}
	if module == "" {
		return ref
	}
	return module + "." + ref
}
