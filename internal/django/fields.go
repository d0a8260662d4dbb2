package django

import (
	"strings"

	"modelcheck/internal/checker"
)

// Canonical fully qualified names for the framework classes the plugin
// reasons about.
const (
	ModelFullname   = "django.db.models.base.Model"
	ManagerFullname = "django.db.models.manager.Manager"
	FieldsModule    = "django.db.models.fields"
	RelatedModule   = "django.db.models.fields.related"

	// DefaultManagerAttname is the reserved synthetic attribute every
	// concrete model exposes.
	DefaultManagerAttname = "_default_manager"
	// DefaultManagerName is the conventional manager attribute Django
	// adds when a model declares none.
	DefaultManagerName = "objects"
)

// FieldSpec describes one known field class: its runtime class FQN and
// the builtin scalar types its descriptor get/set protocol exchanges.
type FieldSpec struct {
	Fullname   string
	ScalarType string
	Relational bool
}

var fieldCatalog = map[string]FieldSpec{
	"AutoField":       {Fullname: FieldsModule + ".AutoField", ScalarType: "builtins.int"},
	"BigAutoField":    {Fullname: FieldsModule + ".BigAutoField", ScalarType: "builtins.int"},
	"SmallAutoField":  {Fullname: FieldsModule + ".SmallAutoField", ScalarType: "builtins.int"},
	"IntegerField":    {Fullname: FieldsModule + ".IntegerField", ScalarType: "builtins.int"},
	"BigIntegerField": {Fullname: FieldsModule + ".BigIntegerField", ScalarType: "builtins.int"},
	"PositiveIntegerField": {
		Fullname: FieldsModule + ".PositiveIntegerField", ScalarType: "builtins.int",
	},
	"SmallIntegerField": {Fullname: FieldsModule + ".SmallIntegerField", ScalarType: "builtins.int"},
	"FloatField":        {Fullname: FieldsModule + ".FloatField", ScalarType: "builtins.float"},
	"DecimalField":      {Fullname: FieldsModule + ".DecimalField", ScalarType: "decimal.Decimal"},
	"BooleanField":      {Fullname: FieldsModule + ".BooleanField", ScalarType: "builtins.bool"},
	"CharField":         {Fullname: FieldsModule + ".CharField", ScalarType: "builtins.str"},
	"TextField":         {Fullname: FieldsModule + ".TextField", ScalarType: "builtins.str"},
	"SlugField":         {Fullname: FieldsModule + ".SlugField", ScalarType: "builtins.str"},
	"EmailField":        {Fullname: FieldsModule + ".EmailField", ScalarType: "builtins.str"},
	"URLField":          {Fullname: FieldsModule + ".URLField", ScalarType: "builtins.str"},
	"FilePathField":     {Fullname: FieldsModule + ".FilePathField", ScalarType: "builtins.str"},
	"BinaryField":       {Fullname: FieldsModule + ".BinaryField", ScalarType: "builtins.bytes"},
	"UUIDField":         {Fullname: FieldsModule + ".UUIDField", ScalarType: "uuid.UUID"},
	"DateField":         {Fullname: FieldsModule + ".DateField", ScalarType: "datetime.date"},
	"DateTimeField":     {Fullname: FieldsModule + ".DateTimeField", ScalarType: "datetime.datetime"},
	"TimeField":         {Fullname: FieldsModule + ".TimeField", ScalarType: "datetime.time"},
	"DurationField":     {Fullname: FieldsModule + ".DurationField", ScalarType: "datetime.timedelta"},
	"ForeignKey":        {Fullname: RelatedModule + ".ForeignKey", Relational: true},
	"OneToOneField":     {Fullname: RelatedModule + ".OneToOneField", Relational: true},
}

// LookupFieldClass resolves a field constructor reference as written in
// source ("CharField", "models.CharField", "django.db.models.CharField")
// to its catalog entry.
func LookupFieldClass(ref string) (FieldSpec, bool) {
	short := ref
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		short = ref[idx+1:]
	}
	spec, ok := fieldCatalog[short]
	return spec, ok
}

// ScalarType returns the builtin scalar FQN a non-relational field class
// stores, resolving by the class's fully qualified or short name.
func ScalarType(classFullname string) (string, bool) {
	spec, ok := LookupFieldClass(classFullname)
	if !ok || spec.ScalarType == "" {
		return "", false
	}
	return spec.ScalarType, true
}

// IsManagerClass reports whether a constructor reference looks like a
// manager declaration.
func IsManagerClass(ref string) bool {
	short := ref
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		short = ref[idx+1:]
	}
	return short == "Manager" || strings.HasSuffix(short, "Manager")
}

// ManagerClassFullname resolves a manager constructor reference to a
// fully qualified name, defaulting unknown custom managers into the
// module the model lives in.
func ManagerClassFullname(ref, module string) string {
	short := ref
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		short = ref[idx+1:]
	}
	if short == "Manager" {
		return ManagerFullname
	}
	if strings.Contains(ref, ".") && !strings.HasPrefix(ref, "models.") {
		return ref
	}
	if module == "" {
		return short
	}
	return module + "." + short
}

// StubTypeInfos builds the type definitions the analyzer needs seeded
// before model classes can be processed: builtin scalars, the base
// Model and Manager classes, and every known field class.
func StubTypeInfos() []*checker.TypeInfo {
	builtins := []string{
		"builtins.int", "builtins.str", "builtins.bool", "builtins.float",
		"builtins.bytes", "builtins.object",
		"datetime.date", "datetime.datetime", "datetime.time", "datetime.timedelta",
		"decimal.Decimal", "uuid.UUID",
	}

	out := make([]*checker.TypeInfo, 0, len(builtins)+len(fieldCatalog)+2)
	for _, fullname := range builtins {
		out = append(out, checker.NewTypeInfo(shortName(fullname), fullname))
	}

	model := checker.NewTypeInfo("Model", ModelFullname)
	manager := checker.NewTypeInfo("Manager", ManagerFullname)
	out = append(out, model, manager)

	fieldBase := checker.NewTypeInfo("Field", FieldsModule+".Field")
	out = append(out, fieldBase)
	for short, spec := range fieldCatalog {
		out = append(out, checker.NewTypeInfo(short, spec.Fullname, fieldBase))
	}
	return out
}

func shortName(fullname string) string {
	if idx := strings.LastIndex(fullname, "."); idx >= 0 {
		return fullname[idx+1:]
	}
	return fullname
}
