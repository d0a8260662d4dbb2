package pysrc

import "time"

// File is one parsed Python source file, reduced to what model
// analysis needs: its module identity and its class definitions.
type File struct {
	Path     string
	Module   string // fully qualified dotted module name
	Classes  []*Class
	ParsedAt time.Time
}

// Class is one class definition, purely syntactic: base expressions
// and class-body assignments. Semantic classification (field vs
// manager vs plain member) happens in the reflection layer.
type Class struct {
	Name     string
	Fullname string
	Bases    []string // base expressions as written, e.g. "models.Model"

	Assignments []*Assignment

	HasMeta      bool
	MetaAbstract bool

	Line int
}

// Assignment is one class-level `name = expr` statement. For call
// expressions the constructor and arguments are captured; for anything
// else only the target name is.
type Assignment struct {
	Target      string
	IsCall      bool
	Constructor string // callee as written, e.g. "models.ForeignKey"
	// Positional holds positional argument expressions verbatim,
	// quoted strings unquoted.
	Positional []string
	// Keywords maps keyword argument names to their raw value text
	// ("True", "False", "'Author'", "32").
	Keywords map[string]string
	Line     int
}

// Keyword returns a keyword argument's raw value text.
func (a *Assignment) Keyword(name string) string {
	if a.Keywords == nil {
		return ""
	}
	return a.Keywords[name]
}

// BaseNames returns the last dotted component of every base expression.
func (c *Class) BaseNames() []string {
	out := make([]string, 0, len(c.Bases))
	for _, b := range c.Bases {
		out = append(out, lastComponent(b))
	}
	return out
}

func lastComponent(dotted string) string {
	for i := len(dotted) - 1; i >= 0; i-- {
		if dotted[i] == '.' {
			return dotted[i+1:]
		}
	}
	return dotted
}
