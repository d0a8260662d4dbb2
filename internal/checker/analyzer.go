package checker

import (
	"log/slog"
	"sort"
)

// Analyzer drives fixed-point semantic analysis: every registered class
// is processed once per pass, and a class whose dependencies are not
// resolved yet may ask to be deferred to the next pass. On the final
// pass deferral requests are ignored and whatever resolved so far is
// kept (best effort, never a hard failure).
type Analyzer struct {
	globals SymbolTable

	deferred map[string]bool
	current  string

	pass           int
	finalIteration bool
	unresolved     int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		globals:  make(SymbolTable),
		deferred: make(map[string]bool),
	}
}

// AddTypeInfo registers a resolved class definition under its fully
// qualified name. Used both for stub seeding (builtins, field and
// manager classes) and for user classes as they are first analyzed.
func (a *Analyzer) AddTypeInfo(info *TypeInfo) {
	if info == nil || info.Fullname() == "" {
		return
	}
	a.globals[info.Fullname()] = &SymbolTableNode{Kind: GlobalDef, Node: info}
}

// AddGlobal registers an arbitrary module-level symbol. Lookups of such
// names succeed but do not yield a TypeInfo, which callers fold into
// the incomplete-definition signal.
func (a *Analyzer) AddGlobal(name string, node SymbolNode) {
	a.globals[name] = &SymbolTableNode{Kind: GlobalDef, Node: node}
}

// LookupFullyQualified resolves a dotted name against the global symbol
// table. Returns nil when the name has not been bound yet.
func (a *Analyzer) LookupFullyQualified(fullname string) *SymbolTableNode {
	return a.globals[fullname]
}

// Defer marks the class currently being processed for another pass.
// No-op outside of a Run callback or on the final iteration.
func (a *Analyzer) Defer() {
	if a.current == "" || a.finalIteration {
		return
	}
	a.deferred[a.current] = true
}

// FinalIteration reports whether the current pass is the last one the
// run will attempt.
func (a *Analyzer) FinalIteration() bool { return a.finalIteration }

// NoteUnresolved records a lookup that stayed unresolved on the final
// pass and was dropped instead of deferred.
func (a *Analyzer) NoteUnresolved() { a.unresolved++ }

// Unresolved returns how many lookups were dropped on the final pass.
func (a *Analyzer) Unresolved() int { return a.unresolved }

// Pass returns the 1-based number of the pass in progress.
func (a *Analyzer) Pass() int { return a.pass }

// ClassDefContext is the per-class hook context handed to the plugin:
// the class being defined plus the analyzer API.
type ClassDefContext struct {
	Cls *ClassDef
	API *Analyzer
}

// ProcessFunc is the plugin hook invoked once per class per pass.
type ProcessFunc func(*ClassDefContext) error

// RunResult summarizes one fixed-point run.
type RunResult struct {
	Passes    int
	Deferrals int
	Errors    int
}

// Run analyzes classes until no class asks for deferral or maxPasses is
// reached. A class's TypeInfo becomes visible to lookups only once the
// analyzer reaches it, so classes that depend on later definitions
// resolve on a later pass, mirroring the host checker's behavior.
func (a *Analyzer) Run(classes []*ClassDef, maxPasses int, process ProcessFunc) RunResult {
	if maxPasses < 1 {
		maxPasses = 1
	}

	var result RunResult
	pending := make([]*ClassDef, len(classes))
	copy(pending, classes)

	for pass := 1; pass <= maxPasses; pass++ {
		a.pass = pass
		a.finalIteration = pass == maxPasses

		for _, cls := range pending {
			// Reached definitions become visible to lookups now, not at
			// pass start: a class referring to one defined further down
			// the file has to wait for the next pass.
			a.AddTypeInfo(cls.Info)
			a.current = cls.Fullname
			delete(a.deferred, cls.Fullname)

			if err := process(&ClassDefContext{Cls: cls, API: a}); err != nil {
				result.Errors++
				slog.Error("class processing failed",
					"class", cls.Fullname, "pass", pass, "error", err)
			}
		}
		a.current = ""

		result.Passes = pass
		if len(a.deferred) == 0 {
			break
		}
		result.Deferrals += len(a.deferred)

		pending = retained(classes, a.deferred)
	}

	return result
}

// retained keeps the original class order for the next pass; order is
// significant because visibility follows processing order.
func retained(classes []*ClassDef, deferred map[string]bool) []*ClassDef {
	out := make([]*ClassDef, 0, len(deferred))
	for _, cls := range classes {
		if deferred[cls.Fullname] {
			out = append(out, cls)
		}
	}
	return out
}

// DeferredClasses lists classes still waiting on a later pass, sorted
// for stable reporting.
func (a *Analyzer) DeferredClasses() []string {
	out := make([]string, 0, len(a.deferred))
	for name := range a.deferred {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
