package transformers

import (
	"modelcheck/internal/checker"
	"modelcheck/internal/core/errors"
	"modelcheck/internal/django"
)

// ModelClassInitializer is one unit of work bound to a single model
// class definition: the analyzer API, the class under definition and
// the ORM reflection handle. Concrete initializers embed it and provide
// Run.
type ModelClassInitializer struct {
	API           *checker.Analyzer
	ModelClassDef *checker.ClassDef
	DjangoContext django.Context
	Ctx           *checker.ClassDefContext
}

// Initializer is a single transformation over one model class. Run may
// return the incomplete-definition signal, which the orchestrator turns
// into a deferral; it never partially corrupts the class.
type Initializer interface {
	Run() error
}

func initializerFromContext(ctx *checker.ClassDefContext, djangoContext django.Context) ModelClassInitializer {
	return ModelClassInitializer{
		API:           ctx.API,
		ModelClassDef: ctx.Cls,
		DjangoContext: djangoContext,
		Ctx:           ctx,
	}
}

// lookupTypeInfo resolves a fully qualified name to a type definition.
// Absent names and names bound to non-class symbols are both reported
// as incomplete: either way the dependency is not ready this pass.
func (m *ModelClassInitializer) lookupTypeInfo(fullname string) (*checker.TypeInfo, error) {
	sym := m.API.LookupFullyQualified(fullname)
	if sym == nil || sym.TypeInfo() == nil {
		return nil, errors.IncompleteDefn(fullname)
	}
	return sym.TypeInfo(), nil
}

func (m *ModelClassInitializer) lookupFieldTypeInfo(field *django.Field) (*checker.TypeInfo, error) {
	return m.lookupTypeInfo(field.ClassFullname)
}

// addNewMember installs a synthetic member on the model class, bound to
// the class itself and marked plugin-generated, class-initialized and
// inferred so later checking passes treat it as an ordinary attribute.
// Inserts unconditionally; presence guards are the caller's contract.
func (m *ModelClassInitializer) addNewMember(name string, typ checker.Type) {
	v := checker.NewVar(name, typ)
	v.BindToClass(m.ModelClassDef.Info)
	v.IsInitializedInClass = true
	v.IsInferred = true
	m.ModelClassDef.Info.Names[name] = &checker.SymbolTableNode{
		Kind:            checker.MemberDef,
		Node:            v,
		PluginGenerated: true,
	}
}
