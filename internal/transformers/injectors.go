package transformers

import (
	"modelcheck/internal/checker"
	"modelcheck/internal/django"
	"modelcheck/internal/shared/observability"
)

// InjectAnyAsBaseForNestedMeta relaxes the nested Meta class so that
// any unresolvable or incompatible base falls back to Any. Every model
// conventionally declares its own unrelated Meta; without the
// relaxation the checker would reject them as incompatible overrides.
type InjectAnyAsBaseForNestedMeta struct {
	ModelClassInitializer
}

func NewInjectAnyAsBaseForNestedMeta(ctx *checker.ClassDefContext, djangoContext django.Context) Initializer {
	return &InjectAnyAsBaseForNestedMeta{initializerFromContext(ctx, djangoContext)}
}

func (i *InjectAnyAsBaseForNestedMeta) Run() error {
	meta := i.ModelClassDef.Info.NestedClass("Meta")
	if meta == nil {
		return nil
	}
	if !meta.FallbackToAny {
		meta.FallbackToAny = true
		observability.InjectedSymbols.WithLabelValues("meta_fallback").Inc()
	}
	return nil
}

// AddDefaultPrimaryKey injects the auto-generated primary key attribute
// (conventionally "id") for concrete models that do not declare one.
type AddDefaultPrimaryKey struct {
	ModelClassInitializer
}

func NewAddDefaultPrimaryKey(ctx *checker.ClassDefContext, djangoContext django.Context) Initializer {
	return &AddDefaultPrimaryKey{initializerFromContext(ctx, djangoContext)}
}

func (i *AddDefaultPrimaryKey) Run() error {
	model := i.DjangoContext.ModelByFullname(i.ModelClassDef.Fullname)
	if model == nil {
		return nil
	}

	auto := model.AutoPrimaryKey()
	if auto == nil {
		return nil
	}
	if i.ModelClassDef.Info.HasReadableMember(auto.Attname) {
		return nil
	}

	fieldInfo, err := i.lookupFieldTypeInfo(auto)
	if err != nil {
		return err
	}
	setType, getType, err := DescriptorTypes(i.API, fieldInfo, false)
	if err != nil {
		return err
	}

	i.addNewMember(auto.Attname, fieldInfo.Instance(setType, getType))
	observability.InjectedSymbols.WithLabelValues("primary_key").Inc()
	return nil
}

// AddRelatedModelsID injects the scalar shadow attribute of every
// foreign key ("author" gets "author_id"), typed from the related
// model's primary key and the foreign key's own nullability.
//
// Deliberately unguarded: the shadow id's type can refine on a later
// pass once the related model's key resolves, so an existing entry is
// overwritten with the freshly computed one.
type AddRelatedModelsID struct {
	ModelClassInitializer
}

func NewAddRelatedModelsID(ctx *checker.ClassDefContext, djangoContext django.Context) Initializer {
	return &AddRelatedModelsID{initializerFromContext(ctx, djangoContext)}
}

func (i *AddRelatedModelsID) Run() error {
	model := i.DjangoContext.ModelByFullname(i.ModelClassDef.Fullname)
	if model == nil {
		return nil
	}

	for _, field := range i.DjangoContext.Fields(model) {
		if !field.IsRelation() {
			continue
		}

		// The related model's class must already be analyzed before its
		// primary key can be trusted.
		if _, err := i.lookupTypeInfo(field.RelatedModel); err != nil {
			return err
		}
		related := i.DjangoContext.ModelByFullname(field.RelatedModel)
		if related == nil {
			continue
		}

		relPrimaryKey := i.DjangoContext.PrimaryKeyField(related)
		if relPrimaryKey == nil {
			continue
		}
		fieldInfo, err := i.lookupFieldTypeInfo(relPrimaryKey)
		if err != nil {
			return err
		}

		nullable := i.DjangoContext.FieldNullability(field)
		setType, getType, err := DescriptorTypes(i.API, fieldInfo, nullable)
		if err != nil {
			return err
		}

		i.addNewMember(field.Attname, fieldInfo.Instance(setType, getType))
		observability.InjectedSymbols.WithLabelValues("related_id").Inc()
	}
	return nil
}

// AddManagers injects every manager the model exposes at runtime as a
// Manager[ThisModel]-typed class attribute, plus the reserved
// _default_manager. Both guard on presence so user declarations win.
type AddManagers struct {
	ModelClassInitializer
}

func NewAddManagers(ctx *checker.ClassDefContext, djangoContext django.Context) Initializer {
	return &AddManagers{initializerFromContext(ctx, djangoContext)}
}

func (i *AddManagers) Run() error {
	model := i.DjangoContext.ModelByFullname(i.ModelClassDef.Fullname)
	if model == nil {
		return nil
	}

	info := i.ModelClassDef.Info
	for _, manager := range i.DjangoContext.Managers(model) {
		if _, present := info.Names[manager.Name]; present {
			continue
		}
		managerInfo, err := i.lookupTypeInfo(manager.ClassFullname)
		if err != nil {
			return err
		}
		i.addNewMember(manager.Name, managerInfo.Instance(info.Instance()))
		observability.InjectedSymbols.WithLabelValues("manager").Inc()
	}

	if _, present := info.Names[django.DefaultManagerAttname]; !present {
		defaultInfo, err := i.lookupTypeInfo(i.DjangoContext.DefaultManager(model))
		if err != nil {
			return err
		}
		i.addNewMember(django.DefaultManagerAttname, defaultInfo.Instance(info.Instance()))
		observability.InjectedSymbols.WithLabelValues("default_manager").Inc()
	}
	return nil
}
