package app

import (
	"strings"

	"modelcheck/internal/checker"
	"modelcheck/internal/django"
	"modelcheck/internal/pysrc"
)

// world is the symbol environment one analysis run operates on: the
// analyzer seeded with framework stubs and non-model user classes, plus
// one ClassDef per model in declaration order.
type world struct {
	analyzer   *checker.Analyzer
	classes    []*checker.ClassDef
	byFullname map[string]*checker.ClassDef
}

func buildWorld(files []*pysrc.File, sources []*django.ModelSource) *world {
	w := &world{
		analyzer:   checker.NewAnalyzer(),
		byFullname: make(map[string]*checker.ClassDef),
	}
	for _, info := range django.StubTypeInfos() {
		w.analyzer.AddTypeInfo(info)
	}
	modelStub := w.analyzer.LookupFullyQualified(django.ModelFullname).TypeInfo()
	managerStub := w.analyzer.LookupFullyQualified(django.ManagerFullname).TypeInfo()

	modelSet := make(map[string]bool, len(sources))
	for _, src := range sources {
		modelSet[src.Model.Fullname] = true
	}

	// One TypeInfo per user class, bases resolved afterwards so order of
	// declaration does not matter for the class hierarchy itself.
	infos := make(map[string]*checker.TypeInfo)
	short := make(map[string][]string)
	for _, file := range files {
		for _, cls := range file.Classes {
			infos[cls.Fullname] = checker.NewTypeInfo(cls.Name, cls.Fullname)
			short[cls.Name] = append(short[cls.Name], cls.Fullname)
		}
	}

	// Fixture runs have no parsed classes; synthesize infos from the
	// model metadata instead.
	for _, src := range sources {
		if _, ok := infos[src.Model.Fullname]; !ok {
			infos[src.Model.Fullname] = checker.NewTypeInfo(
				src.Model.Name, src.Model.Fullname, modelStub)
		}
		for _, mgr := range src.Model.Managers {
			if _, ok := infos[mgr.ClassFullname]; !ok && mgr.ClassFullname != django.ManagerFullname {
				infos[mgr.ClassFullname] = checker.NewTypeInfo(
					shortName(mgr.ClassFullname), mgr.ClassFullname, managerStub)
			}
		}
	}

	for _, file := range files {
		for _, cls := range file.Classes {
			info := infos[cls.Fullname]
			for _, base := range cls.Bases {
				if resolved := resolveBase(base, infos, short, modelStub, managerStub); resolved != nil {
					info.Bases = append(info.Bases, resolved)
				}
			}
			if len(info.Bases) == 0 {
				if modelSet[cls.Fullname] {
					info.Bases = append(info.Bases, modelStub)
				}
			}
		}
	}

	// Non-model classes (custom managers, plain helpers) are module-level
	// definitions resolved before any plugin hook fires; models become
	// visible only as the analyzer reaches them.
	for fullname, info := range infos {
		if !modelSet[fullname] {
			w.analyzer.AddTypeInfo(info)
		}
	}

	for _, src := range sources {
		info := infos[src.Model.Fullname]
		cls := &checker.ClassDef{
			Name:     src.Model.Name,
			Fullname: src.Model.Fullname,
			Info:     info,
		}
		if src.Class != nil {
			cls.File = src.Class.Fullname
			cls.Line = src.Class.Line
			seedUserMembers(info, src.Class)
		}
		w.classes = append(w.classes, cls)
		w.byFullname[cls.Fullname] = cls
	}
	return w
}

// seedUserMembers binds every class-body assignment target as a
// user-written member so the presence-guarded injectors let user
// declarations win, and registers the nested Meta class when present.
func seedUserMembers(info *checker.TypeInfo, cls *pysrc.Class) {
	for _, assignment := range cls.Assignments {
		if assignment.Target == "" {
			continue
		}
		v := checker.NewVar(assignment.Target, checker.AnyType{})
		v.BindToClass(info)
		v.IsInitializedInClass = true
		info.Names[assignment.Target] = &checker.SymbolTableNode{
			Kind: checker.MemberDef,
			Node: v,
		}
	}

	if cls.HasMeta {
		meta := checker.NewTypeInfo("Meta", cls.Fullname+".Meta")
		info.Names["Meta"] = &checker.SymbolTableNode{
			Kind: checker.MemberDef,
			Node: meta,
		}
	}
}

func resolveBase(base string, infos map[string]*checker.TypeInfo, short map[string][]string, modelStub, managerStub *checker.TypeInfo) *checker.TypeInfo {
	if info, ok := infos[base]; ok {
		return info
	}

	name := base
	if i := strings.LastIndex(base, "."); i >= 0 {
		name = base[i+1:]
	}
	switch {
	case base == "models.Model" || base == django.ModelFullname || name == "Model":
		return modelStub
	case base == "models.Manager" || base == django.ManagerFullname || name == "Manager":
		return managerStub
	}
	if candidates := short[name]; len(candidates) == 1 {
		return infos[candidates[0]]
	}
	return nil
}

func shortName(fullname string) string {
	if i := strings.LastIndex(fullname, "."); i >= 0 {
		return fullname[i+1:]
	}
	return fullname
}
