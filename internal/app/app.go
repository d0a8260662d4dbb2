// Package app wires scanning, parsing, introspection and the analysis
// pipeline into the tool's top-level operations.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"modelcheck/internal/checker"
	"modelcheck/internal/config"
	"modelcheck/internal/django"
	"modelcheck/internal/pysrc"
	"modelcheck/internal/report"
	"modelcheck/internal/shared/observability"
	"modelcheck/internal/store"
	"modelcheck/internal/transformers"
)

type App struct {
	cfg     *config.Config
	scanner *pysrc.Scanner
	parser  *pysrc.Parser
	store   *store.Store
}

func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	scanner, err := pysrc.NewScanner(cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		scanner: scanner,
		parser:  pysrc.NewParser(),
	}

	if cfg.DB.Enabled {
		st, err := store.Open(cfg.DB.Path)
		if err != nil {
			return nil, err
		}
		a.store = st
	}
	return a, nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.store.Close()
}

// Analyze runs one full pipeline pass: collect model metadata, process
// every model class to a fixed point, and summarize what was injected.
func (a *App) Analyze(ctx context.Context) (*report.Summary, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Analyze")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	var (
		files    []*pysrc.File
		registry *django.Registry
		sources  []*django.ModelSource
	)

	if a.cfg.Fixture.Path != "" {
		fixtureRegistry, err := django.LoadFixture(a.cfg.Fixture.Path)
		if err != nil {
			return nil, err
		}
		registry = fixtureRegistry
		for _, m := range registry.Models() {
			sources = append(sources, &django.ModelSource{Model: m})
		}
	} else {
		parsed, err := a.parseProject(ctx)
		if err != nil {
			return nil, err
		}
		files = parsed
		introspection := django.Introspect(files)
		registry = introspection.Registry
		sources = introspection.Sources
	}

	observability.ModelClasses.Set(float64(len(sources)))

	w := buildWorld(files, sources)
	result := w.analyzer.Run(w.classes, a.cfg.Analysis.MaxPasses, func(cctx *checker.ClassDefContext) error {
		return transformers.ProcessModelClass(cctx, registry)
	})
	observability.AnalysisPasses.Observe(float64(result.Passes))

	summary := a.summarize(files, registry, sources, w, result)

	if err := a.persist(summary); err != nil {
		slog.Warn("failed to persist run", "error", err)
	}

	slog.Info("analysis complete",
		"models", summary.ModelCount,
		"passes", summary.Passes,
		"injected", summary.InjectedCount(),
		"deferrals", summary.Deferrals,
		"errors", summary.Errors)
	return summary, nil
}

func (a *App) parseProject(ctx context.Context) ([]*pysrc.File, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.parseProject")
	defer span.End()

	root := a.cfg.Paths.ProjectRoot
	paths, err := a.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	files := make([]*pysrc.File, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("failed to read source", "path", path, "error", err)
			continue
		}
		file, err := a.parser.ParseFile(path, pysrc.ModuleName(root, path), content)
		if err != nil {
			slog.Warn("failed to parse source", "path", path, "error", err)
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

func (a *App) summarize(files []*pysrc.File, registry *django.Registry, sources []*django.ModelSource, w *world, result checker.RunResult) *report.Summary {
	summary := &report.Summary{
		RunID:      uuid.NewString(),
		ProjectKey: a.cfg.Analysis.ProjectKey,
		FileCount:  len(files),
		ModelCount: len(sources),
		Passes:     result.Passes,
		Deferrals:  result.Deferrals,
		Errors:     result.Errors,
		Incomplete: w.analyzer.Unresolved(),
	}

	for _, src := range sources {
		cls := w.byFullname[src.Model.Fullname]
		if cls == nil {
			continue
		}
		modelReport := report.ModelReport{Fullname: src.Model.Fullname}
		for _, name := range sortedNames(cls.Info.Names) {
			sym := cls.Info.Names[name]
			if !sym.PluginGenerated {
				continue
			}
			v := sym.Var()
			if v == nil {
				continue
			}
			modelReport.Symbols = append(modelReport.Symbols, report.Symbol{
				Name:     name,
				Type:     v.Type.String(),
				Injector: classifyInjector(src.Model, name),
			})
		}
		summary.Models = append(summary.Models, modelReport)
	}
	return summary
}

// classifyInjector attributes an injected member back to its pipeline
// stage for reporting and persistence.
func classifyInjector(m *django.Model, name string) string {
	if name == django.DefaultManagerAttname {
		return "default_manager"
	}
	if pk := m.PrimaryKey(); pk != nil && pk.Attname == name {
		return "primary_key"
	}
	for _, f := range m.Fields {
		if f.IsRelation() && f.Attname == name {
			return "related_id"
		}
	}
	for _, mgr := range m.Managers {
		if mgr.Name == name {
			return "manager"
		}
	}
	return "unknown"
}

func (a *App) persist(summary *report.Summary) error {
	if a.store == nil {
		return nil
	}

	run := store.Run{
		ID:            summary.RunID,
		ProjectKey:    summary.ProjectKey,
		Timestamp:     time.Now().UTC(),
		ModelCount:    summary.ModelCount,
		PassCount:     summary.Passes,
		DeferralCount: summary.Deferrals,
		InjectedCount: summary.InjectedCount(),
	}

	var symbols []store.InjectedSymbol
	for _, m := range summary.Models {
		for _, sym := range m.Symbols {
			symbols = append(symbols, store.InjectedSymbol{
				RunID:         run.ID,
				ModelFullname: m.Fullname,
				Name:          sym.Name,
				Type:          sym.Type,
				Injector:      sym.Injector,
			})
		}
	}
	return a.store.SaveRun(run, symbols)
}

func sortedNames(names checker.SymbolTable) []string {
	out := make([]string, 0, len(names))
	for name := range names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
