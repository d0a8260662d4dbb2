package app

import (
	"context"
	"fmt"
	"log/slog"

	"modelcheck/internal/report"
	"modelcheck/internal/watcher"
)

// Watch re-analyzes the project whenever its Python sources change,
// handing each new summary to onResult. Blocks until ctx is cancelled.
func (a *App) Watch(ctx context.Context, onResult func(*report.Summary)) error {
	if a.cfg.Fixture.Path != "" {
		return fmt.Errorf("watch mode requires a project root, not a fixture")
	}

	limiter := watcher.NewLimiter(a.cfg.Watch.RescansPerSecond, a.cfg.Watch.Burst)
	w, err := watcher.NewWatcher(a.cfg.Watch.Debounce, limiter,
		a.cfg.Exclude.Dirs, a.cfg.Exclude.Files, func(paths []string) {
			slog.Info("sources changed, re-analyzing", "files", len(paths))
			summary, err := a.Analyze(ctx)
			if err != nil {
				slog.Error("re-analysis failed", "error", err)
				return
			}
			if onResult != nil {
				onResult(summary)
			}
		})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch(a.cfg.Paths.ProjectRoot); err != nil {
		return err
	}
	slog.Info("watching for changes", "root", a.cfg.Paths.ProjectRoot)

	<-ctx.Done()
	return ctx.Err()
}
