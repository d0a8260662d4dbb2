package transformers

import (
	"log/slog"

	"modelcheck/internal/checker"
	"modelcheck/internal/core/errors"
	"modelcheck/internal/django"
	"modelcheck/internal/shared/observability"
)

type initializerConstructor func(*checker.ClassDefContext, django.Context) Initializer

// initializers is the fixed, order-significant pipeline: Meta fallback
// first, then the primary key, then foreign-key shadow ids (which need
// related models' keys), then managers.
var initializers = []initializerConstructor{
	NewInjectAnyAsBaseForNestedMeta,
	NewAddDefaultPrimaryKey,
	NewAddRelatedModelsID,
	NewAddManagers,
}

// ProcessModelClass runs the full initializer pipeline over one model
// class definition. An incomplete-definition signal defers the class to
// the next analysis pass, except on the final pass where it is dropped
// and the class keeps whatever resolved so far. The signal never
// escapes; any other error is returned to the analyzer's error log.
func ProcessModelClass(ctx *checker.ClassDefContext, djangoContext django.Context) error {
	for _, construct := range initializers {
		err := construct(ctx, djangoContext).Run()
		if err == nil {
			continue
		}
		if errors.IsCode(err, errors.CodeIncompleteDefn) {
			if ctx.API.FinalIteration() {
				observability.FinalPassIncomplete.Inc()
				ctx.API.NoteUnresolved()
				slog.Debug("definition still incomplete on final pass",
					"class", ctx.Cls.Fullname, "reason", err)
				continue
			}
			observability.Deferrals.Inc()
			ctx.API.Defer()
			continue
		}
		return err
	}
	return nil
}
