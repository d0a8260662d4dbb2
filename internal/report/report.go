// Package report renders analysis results for the terminal and for
// machine-readable export.
package report

// Symbol is one synthetic member added to a model class.
type Symbol struct {
	Name     string
	Type     string
	Injector string
}

// ModelReport groups the injected symbols of one model class.
type ModelReport struct {
	Fullname string
	Symbols  []Symbol
}

// Summary is the rendered view of a single analysis run.
type Summary struct {
	RunID      string
	ProjectKey string
	FileCount  int
	ModelCount int
	Passes     int
	Deferrals  int
	Errors     int
	// Incomplete counts lookups still unresolved on the final pass.
	Incomplete int
	Models     []ModelReport
}

// InjectedCount is the total number of symbols across all models.
func (s *Summary) InjectedCount() int {
	total := 0
	for _, m := range s.Models {
		total += len(m.Symbols)
	}
	return total
}
