package report

import (
	"fmt"
	"strings"
)

type TSVGenerator struct {
	summary *Summary
}

func NewTSVGenerator(summary *Summary) *TSVGenerator {
	return &TSVGenerator{summary: summary}
}

func (t *TSVGenerator) Generate() (string, error) {
	var buf strings.Builder

	buf.WriteString("Model\tSymbol\tType\tInjector\n")
	for _, m := range t.summary.Models {
		for _, sym := range m.Symbols {
			buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\n",
				m.Fullname, sym.Name, sym.Type, sym.Injector))
		}
	}

	return buf.String(), nil
}
