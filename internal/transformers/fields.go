package transformers

import (
	"modelcheck/internal/checker"
	"modelcheck/internal/core/errors"
	"modelcheck/internal/django"
)

// DescriptorTypes computes the (set, get) pair used for descriptor-style
// attribute typing of a field class: the scalar type the field stores,
// widened with None when the column is nullable. Field classes without
// a known scalar mapping fall back to Any rather than failing.
func DescriptorTypes(api *checker.Analyzer, fieldInfo *checker.TypeInfo, nullable bool) (checker.Type, checker.Type, error) {
	var base checker.Type

	scalar, ok := django.ScalarType(fieldInfo.Fullname())
	if !ok {
		base = checker.AnyType{}
	} else {
		sym := api.LookupFullyQualified(scalar)
		info := sym.TypeInfo()
		if info == nil {
			return nil, nil, errors.IncompleteDefn(scalar)
		}
		base = info.Instance()
	}

	if nullable {
		opt := checker.Optional(base)
		return opt, opt, nil
	}
	return base, base, nil
}
