package routing

import (
	"errors"
	"fmt"
)

// Validate checks every descriptor of a table, nested ones included, and
// returns all problems found joined into one error
func Validate(descriptors []RouteDescriptor) error {
	var errs []error
	validateLevel(descriptors, "", &errs)
	return errors.Join(errs...)
}

func validateLevel(descriptors []RouteDescriptor, parent string, errs *[]error) {
	for i, d := range descriptors {
		where := fmt.Sprintf("%sroutes[%d]", parent, i)

		if d.Path == "" {
			*errs = append(*errs, fmt.Errorf("%s: empty path", where))
			continue
		}
		if _, err := compilePattern(d.Path); err != nil {
			*errs = append(*errs, fmt.Errorf("%s (%s): %w", where, d.Path, err))
		}
		if d.Page == "" && d.Render == "" && len(d.Routes) == 0 {
			*errs = append(*errs, fmt.Errorf("%s (%s): no page, render text or nested routes", where, d.Path))
		}
		if d.Page != "" && d.Render != "" {
			*errs = append(*errs, fmt.Errorf("%s (%s): both page and render text set", where, d.Path))
		}

		validateLevel(d.Routes, where+".", errs)
	}
}
