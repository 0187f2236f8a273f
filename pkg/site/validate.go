package site

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/layout"
)

// configValidate checks the struct-tag bounds on Config.
var configValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that c describes a site a run can use. It fails with
// [errors.ErrCodeInvalidConfig] for out-of-range values and
// [errors.ErrCodeSiteTooSmall] when a canonical footprint, in either
// orientation, cannot fit inside the setback.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", describeValidation(err))
	}

	if c.PlazaSize > c.Width || c.PlazaSize > c.Height {
		return errors.New(errors.ErrCodeInvalidConfig,
			"plaza size %g does not fit a %gx%g site", c.PlazaSize, c.Width, c.Height)
	}

	span := c.Buildable()
	if span.Width() <= 0 || span.Height() <= 0 {
		return errors.New(errors.ErrCodeSiteTooSmall,
			"setback %g leaves no buildable area on a %gx%g site", c.Setback, c.Width, c.Height)
	}

	for _, t := range layout.Types {
		fp := c.Footprints.Of(t)
		longest := max(fp.Width, fp.Height)
		if longest > span.Width() || longest > span.Height() {
			return errors.New(errors.ErrCodeSiteTooSmall,
				"type %s footprint %gx%g does not fit the %gx%g buildable span in both orientations",
				t, fp.Width, fp.Height, span.Width(), span.Height())
		}
	}
	return nil
}

// describeValidation turns validator field errors into a short message.
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		parts = append(parts, fmt.Sprintf("%s must be %s %s (got %v)", field, tagOperator(fe.Tag()), fe.Param(), fe.Value()))
	}
	return strings.Join(parts, "; ")
}

func tagOperator(tag string) string {
	switch tag {
	case "gt":
		return ">"
	case "gte":
		return ">="
	case "lt":
		return "<"
	case "lte":
		return "<="
	}
	return tag
}
