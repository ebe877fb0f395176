package descriptor

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	lperrors "github.com/alexisbeaulieu97/livepreview/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	semverPattern       = regexp.MustCompile(`^\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z-.]+)?(?:\+[0-9A-Za-z-.]+)?$`)
	jsIdentifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(?:\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)
	transports          = map[string]struct{}{TransportLive: {}, TransportPostMessage: {}, TransportRefresh: {}}
)

// IsJSIdentifierPath reports whether name is a dotted JavaScript identifier path such as
// "myTheme.helpers.px".
func IsJSIdentifierPath(name string) bool {
	return jsIdentifierPattern.MatchString(name)
}

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("semver", func(fl validator.FieldLevel) bool {
			return semverPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("transport", func(fl validator.FieldLevel) bool {
			_, ok := transports[fl.Field().String()]
			return ok
		})

		_ = v.RegisterValidation("js_identifier", func(fl validator.FieldLevel) bool {
			return IsJSIdentifierPath(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// Validate performs schema and cross-field validation on a descriptor document.
func Validate(doc *Document) error {
	if doc == nil {
		return lperrors.NewValidationError("document", "document is nil", nil)
	}

	v := validatorInstance()
	if err := v.Struct(doc); err != nil {
		return convertValidationError(err)
	}

	owners := make(map[string]int, len(doc.Fields))
	for i, field := range doc.Fields {
		if !field.Live() {
			continue
		}
		id := field.StyleID()
		if prev, exists := owners[id]; exists {
			return lperrors.NewValidationError(
				fieldForIndex(i, "settings"),
				fmt.Sprintf("style element id %q already owned by fields[%d] (%q)", id, prev, doc.Fields[prev].Settings),
				nil,
			)
		}
		owners[id] = i
	}

	return nil
}
