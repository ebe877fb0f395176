package binding

import (
	"strings"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
)

// Kind selects the handler that turns a binding into script.
type Kind int

const (
	KindScalar Kind = iota
	KindComposite
	KindTypography
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindComposite:
		return "array"
	case KindTypography:
		return "typography"
	case KindHTML:
		return "html"
	default:
		return "scalar"
	}
}

// ResolveKind maps a declared function kind to a handler. Explicit kinds win; an absent or
// unrecognised function falls back to the default of the field's control, which is scalar
// for every control that is neither composite nor typography.
func ResolveKind(function string, control descriptor.ControlKind) Kind {
	switch strings.ToLower(strings.TrimSpace(function)) {
	case "html":
		return KindHTML
	case "array":
		return KindComposite
	case "typography":
		return KindTypography
	case "scalar":
		return KindScalar
	}

	switch {
	case control == descriptor.ControlTypography:
		return KindTypography
	case control.Composite():
		return KindComposite
	default:
		return KindScalar
	}
}
