package descriptor

import (
	"strings"
)

// StylePrefix prefixes the id of every per-field style element.
const StylePrefix = "kirki-postmessage-"

// Transport values understood by the scanner.
const (
	TransportLive = "live"
	// TransportPostMessage is the historical name of the live transport.
	TransportPostMessage = "postMessage"
	TransportRefresh     = "refresh"
)

// ControlKind classifies the UI control a field is bound to.
type ControlKind string

const (
	ControlSimple     ControlKind = "simple"
	ControlTypography ControlKind = "typography"
	ControlBackground ControlKind = "background"
	ControlDimensions ControlKind = "dimensions"
	ControlMulticolor ControlKind = "multicolor"
	ControlSortable   ControlKind = "sortable"
)

// Composite reports whether the control stores a mapping of sub-key to sub-value.
func (k ControlKind) Composite() bool {
	switch k {
	case ControlBackground, ControlDimensions, ControlMulticolor, ControlSortable:
		return true
	default:
		return false
	}
}

// Document is a descriptor file: build settings plus the ordered field list.
type Document struct {
	Version string        `yaml:"version" validate:"required,semver"`
	Build   BuildSettings `yaml:"build,omitempty"`
	Fields  []Field       `yaml:"fields" validate:"dive"`
}

// BuildSettings configures how the document is compiled by the CLI.
type BuildSettings struct {
	Output  string      `yaml:"output,omitempty"`
	Workers int         `yaml:"workers,omitempty" validate:"omitempty,min=1,max=64"`
	Filters []FilterRef `yaml:"filters,omitempty" validate:"omitempty,dive"`
}

// FilterRef attaches a Starlark filter file to the script hook.
type FilterRef struct {
	Path     string `yaml:"path" validate:"required"`
	Priority int    `yaml:"priority,omitempty"`
}

// Field is one field descriptor as supplied by the registry.
type Field struct {
	Settings  string   `yaml:"settings" validate:"required"`
	Type      string   `yaml:"type,omitempty"`
	Transport string   `yaml:"transport,omitempty" validate:"omitempty,transport"`
	JSVars    Bindings `yaml:"js_vars,omitempty" validate:"omitempty,dive"`
}

// Control resolves the field type to a ControlKind. The "kirki-" prefix is optional and
// unknown types are simple controls.
func (f Field) Control() ControlKind {
	kind := ControlKind(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f.Type)), "kirki-"))
	switch kind {
	case ControlTypography, ControlBackground, ControlDimensions, ControlMulticolor, ControlSortable:
		return kind
	default:
		return ControlSimple
	}
}

// Live reports whether the field uses the live transport.
func (f Field) Live() bool {
	return f.Transport == TransportLive || f.Transport == TransportPostMessage
}

// StyleID is the id of the style element owned by the field at runtime.
func (f Field) StyleID() string {
	return StyleID(f.Settings)
}

// StyleID derives a style element id from a setting key by stripping brackets.
func StyleID(setting string) string {
	return StylePrefix + strings.NewReplacer("[", "", "]", "").Replace(setting)
}

// SkipReason explains why a field was left out of compilation.
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipNoSetting  SkipReason = "no-setting"
	SkipNotLive    SkipReason = "not-live"
	SkipNoBindings SkipReason = "no-bindings"
)

// Eligibility reports whether the field takes part in compilation.
func (f Field) Eligibility() SkipReason {
	switch {
	case !f.Live():
		return SkipNotLive
	case len(f.JSVars) == 0:
		return SkipNoBindings
	case strings.TrimSpace(f.Settings) == "":
		return SkipNoSetting
	default:
		return SkipNone
	}
}

// Bindings is the ordered js_vars mapping of a field.
type Bindings []KeyedBinding

// KeyedBinding pairs a binding with the key it was declared under.
type KeyedBinding struct {
	Key     string
	Binding RawBinding
}

// RawBinding is a variable binding exactly as declared; see binding.Normalize for the
// fully populated form.
type RawBinding struct {
	Element        Selector     `yaml:"element,omitempty"`
	Function       string       `yaml:"function,omitempty"`
	Property       string       `yaml:"property,omitempty"`
	Prefix         string       `yaml:"prefix,omitempty"`
	Suffix         string       `yaml:"suffix,omitempty"`
	Units          string       `yaml:"units,omitempty"`
	ValuePattern   string       `yaml:"value_pattern,omitempty"`
	Callback       *Callback    `yaml:"js_callback,omitempty" validate:"omitempty"`
	Choice         string       `yaml:"choice,omitempty"`
	Attr           string       `yaml:"attr,omitempty"`
	MediaQuery     string       `yaml:"media_query,omitempty"`
	PatternReplace Replacements `yaml:"pattern_replace,omitempty"`
}

// Selector is one or more target element selectors.
type Selector []string

// Callback references a preview-side function applied to the value before use.
type Callback struct {
	Name string `validate:"omitempty,js_identifier"`
	Arg  any
}

// Replacements is the ordered pattern_replace mapping.
type Replacements []Replacement

// Replacement substitutes Placeholder in a value pattern with the current value of Setting.
type Replacement struct {
	Placeholder string
	Setting     string
}
