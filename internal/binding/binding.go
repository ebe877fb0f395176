package binding

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
)

// Binding is a fully populated variable binding. Every string field is set, possibly empty.
type Binding struct {
	// Key is the js_vars key the binding was declared under.
	Key string
	// Index is the binding's position in its field; it names the binding's runtime locals.
	Index int
	Kind  Kind

	Selector     string
	Property     string
	Prefix       string
	Suffix       string
	Units        string
	ValuePattern string
	Callback     Callback
	Choice       string
	Attr         string
	MediaQuery   string
	Replacements []descriptor.Replacement
}

// Callback is a preview-side transform applied as value=Name(value,Arg).
type Callback struct {
	Name string
	// Arg is a JSON literal, empty when the callback takes no static argument.
	Arg string
}

// Set reports whether a callback is configured.
func (c Callback) Set() bool { return c.Name != "" }

// Normalize builds a Binding from a raw declaration, filling defaults and coercing shapes.
func Normalize(index int, kb descriptor.KeyedBinding, control descriptor.ControlKind) Binding {
	raw := kb.Binding

	return Binding{
		Key:          kb.Key,
		Index:        index,
		Kind:         ResolveKind(raw.Function, control),
		Selector:     joinSelector(raw.Element),
		Property:     strings.TrimSpace(raw.Property),
		Prefix:       raw.Prefix,
		Suffix:       raw.Suffix,
		Units:        raw.Units,
		ValuePattern: raw.ValuePattern,
		Callback:     normalizeCallback(raw.Callback),
		Choice:       strings.TrimSpace(raw.Choice),
		Attr:         strings.TrimSpace(raw.Attr),
		MediaQuery:   strings.TrimSpace(raw.MediaQuery),
		Replacements: append([]descriptor.Replacement(nil), raw.PatternReplace...),
	}
}

// NormalizeField normalizes every binding of a field in declaration order.
func NormalizeField(field descriptor.Field) []Binding {
	control := field.Control()
	out := make([]Binding, 0, len(field.JSVars))
	for i, kb := range field.JSVars {
		out = append(out, Normalize(i, kb, control))
	}
	return out
}

func joinSelector(sel descriptor.Selector) string {
	parts := make([]string, 0, len(sel))
	for _, s := range sel {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ",")
}

// normalizeCallback drops callbacks whose name is not a dotted identifier path, since the
// name is emitted as code.
func normalizeCallback(cb *descriptor.Callback) Callback {
	if cb == nil {
		return Callback{}
	}
	name := strings.TrimSpace(cb.Name)
	if !descriptor.IsJSIdentifierPath(name) {
		return Callback{}
	}
	return Callback{Name: name, Arg: encodeArg(cb.Arg)}
}

// encodeArg serializes a static callback argument into a compact JSON literal.
func encodeArg(arg any) string {
	if arg == nil {
		return ""
	}
	out, err := json.Marshal(jsonable(arg))
	if err != nil {
		out, _ = json.Marshal(fmt.Sprint(arg))
	}
	return string(out)
}

// jsonable rewrites maps with non-string keys, which YAML allows and JSON does not.
func jsonable(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = jsonable(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonable(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonable(item)
		}
		return out
	default:
		return v
	}
}
