package policy

import (
	"strings"

	"github.com/alexisbeaulieu97/livepreview/internal/binding"
	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
)

// Input is the document shape the lint rules evaluate.
type Input struct {
	Fields []FieldInput `json:"fields"`
}

// FieldInput is one field as seen by the rules.
type FieldInput struct {
	Index     int            `json:"index"`
	Settings  string         `json:"settings"`
	StyleID   string         `json:"style_id"`
	Type      string         `json:"type"`
	Control   string         `json:"control"`
	Transport string         `json:"transport"`
	Live      bool           `json:"live"`
	Bindings  []BindingInput `json:"bindings"`
}

// BindingInput is one raw binding with the handler it resolves to.
type BindingInput struct {
	Key          string   `json:"key"`
	Function     string   `json:"function"`
	Handler      string   `json:"handler"`
	Element      []string `json:"element"`
	Property     string   `json:"property"`
	Callback     string   `json:"callback"`
	Choice       string   `json:"choice"`
	Attr         string   `json:"attr"`
	ValuePattern string   `json:"value_pattern"`
	Placeholders []string `json:"placeholders"`
}

// NewInput flattens a document for evaluation. Raw values are kept so rules can see what
// normalization would silently drop.
func NewInput(doc *descriptor.Document) Input {
	in := Input{Fields: []FieldInput{}}
	if doc == nil {
		return in
	}
	for i, f := range doc.Fields {
		control := f.Control()
		fi := FieldInput{
			Index:     i,
			Settings:  f.Settings,
			StyleID:   f.StyleID(),
			Type:      f.Type,
			Control:   string(control),
			Transport: f.Transport,
			Live:      f.Live(),
			Bindings:  make([]BindingInput, 0, len(f.JSVars)),
		}
		for _, kb := range f.JSVars {
			raw := kb.Binding
			bi := BindingInput{
				Key:          kb.Key,
				Function:     strings.ToLower(strings.TrimSpace(raw.Function)),
				Handler:      binding.ResolveKind(raw.Function, control).String(),
				Element:      nonEmpty(raw.Element),
				Property:     strings.TrimSpace(raw.Property),
				Choice:       raw.Choice,
				Attr:         raw.Attr,
				ValuePattern: raw.ValuePattern,
				Placeholders: make([]string, 0, len(raw.PatternReplace)),
			}
			if raw.Callback != nil {
				bi.Callback = strings.TrimSpace(raw.Callback.Name)
			}
			for _, r := range raw.PatternReplace {
				if r.Placeholder != "" {
					bi.Placeholders = append(bi.Placeholders, r.Placeholder)
				}
			}
			fi.Bindings = append(fi.Bindings, bi)
		}
		in.Fields = append(in.Fields, fi)
	}
	return in
}

func nonEmpty(sel descriptor.Selector) []string {
	out := make([]string, 0, len(sel))
	for _, s := range sel {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
