package binding

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
)

func TestResolveKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		function string
		control  descriptor.ControlKind
		want     Kind
	}{
		{function: "html", control: descriptor.ControlTypography, want: KindHTML},
		{function: "array", control: descriptor.ControlSimple, want: KindComposite},
		{function: "typography", control: descriptor.ControlSimple, want: KindTypography},
		{function: "scalar", control: descriptor.ControlBackground, want: KindScalar},
		{function: "", control: descriptor.ControlSimple, want: KindScalar},
		{function: "", control: descriptor.ControlDimensions, want: KindComposite},
		{function: "", control: descriptor.ControlSortable, want: KindComposite},
		{function: "", control: descriptor.ControlTypography, want: KindTypography},
		{function: "css", control: descriptor.ControlSimple, want: KindScalar},
		{function: "style", control: descriptor.ControlMulticolor, want: KindComposite},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, ResolveKind(tc.function, tc.control), "%s/%s", tc.function, tc.control)
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "scalar", KindScalar.String())
	require.Equal(t, "array", KindComposite.String())
	require.Equal(t, "typography", KindTypography.String())
	require.Equal(t, "html", KindHTML.String())
}

func TestNormalizeFillsDefaults(t *testing.T) {
	t.Parallel()

	b := Normalize(3, descriptor.KeyedBinding{Key: "main"}, descriptor.ControlSimple)

	require.Equal(t, Binding{Key: "main", Index: 3, Kind: KindScalar}, b)
	require.False(t, b.Callback.Set())
}

func TestNormalizeCoercesShapes(t *testing.T) {
	t.Parallel()

	raw := descriptor.RawBinding{
		Element:    descriptor.Selector{" h1 ", "", ".title"},
		Property:   " color ",
		Units:      "px",
		Choice:     " left ",
		MediaQuery: " @media (min-width: 600px) ",
		Callback:   &descriptor.Callback{Name: "theme.scale", Arg: map[string]any{"factor": 2, "keys": []any{"a", "b"}}},
		PatternReplace: descriptor.Replacements{
			{Placeholder: "{{c}}", Setting: "accent"},
		},
	}

	b := Normalize(0, descriptor.KeyedBinding{Key: "0", Binding: raw}, descriptor.ControlDimensions)

	require.Equal(t, KindComposite, b.Kind)
	require.Equal(t, "h1,.title", b.Selector)
	require.Equal(t, "color", b.Property)
	require.Equal(t, "left", b.Choice)
	require.Equal(t, "@media (min-width: 600px)", b.MediaQuery)
	require.Equal(t, Callback{Name: "theme.scale", Arg: `{"factor":2,"keys":["a","b"]}`}, b.Callback)
	require.Equal(t, []descriptor.Replacement{{Placeholder: "{{c}}", Setting: "accent"}}, b.Replacements)
}

func TestNormalizeCallbackArguments(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cb   *descriptor.Callback
		want Callback
	}{
		{name: "absent", cb: nil, want: Callback{}},
		{name: "no argument", cb: &descriptor.Callback{Name: "fn"}, want: Callback{Name: "fn"}},
		{name: "string argument is quoted", cb: &descriptor.Callback{Name: "fn", Arg: "it's"}, want: Callback{Name: "fn", Arg: `"it's"`}},
		{name: "number argument", cb: &descriptor.Callback{Name: "fn", Arg: 1.5}, want: Callback{Name: "fn", Arg: `1.5`}},
		{name: "non string map keys", cb: &descriptor.Callback{Name: "fn", Arg: map[any]any{1: "one"}}, want: Callback{Name: "fn", Arg: `{"1":"one"}`}},
		{name: "script injection in name is dropped", cb: &descriptor.Callback{Name: "x);alert(1"}, want: Callback{}},
		{name: "empty name", cb: &descriptor.Callback{Arg: "x"}, want: Callback{}},
	}

	for _, tc := range cases {
		b := Normalize(0, descriptor.KeyedBinding{Binding: descriptor.RawBinding{Callback: tc.cb}}, descriptor.ControlSimple)
		require.Equal(t, tc.want, b.Callback, tc.name)
	}
}

func TestNormalizeField(t *testing.T) {
	t.Parallel()

	field := descriptor.Field{
		Type: "kirki-typography",
		JSVars: descriptor.Bindings{
			{Key: "heading", Binding: descriptor.RawBinding{Element: descriptor.Selector{"h1"}}},
			{Key: "title", Binding: descriptor.RawBinding{Element: descriptor.Selector{"title"}, Function: "html"}},
		},
	}

	bindings := NormalizeField(field)
	require.Len(t, bindings, 2)
	require.Equal(t, KindTypography, bindings[0].Kind)
	require.Equal(t, 0, bindings[0].Index)
	require.Equal(t, KindHTML, bindings[1].Kind)
	require.Equal(t, "title", bindings[1].Key)
	require.Equal(t, 1, bindings[1].Index)
}
