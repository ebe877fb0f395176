package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestControlKind(t *testing.T) {
	t.Parallel()

	cases := map[string]ControlKind{
		"typography":       ControlTypography,
		"kirki-typography": ControlTypography,
		"Kirki-Background": ControlBackground,
		"dimensions":       ControlDimensions,
		"kirki-multicolor": ControlMulticolor,
		"sortable":         ControlSortable,
		"color":            ControlSimple,
		"":                 ControlSimple,
	}

	for raw, want := range cases {
		require.Equal(t, want, Field{Type: raw}.Control(), raw)
	}

	require.True(t, ControlBackground.Composite())
	require.False(t, ControlTypography.Composite())
	require.False(t, ControlSimple.Composite())
}

func TestStyleIDStripsBrackets(t *testing.T) {
	t.Parallel()

	require.Equal(t, "kirki-postmessage-theme_optionscolor", StyleID("theme_options[color]"))
	require.Equal(t, "kirki-postmessage-plain", Field{Settings: "plain"}.StyleID())
}

func TestEligibility(t *testing.T) {
	t.Parallel()

	bindings := Bindings{{Key: "0", Binding: RawBinding{Element: Selector{"body"}}}}

	cases := []struct {
		name  string
		field Field
		want  SkipReason
	}{
		{name: "live with bindings", field: Field{Settings: "a", Transport: "live", JSVars: bindings}, want: SkipNone},
		{name: "postMessage alias", field: Field{Settings: "a", Transport: "postMessage", JSVars: bindings}, want: SkipNone},
		{name: "refresh transport", field: Field{Settings: "a", Transport: "refresh", JSVars: bindings}, want: SkipNotLive},
		{name: "missing transport", field: Field{Settings: "a", JSVars: bindings}, want: SkipNotLive},
		{name: "no bindings", field: Field{Settings: "a", Transport: "live"}, want: SkipNoBindings},
		{name: "no setting", field: Field{Settings: " ", Transport: "live", JSVars: bindings}, want: SkipNoSetting},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, tc.field.Eligibility(), tc.name)
	}
}
