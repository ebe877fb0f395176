package descriptor

import (
	"testing"

	"github.com/stretchr/testify/require"

	lperrors "github.com/alexisbeaulieu97/livepreview/pkg/errors"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	live := func(setting string, b RawBinding) Field {
		return Field{Settings: setting, Transport: "live", JSVars: Bindings{{Key: "0", Binding: b}}}
	}

	cases := []struct {
		name      string
		doc       *Document
		wantField string
	}{
		{
			name: "valid document",
			doc: &Document{Version: "1.0", Fields: []Field{
				live("a", RawBinding{Element: Selector{"body"}, Callback: &Callback{Name: "theme.px"}}),
				{Settings: "b", Transport: "refresh"},
			}},
		},
		{
			name:      "nil document",
			wantField: "document",
		},
		{
			name:      "bad version",
			doc:       &Document{Version: "beta"},
			wantField: "version",
		},
		{
			name:      "unknown transport",
			doc:       &Document{Version: "1.0", Fields: []Field{{Settings: "a", Transport: "ajax"}}},
			wantField: "fields[0].transport",
		},
		{
			name:      "missing settings",
			doc:       &Document{Version: "1.0", Fields: []Field{{Transport: "live"}}},
			wantField: "fields[0].settings",
		},
		{
			name: "callback name must be an identifier path",
			doc: &Document{Version: "1.0", Fields: []Field{
				live("a", RawBinding{Callback: &Callback{Name: "alert(1)"}}),
			}},
			wantField: "fields[0].jsvars[0].binding.callback.name",
		},
		{
			name: "style ids collide after bracket stripping",
			doc: &Document{Version: "1.0", Fields: []Field{
				live("opts[color]", RawBinding{}),
				live("optscolor", RawBinding{}),
			}},
			wantField: "fields[1].settings",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tc.doc)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}

			var validationErr *lperrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Equal(t, tc.wantField, validationErr.Field)
		})
	}
}

func TestIsJSIdentifierPath(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"fn", "my_theme.fn", "$.fn", "a1.b2"} {
		require.True(t, IsJSIdentifierPath(ok), ok)
	}
	for _, bad := range []string{"", "1fn", "a..b", "fn()", "a-b", "a.b."} {
		require.False(t, IsJSIdentifierPath(bad), bad)
	}
}
