package descriptor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	lperrors "github.com/alexisbeaulieu97/livepreview/pkg/errors"
)

const sampleYAML = `version: "1.0"
build:
  output: preview.js
  workers: 2
  filters:
    - path: filters/banner.star
      priority: 5
fields:
  - settings: body_typography
    type: kirki-typography
    transport: postMessage
    js_vars:
      - element: body
        function: typography
  - settings: container_padding
    type: dimensions
    transport: live
    js_vars:
      outer:
        element: [".container", ".wrap"]
        property: padding
        choice: left
      inner:
        element: .inner
        property: margin
        js_callback: [myTheme.scale, {factor: 2}]
  - settings: border
    transport: live
    js_vars:
      - element: .box
        property: border
        value_pattern: "$px solid {{color}} {{style}}"
        pattern_replace:
          "{{style}}": border_style
          "{{color}}": border_color
`

func TestParseFileYAML(t *testing.T) {
	t.Parallel()

	path := writeTempDocument(t, "fields.yaml", sampleYAML)
	doc, err := ParseFile(path)
	require.NoError(t, err)

	require.Equal(t, "1.0", doc.Version)
	require.Equal(t, "preview.js", doc.Build.Output)
	require.Equal(t, 2, doc.Build.Workers)
	require.Equal(t, []FilterRef{{Path: "filters/banner.star", Priority: 5}}, doc.Build.Filters)
	require.Len(t, doc.Fields, 3)

	typo := doc.Fields[0]
	require.Equal(t, ControlTypography, typo.Control())
	require.True(t, typo.Live())
	require.Len(t, typo.JSVars, 1)
	require.Equal(t, "0", typo.JSVars[0].Key)
	require.Equal(t, Selector{"body"}, typo.JSVars[0].Binding.Element)

	dims := doc.Fields[1]
	require.Equal(t, []string{"outer", "inner"}, []string{dims.JSVars[0].Key, dims.JSVars[1].Key})
	require.Equal(t, Selector{".container", ".wrap"}, dims.JSVars[0].Binding.Element)
	require.Equal(t, "left", dims.JSVars[0].Binding.Choice)

	callback := dims.JSVars[1].Binding.Callback
	require.NotNil(t, callback)
	require.Equal(t, "myTheme.scale", callback.Name)
	require.Equal(t, map[string]any{"factor": 2}, callback.Arg)

	replacements := doc.Fields[2].JSVars[0].Binding.PatternReplace
	require.Equal(t, Replacements{
		{Placeholder: "{{style}}", Setting: "border_style"},
		{Placeholder: "{{color}}", Setting: "border_color"},
	}, replacements)
}

func TestParseJSONDocument(t *testing.T) {
	t.Parallel()

	contents := `{"version":"1.0","fields":[{"settings":"logo_text","transport":"live",
"js_vars":[{"element":".logo","function":"html","js_callback":{"name":"trim","arg":"x"}}]}]}`

	doc, err := Parse([]byte(contents), "fields.json")
	require.NoError(t, err)
	require.Len(t, doc.Fields, 1)
	binding := doc.Fields[0].JSVars[0].Binding
	require.Equal(t, "html", binding.Function)
	require.Equal(t, &Callback{Name: "trim", Arg: "x"}, binding.Callback)
}

func TestParseFileCUE(t *testing.T) {
	t.Parallel()

	contents := `version: "1.0"
fields: [{
	settings:  "header_bg"
	type:      "kirki-background"
	transport: "live"
	js_vars: [{element: ".site-header", property: "background"}]
}]
`
	path := writeTempDocument(t, "fields.cue", contents)
	doc, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, doc.Fields, 1)
	require.Equal(t, ControlBackground, doc.Fields[0].Control())
	require.Equal(t, Selector{".site-header"}, doc.Fields[0].JSVars[0].Binding.Element)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		file     string
		contents string
		line     int
	}{
		{
			name:     "type mismatch reports line",
			file:     "broken.yaml",
			contents: "version: [1, 0]\nfields: []\n",
			line:     1,
		},
		{
			name:     "js_vars scalar is rejected",
			file:     "scalar.yaml",
			contents: "version: \"1.0\"\nfields:\n  - settings: a\n    js_vars: nope\n",
			line:     4,
		},
		{
			name:     "invalid cue",
			file:     "broken.cue",
			contents: "version: \"1.0\"\nversion: \"2.0\"\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			path := writeTempDocument(t, tc.file, tc.contents)
			_, err := ParseFile(path)
			require.Error(t, err)

			var parseErr *lperrors.ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, path, parseErr.Path)
			if tc.line > 0 {
				require.Equal(t, tc.line, parseErr.Line)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.yaml"))
	var parseErr *lperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	doc, err := Parse([]byte("  \n"), "empty.yaml")
	require.NoError(t, err)
	require.Empty(t, doc.Fields)
}

func writeTempDocument(t *testing.T, name, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}
