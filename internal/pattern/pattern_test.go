package pattern

import (
	"testing"

	"github.com/robertkrimen/otto"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/livepreview/internal/descriptor"
	"github.com/alexisbeaulieu97/livepreview/internal/script"
)

func TestExpand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		template     string
		replacements []descriptor.Replacement
		want         string
	}{
		{name: "empty template", template: "", want: ""},
		{name: "units suffix", template: "$px", want: "newval0=newval0+'px';"},
		{name: "value only", template: "$", want: "newval0=newval0;"},
		{name: "no sentinel", template: "none", want: "newval0='none';"},
		{
			name:     "sentinel in the middle",
			template: "calc($ * 2)",
			want:     "newval0='calc('+newval0+' * 2)';",
		},
		{
			name:         "placeholder reference",
			template:     "$px solid {{color}}",
			replacements: []descriptor.Replacement{{Placeholder: "{{color}}", Setting: "border_color"}},
			want:         "var settings=window.wp.customize.get();newval0=newval0+'px solid '+settings['border_color'];",
		},
		{
			name:     "placeholder and value adjacent",
			template: "{{w}}$",
			replacements: []descriptor.Replacement{
				{Placeholder: "{{w}}", Setting: "width"},
			},
			want: "var settings=window.wp.customize.get();newval0=''+settings['width']+newval0;",
		},
		{
			name:         "unused placeholder reads nothing",
			template:     "$em",
			replacements: []descriptor.Replacement{{Placeholder: "{{x}}", Setting: "x"}},
			want:         "newval0=newval0+'em';",
		},
		{
			name:     "inserted references are not rewritten",
			template: "{{a}} {{ab}}",
			replacements: []descriptor.Replacement{
				{Placeholder: "{{ab}}", Setting: "s$b"},
				{Placeholder: "{{a}}", Setting: "sa"},
			},
			want: "var settings=window.wp.customize.get();newval0=settings['sa']+' '+settings['s$b'];",
		},
		{
			name:         "quotes are escaped",
			template:     "'$'",
			replacements: nil,
			want:         `newval0='\''+newval0+'\'';`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := script.Render(Expand("newval0", tc.template, tc.replacements)...)
			require.Equal(t, tc.want, got)
		})
	}
}

// previewGlobals stands in for the customizer's synchronous settings read.
const previewGlobals = `var window={wp:{customize:{get:function(){return {border_color:'#fff','s$b':'B',sa:'A'};}}}};`

func TestExpandEvaluates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		template     string
		value        string
		replacements []descriptor.Replacement
		want         string
	}{
		{name: "units suffix", template: "$px", value: "10", want: "10px"},
		{name: "string value", template: "$px", value: "'10'", want: "10px"},
		{name: "no sentinel", template: "none", value: "'x'", want: "none"},
		{name: "sentinel in the middle", template: "calc($ * 2)", value: "'3em'", want: "calc(3em * 2)"},
		{
			name:         "placeholder reference",
			template:     "$px solid {{color}}",
			value:        "2",
			replacements: []descriptor.Replacement{{Placeholder: "{{color}}", Setting: "border_color"}},
			want:         "2px solid #fff",
		},
		{
			name:     "inserted references are not rewritten",
			template: "{{a}} {{ab}}",
			value:    "'v'",
			replacements: []descriptor.Replacement{
				{Placeholder: "{{ab}}", Setting: "s$b"},
				{Placeholder: "{{a}}", Setting: "sa"},
			},
			want: "A B",
		},
		{name: "quotes survive", template: `'$'</script>`, value: "'q'", want: `'q'</script>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := previewGlobals + "var newval0=" + tc.value + ";" +
				script.Render(Expand("newval0", tc.template, tc.replacements)...) +
				"String(newval0);"

			got, err := otto.New().Run(src)
			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}

func TestOverlapping(t *testing.T) {
	t.Parallel()

	require.Empty(t, Overlapping([]descriptor.Replacement{
		{Placeholder: "{{a}}", Setting: "a"},
		{Placeholder: "{{b}}", Setting: "b"},
	}))

	require.Equal(t, [][2]string{{"{{color}}", "color"}}, Overlapping([]descriptor.Replacement{
		{Placeholder: "color", Setting: "a"},
		{Placeholder: "{{color}}", Setting: "b"},
	}))

	require.Equal(t, [][2]string{{"x", "x"}}, Overlapping([]descriptor.Replacement{
		{Placeholder: "x", Setting: "a"},
		{Placeholder: "x", Setting: "b"},
	}))
}
