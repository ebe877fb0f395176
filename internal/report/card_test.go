package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardPlainView(t *testing.T) {
	t.Parallel()

	card := StatusCard(CardData{
		Title:  "body_color",
		Status: StatusSuccess,
		Metadata: []Item{
			{Key: "style id", Value: "kirki-postmessage-body_color"},
			{Key: "control", Value: "simple"},
		},
		Lines: []string{"0 → scalar body{color}"},
	}).Plain(true)

	want := "✓ body_color\n" +
		"style id: kirki-postmessage-body_color\n" +
		"control:  simple\n" +
		"• 0 → scalar body{color}\n"
	require.Equal(t, want, card.View())
}

func TestCardStyledViewKeepsContent(t *testing.T) {
	t.Parallel()

	view := StatusCard(CardData{Title: "broken", Status: StatusError, Description: "html binding has no element"}).View()

	require.Contains(t, view, "broken")
	require.Contains(t, view, "✗")
	require.Contains(t, view, "html binding has no element")
	require.GreaterOrEqual(t, strings.Count(view, "\n"), 3)
}

func TestCardWrapText(t *testing.T) {
	t.Parallel()

	card := NewCard(CardData{Description: "aaaa bbbb cccc dddddddddddd"}).WithWidth(10).Plain(true)
	require.Equal(t, "aaaa\nbbbb\ncccc\ndddddd\ndddddd\n", card.View())
}

func TestIconAndColor(t *testing.T) {
	t.Parallel()

	p := DefaultPalette()
	require.Equal(t, p.Danger, p.Color(StatusError))
	require.Equal(t, p.Muted, p.Color(StatusSkipped))
	require.Equal(t, p.Border, p.Color(StatusNone))
	require.Equal(t, "⚠", Icon(StatusWarning))
	require.Equal(t, "", Icon(StatusNone))
}
