// Package report renders terminal reports about compiled fields and lint findings.
package report

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// Item is one key/value line of card metadata. Order is preserved.
type Item struct {
	Key   string
	Value string
}

// CardData represents the content of a card.
type CardData struct {
	Title       string
	Icon        string
	Status      Status
	Description string
	Metadata    []Item
	Lines       []string
}

// CardStyle defines the visual appearance of a Card.
type CardStyle struct {
	BorderStyle  lipgloss.Style
	TitleStyle   lipgloss.Style
	ContentStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	IconStyle    lipgloss.Style
	Width        int
	Padding      int
}

// DefaultCardStyle returns the default card style for a palette.
func DefaultCardStyle(p Palette) CardStyle {
	return CardStyle{
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		TitleStyle:   lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		ContentStyle: lipgloss.NewStyle(),
		MutedStyle:   lipgloss.NewStyle().Foreground(p.Muted),
		IconStyle:    lipgloss.NewStyle().Foreground(p.Primary),
		Width:        72,
		Padding:      1,
	}
}

// Card is a bordered block of text.
type Card struct {
	data  CardData
	style CardStyle
	plain bool
}

// NewCard creates a card with the default style.
func NewCard(data CardData) *Card {
	return &Card{data: data, style: DefaultCardStyle(DefaultPalette())}
}

// StatusCard creates a card whose border and icon follow the status colour.
func StatusCard(data CardData) *Card {
	p := DefaultPalette()
	style := DefaultCardStyle(p)
	accent := p.Color(data.Status)
	style.BorderStyle = style.BorderStyle.BorderForeground(accent)
	style.IconStyle = style.IconStyle.Foreground(accent)
	if data.Icon == "" {
		data.Icon = Icon(data.Status)
	}
	return NewCard(data).WithStyle(style)
}

// WithStyle sets a custom style for the card.
func (c *Card) WithStyle(style CardStyle) *Card {
	c.style = style
	return c
}

// WithWidth sets the card width.
func (c *Card) WithWidth(width int) *Card {
	c.style.Width = width
	return c
}

// Plain renders without borders or colour, for pipes and golden tests.
func (c *Card) Plain(plain bool) *Card {
	c.plain = plain
	return c
}

// View renders the card.
func (c *Card) View() string {
	var content []string

	if header := c.renderHeader(); header != "" {
		content = append(content, header)
	}
	if c.data.Description != "" {
		content = append(content, c.render(c.style.ContentStyle, c.wrapText(c.data.Description)))
	}
	if len(c.data.Metadata) > 0 {
		width := 0
		for _, item := range c.data.Metadata {
			width = max(width, utf8.RuneCountInString(item.Key))
		}
		for _, item := range c.data.Metadata {
			key := fmt.Sprintf("%-*s", width+1, item.Key+":")
			content = append(content, c.render(c.style.MutedStyle, key)+" "+c.render(c.style.ContentStyle, item.Value))
		}
	}
	if len(c.data.Lines) > 0 {
		for _, line := range c.data.Lines {
			content = append(content, c.render(c.style.ContentStyle, "• "+line))
		}
	}

	inner := strings.Join(content, "\n")
	if c.plain {
		return inner + "\n"
	}
	return c.style.BorderStyle.Width(c.style.Width).Render(inner) + "\n"
}

func (c *Card) render(style lipgloss.Style, s string) string {
	if c.plain {
		return s
	}
	return style.Render(s)
}

func (c *Card) renderHeader() string {
	if c.data.Title == "" {
		return ""
	}
	var header strings.Builder
	if c.data.Icon != "" {
		header.WriteString(c.render(c.style.IconStyle, c.data.Icon) + " ")
	}
	header.WriteString(c.render(c.style.TitleStyle, c.data.Title))
	return header.String()
}

// wrapText wraps text to fit within the card width, breaking words longer than a line.
func (c *Card) wrapText(text string) string {
	maxWidth := c.style.Width - c.style.Padding*2 - 2
	if c.style.Width <= 0 || maxWidth <= 0 {
		return text
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	current := ""
	for _, word := range words {
		if utf8.RuneCountInString(word) > maxWidth {
			runes := []rune(word)
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			for len(runes) > maxWidth {
				lines = append(lines, string(runes[:maxWidth]))
				runes = runes[maxWidth:]
			}
			current = string(runes)
			continue
		}

		candidate := current
		if current != "" {
			candidate += " "
		}
		candidate += word
		if utf8.RuneCountInString(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n")
}
