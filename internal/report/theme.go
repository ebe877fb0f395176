package report

import (
	"github.com/charmbracelet/lipgloss"
)

// Status selects the accent colour and icon of a card.
type Status string

const (
	StatusNone    Status = ""
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusWarning Status = "warning"
	StatusInfo    Status = "info"
	StatusSkipped Status = "skipped"
)

// Palette holds the colours cards are drawn with.
type Palette struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Danger  lipgloss.Color
	Warning lipgloss.Color
	Info    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
}

// DefaultPalette mirrors the blue/slate scale used across the CLI.
func DefaultPalette() Palette {
	return Palette{
		Primary: lipgloss.Color("#3B82F6"),
		Success: lipgloss.Color("#22C55E"),
		Danger:  lipgloss.Color("#EF4444"),
		Warning: lipgloss.Color("#EAB308"),
		Info:    lipgloss.Color("#06B6D4"),
		Muted:   lipgloss.Color("#94A3B8"),
		Border:  lipgloss.Color("#475569"),
	}
}

// Color returns the accent colour for a status.
func (p Palette) Color(status Status) lipgloss.Color {
	switch status {
	case StatusSuccess:
		return p.Success
	case StatusError:
		return p.Danger
	case StatusWarning:
		return p.Warning
	case StatusInfo:
		return p.Info
	case StatusSkipped:
		return p.Muted
	default:
		return p.Border
	}
}

// Icon returns the glyph shown before a card title.
func Icon(status Status) string {
	switch status {
	case StatusSuccess:
		return "✓"
	case StatusError:
		return "✗"
	case StatusWarning:
		return "⚠"
	case StatusInfo:
		return "ℹ"
	case StatusSkipped:
		return "–"
	default:
		return ""
	}
}
