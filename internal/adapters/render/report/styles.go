package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	section    lipgloss.Style
	label      lipgloss.Style
	detail     lipgloss.Style
	warning    lipgloss.Style
	empty      lipgloss.Style
	advice     lipgloss.Style
	barBracket lipgloss.Style
	barEmpty   lipgloss.Style
	pending    lipgloss.Style
	completed  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:    lipgloss.NewStyle().MarginTop(1),
		label:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		empty:      lipgloss.NewStyle().Faint(true),
		advice:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("252")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		pending:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		completed:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
	}
}

var emotionColors = map[domain.Emotion]lipgloss.Color{
	domain.EmotionFelicidad: lipgloss.Color("#4ade80"),
	domain.EmotionTristeza:  lipgloss.Color("#60a5fa"),
	domain.EmotionEnojo:     lipgloss.Color("#f87171"),
	domain.EmotionMiedo:     lipgloss.Color("#c084fc"),
	domain.EmotionSorpresa:  lipgloss.Color("#facc15"),
	domain.EmotionNeutral:   lipgloss.Color("#94a3b8"),
}

var bandColors = map[domain.WellbeingBand]lipgloss.Color{
	domain.WellbeingHigh:   lipgloss.Color("#4ade80"),
	domain.WellbeingNormal: lipgloss.Color("#facc15"),
	domain.WellbeingLow:    lipgloss.Color("#f87171"),
}

func emotionStyle(e domain.Emotion) lipgloss.Style {
	if color, ok := emotionColors[e]; ok {
		return lipgloss.NewStyle().Foreground(color)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
}

func bandStyle(b domain.WellbeingBand) lipgloss.Style {
	if color, ok := bandColors[b]; ok {
		return lipgloss.NewStyle().Bold(true).Foreground(color)
	}
	return lipgloss.NewStyle().Bold(true)
}
