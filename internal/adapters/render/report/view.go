package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Johnmc130/SerenVoice/internal/application"
	"github.com/Johnmc130/SerenVoice/internal/domain"
)

const barWidth = 24

type RenderOptions struct {
	// ShowRoster includes the per-participant list below the result blocks.
	ShowRoster bool
}

func renderView(snapshot application.Snapshot, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(activityTitle(snapshot.Activity)),
		s.header.Render(fmt.Sprintf("estado: %s · fase: %s · avance: %d%%",
			snapshot.Activity.State, phaseLabel(snapshot.Phase), snapshot.Activity.CompletionPercent())),
	}

	if snapshot.Warning != nil {
		lines = append(lines, s.warning.Render("aviso: "+snapshot.Warning.Error()))
	}
	if snapshot.PollSuppressed {
		lines = append(lines, s.warning.Render("consultas automáticas pausadas por límite de peticiones; usa una actualización manual"))
	}

	if snapshot.Individual != nil {
		lines = append(lines, s.section.Render(renderIndividual(*snapshot.Individual, s)))
	}

	if snapshot.Group != nil {
		lines = append(lines, s.section.Render(renderGroup(*snapshot.Group, s)))
	} else if snapshot.Phase == domain.PhaseAwaitingGroup {
		lines = append(lines, s.section.Render(s.empty.Render(
			fmt.Sprintf("Esperando al resto del grupo (%d de %d completados).",
				snapshot.Activity.CompletedParticipants, snapshot.Activity.TotalParticipants))))
	}

	if opts.ShowRoster && len(snapshot.Roster) > 0 {
		lines = append(lines, s.section.Render(renderRoster(snapshot.Roster, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func activityTitle(activity domain.Activity) string {
	if activity.Title == "" {
		return "Actividad de voz"
	}
	return activity.Title
}

func phaseLabel(phase domain.Phase) string {
	switch phase {
	case domain.PhaseNotParticipating:
		return "sin participar"
	case domain.PhaseRecording:
		return "grabando"
	case domain.PhaseReadyToSubmit:
		return "listo para enviar"
	case domain.PhaseAwaitingGroup:
		return "esperando al grupo"
	case domain.PhaseGroupResultReady:
		return "resultado grupal listo"
	default:
		return string(phase)
	}
}

func renderIndividual(result domain.AnalysisResult, s styles) string {
	parts := []string{s.label.Render("Tu resultado")}
	parts = append(parts, emotionLines(func(e domain.Emotion) float64 { return result.Level(e) }, s)...)
	parts = append(parts,
		s.detail.Render(fmt.Sprintf("estrés: %.0f%%  ansiedad: %.0f%%", result.Stress, result.Anxiety)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.label.Render("emoción dominante: "),
			emotionStyle(result.Dominant).Render(string(result.Dominant)),
		),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderGroup(group domain.GroupAggregate, s styles) string {
	parts := []string{s.label.Render(fmt.Sprintf("Resultado grupal (%d participantes)", group.Participants))}
	parts = append(parts, emotionLines(func(e domain.Emotion) float64 { return group.Averages[e] }, s)...)
	parts = append(parts,
		s.detail.Render(fmt.Sprintf("estrés promedio: %.0f%%  ansiedad promedio: %.0f%%", group.AvgStress, group.AvgAnxiety)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.label.Render("emoción dominante: "),
			emotionStyle(group.Dominant).Render(string(group.Dominant)),
		),
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.label.Render("bienestar: "),
			renderBar(group.Wellbeing, bandStyle(group.Band), s),
			" ",
			bandStyle(group.Band).Render(fmt.Sprintf("%.0f (%s)", group.Wellbeing, group.Band)),
		),
		s.advice.Render(group.Advice),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func emotionLines(level func(domain.Emotion) float64, s styles) []string {
	lines := make([]string, 0, len(domain.Emotions))
	for _, e := range domain.Emotions {
		value := level(e)
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.label.Render(fmt.Sprintf("%-10s", e)),
			renderBar(value, emotionStyle(e), s),
			" ",
			s.detail.Render(fmt.Sprintf("%3.0f%%", value)),
		))
	}

	return lines
}

func renderRoster(roster domain.Roster, s styles) string {
	parts := []string{s.label.Render(fmt.Sprintf("Participantes (%d de %d completados)", len(roster.Completed()), len(roster)))}
	for _, p := range roster {
		name := p.Name
		if name == "" {
			name = string(p.UserID)
		}
		if p.Completed() {
			parts = append(parts, lipgloss.JoinHorizontal(
				lipgloss.Top,
				s.completed.Render("✓ "+name),
				s.detail.Render(" · "),
				emotionStyle(p.Result.Dominant).Render(string(p.Result.Dominant)),
			))
			continue
		}
		parts = append(parts, s.pending.Render("… "+name+" (pendiente)"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderBar(percent float64, fill lipgloss.Style, s styles) string {
	value := math.Max(0, math.Min(100, percent))
	filled := int(math.Round(barWidth * value / 100))
	empty := barWidth - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		fill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}
