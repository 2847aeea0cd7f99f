package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	reportadapter "github.com/Johnmc130/SerenVoice/internal/adapters/render/report"
	"github.com/Johnmc130/SerenVoice/internal/application"
	"github.com/Johnmc130/SerenVoice/internal/domain"
)

var errRecordingCancelled = errors.New("recording cancelled")

func newRecordCmd(app *app) *cobra.Command {
	var seconds int

	cmd := &cobra.Command{
		Use:   "record <activity-id>",
		Short: "Record your voice contribution and submit it for analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(args[0])
			defer session.Close()

			ctx := cmd.Context()
			if err := session.Open(ctx); err != nil {
				return err
			}

			snapshot := session.Snapshot()
			if snapshot.Phase != domain.PhaseNotParticipating {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Ya enviaste tu grabación para %q. Consulta el avance con: sv status %s\n",
					snapshot.Activity.Title, args[0])
				return err
			}

			if err := session.Join(ctx); err != nil {
				return err
			}

			if seconds > 0 {
				if err := recordFixed(ctx, session, seconds); err != nil {
					return err
				}
			} else {
				if err := recordInteractive(ctx, cmd, session); err != nil {
					if errors.Is(err, errRecordingCancelled) {
						_, werr := fmt.Fprintln(cmd.OutOrStdout(), "Grabación cancelada.")
						return werr
					}
					return err
				}
			}

			if err := runTaskSpinner(ctx, cmd.OutOrStdout(), "Analizando tu grabación...", session.Submit); err != nil {
				return err
			}

			snapshot = session.Snapshot()
			rendered, err := app.reportRenderer(snapshot, reportadapter.RenderOptions{})
			if err != nil {
				return fmt.Errorf("render report: %w", err)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), rendered); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nSigue el resultado grupal con: sv watch %s\n", args[0])
			return err
		},
	}

	cmd.Flags().IntVar(&seconds, "seconds", 0, "record a fixed number of seconds instead of stopping interactively")

	return cmd
}

func recordFixed(ctx context.Context, session *application.Session, seconds int) error {
	if seconds < domain.MinRecordingSeconds {
		return fmt.Errorf("recordings must be at least %d seconds", domain.MinRecordingSeconds)
	}

	if err := session.StartRecording(ctx); err != nil {
		return err
	}

	timer := time.NewTimer(time.Duration(seconds) * time.Second)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		_ = session.CancelRecording()
		return ctx.Err()
	case <-timer.C:
	}

	return session.StopRecording()
}

type recordElapsedMsg struct{}

type recordModel struct {
	session  *application.Session
	elapsed  int
	note     string
	err      error
	finished bool
	canceled bool

	titleStyle lipgloss.Style
	meterStyle lipgloss.Style
	noteStyle  lipgloss.Style
	keysStyle  lipgloss.Style
}

func newRecordModel(session *application.Session) recordModel {
	return recordModel{
		session:    session,
		titleStyle: lipgloss.NewStyle().Bold(true),
		meterStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		noteStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		keysStyle:  lipgloss.NewStyle().Faint(true),
	}
}

func recordElapsedTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return recordElapsedMsg{}
	})
}

func (m recordModel) Init() tea.Cmd {
	return recordElapsedTick()
}

func (m recordModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case recordElapsedMsg:
		m.elapsed = m.session.Snapshot().ElapsedSeconds
		return m, recordElapsedTick()
	case tea.KeyMsg:
		switch msg.String() {
		case "enter", " ":
			if err := m.session.StopRecording(); err != nil {
				if errors.Is(err, domain.ErrRecordingTooShort) {
					m.note = fmt.Sprintf("La grabación debe durar al menos %d segundos.", domain.MinRecordingSeconds)
					return m, nil
				}
				m.err = err
				return m, tea.Quit
			}
			m.finished = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.canceled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m recordModel) View() string {
	if m.finished || m.canceled || m.err != nil {
		return ""
	}

	lines := []string{
		m.titleStyle.Render("Grabando tu aporte"),
		m.meterStyle.Render(fmt.Sprintf("● %02d:%02d", m.elapsed/60, m.elapsed%60)),
	}
	if m.note != "" {
		lines = append(lines, m.noteStyle.Render(m.note))
	}
	lines = append(lines, m.keysStyle.Render("enter/espacio: detener · esc: cancelar"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func recordInteractive(ctx context.Context, cmd *cobra.Command, session *application.Session) error {
	if err := session.StartRecording(ctx); err != nil {
		return err
	}

	p := tea.NewProgram(
		newRecordModel(session),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		_ = session.CancelRecording()
		return err
	}

	result, ok := finalModel.(recordModel)
	if !ok {
		_ = session.CancelRecording()
		return fmt.Errorf("unexpected final record model type %T", finalModel)
	}
	if result.err != nil {
		return result.err
	}
	if result.canceled {
		_ = session.CancelRecording()
		return errRecordingCancelled
	}

	return nil
}
