package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Johnmc130/SerenVoice/internal/application"
	"github.com/Johnmc130/SerenVoice/internal/domain"
)

func newWatchCmd(app *app) *cobra.Command {
	var showRoster bool

	cmd := &cobra.Command{
		Use:   "watch <activity-id>",
		Short: "Wait for the group result, refreshing the roster periodically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(args[0])
			defer session.Close()

			ctx := cmd.Context()
			if err := session.Open(ctx); err != nil {
				return err
			}

			snapshot := session.Snapshot()
			if snapshot.Phase == domain.PhaseNotParticipating || snapshot.Phase == domain.PhaseRecording || snapshot.Phase == domain.PhaseReadyToSubmit {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Aún no enviaste tu grabación para %q. Empieza con: sv record %s\n",
					snapshot.Activity.Title, args[0])
				return err
			}

			if snapshot.Phase != domain.PhaseGroupResultReady {
				if err := runWatchLoop(cmd, session); err != nil {
					return err
				}
			}

			return writeSnapshotOutput(cmd, app, session.Snapshot(), showRoster, false)
		},
	}

	cmd.Flags().BoolVar(&showRoster, "roster", false, "include the participant list")

	return cmd
}

type watchPollMsg struct{}

type watchModel struct {
	ctx     context.Context
	session *application.Session
	spinner spinner.Model

	suppressedStyle lipgloss.Style
	labelStyle      lipgloss.Style
	keysStyle       lipgloss.Style

	done      bool
	cancelled bool
}

func newWatchModel(ctx context.Context, session *application.Session) watchModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return watchModel{
		ctx:             ctx,
		session:         session,
		spinner:         s,
		suppressedStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		labelStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		keysStyle:       lipgloss.NewStyle().Faint(true),
	}
}

func watchPollTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return watchPollMsg{}
	})
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, watchPollTick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case watchPollMsg:
		// The debounce inside the session keeps this from hammering the
		// backend even though the UI ticks every second.
		m.session.Poll(m.ctx)
		if m.session.Snapshot().Phase == domain.PhaseGroupResultReady {
			m.done = true
			return m, tea.Quit
		}
		return m, watchPollTick()
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.session.ManualRefresh(m.ctx)
			if m.session.Snapshot().Phase == domain.PhaseGroupResultReady {
				m.done = true
				return m, tea.Quit
			}
			return m, nil
		case "q", "esc", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	snapshot := m.session.Snapshot()
	lines := []string{
		fmt.Sprintf("%s %s", m.spinner.View(), m.labelStyle.Render(
			fmt.Sprintf("Esperando al grupo (%d de %d completados)...",
				len(snapshot.Roster.Completed()), len(snapshot.Roster)))),
	}
	if snapshot.PollSuppressed {
		lines = append(lines, m.suppressedStyle.Render("Límite de peticiones alcanzado: pulsa r para reintentar manualmente."))
	}
	lines = append(lines, m.keysStyle.Render("r: actualizar · q: salir"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func runWatchLoop(cmd *cobra.Command, session *application.Session) error {
	p := tea.NewProgram(
		newWatchModel(cmd.Context(), session),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithContext(cmd.Context()),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if _, ok := finalModel.(watchModel); !ok {
		return fmt.Errorf("unexpected final watch model type %T", finalModel)
	}

	return nil
}
