package report

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Johnmc130/SerenVoice/internal/application"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	snapshot application.Snapshot
	opts     RenderOptions
	styles   styles
	output   string
}

func newModel(snapshot application.Snapshot, opts RenderOptions) model {
	return model{
		snapshot: snapshot,
		opts:     opts,
		styles:   newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = renderView(m.snapshot, m.opts, m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render produces the session report for one snapshot. The program runs for
// a single frame; rendering has no interactive loop of its own.
func Render(snapshot application.Snapshot, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(snapshot, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
