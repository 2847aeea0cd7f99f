package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	reportadapter "github.com/Johnmc130/SerenVoice/internal/adapters/render/report"
	"github.com/Johnmc130/SerenVoice/internal/application"
	"github.com/Johnmc130/SerenVoice/internal/domain"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var showRoster bool

	cmd := &cobra.Command{
		Use:   "status <activity-id>",
		Short: "Show your activity session and the group's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(args[0])
			defer session.Close()

			if err := session.Open(cmd.Context()); err != nil {
				return err
			}

			session.ManualRefresh(cmd.Context())

			return writeSnapshotOutput(cmd, app, session.Snapshot(), showRoster, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	cmd.Flags().BoolVar(&showRoster, "roster", false, "include the participant list")

	return cmd
}

type snapshotJSON struct {
	Phase          domain.Phase           `json:"phase"`
	Activity       domain.Activity        `json:"activity"`
	Individual     *domain.AnalysisResult `json:"individual,omitempty"`
	Group          *domain.GroupAggregate `json:"group,omitempty"`
	Roster         domain.Roster          `json:"roster,omitempty"`
	Warning        string                 `json:"warning,omitempty"`
	PollSuppressed bool                   `json:"poll_suppressed"`
}

func writeSnapshotOutput(cmd *cobra.Command, app *app, snapshot application.Snapshot, showRoster, asJSON bool) error {
	if asJSON {
		payload := snapshotJSON{
			Phase:          snapshot.Phase,
			Activity:       snapshot.Activity,
			Individual:     snapshot.Individual,
			Group:          snapshot.Group,
			Roster:         snapshot.Roster,
			PollSuppressed: snapshot.PollSuppressed,
		}
		if snapshot.Warning != nil {
			payload.Warning = snapshot.Warning.Error()
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	rendered, err := app.reportRenderer(snapshot, reportadapter.RenderOptions{ShowRoster: showRoster})
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
