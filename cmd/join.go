package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Johnmc130/SerenVoice/internal/domain"
)

func newJoinCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <activity-id>",
		Short: "Join a group voice activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(args[0])
			defer session.Close()

			if err := session.Open(cmd.Context()); err != nil {
				return err
			}

			snapshot := session.Snapshot()
			if snapshot.Phase != domain.PhaseNotParticipating {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Ya participaste en %q. Consulta el avance con: sv status %s\n",
					snapshot.Activity.Title, args[0])
				return err
			}

			if err := session.Join(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Unido a %q. Graba tu aporte con: sv record %s\n",
				snapshot.Activity.Title, args[0])
			return err
		},
	}
}
