package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRetryCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <activity-id>",
		Short: "Retry registering a submission whose completion did not reach the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := app.newSession(args[0])
			defer session.Close()

			if err := session.Open(cmd.Context()); err != nil {
				return err
			}

			if err := session.RetryRegistration(cmd.Context()); err != nil {
				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Participación registrada correctamente.")
			return err
		},
	}
}
