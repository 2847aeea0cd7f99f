package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	tokenSecretKey  = "serenvoice/token"
	userIDSecretKey = "serenvoice/user_id"
)

func newLoginCmd(app *app) *cobra.Command {
	var email string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			creds, err := app.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := app.secretStore.Put(ctx, tokenSecretKey, creds.Token); err != nil {
				return fmt.Errorf("store session token: %w", err)
			}
			if err := app.secretStore.Put(ctx, userIDSecretKey, string(creds.UserID)); err != nil {
				return fmt.Errorf("store user id: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s.\n", creds.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
