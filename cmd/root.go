package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sv",
		Short:         "SerenVoice CLI (sv): record and track group voice sessions",
		Long:          "sv (SerenVoice CLI) joins group voice activities, records your contribution, submits it for emotional analysis, and follows the group until the shared wellbeing result is ready.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newJoinCmd(app),
		newRecordCmd(app),
		newStatusCmd(app),
		newWatchCmd(app),
		newRetryCmd(app),
	)

	return rootCmd
}
