package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "flowsync",
	Short: "Mirrors a workflow engine's execution log and a no-code table store into a local cache",
}

func Execute() error {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
	return rootCmd.Execute()
}
