package main

import (
	"log"

	"github.com/spf13/cobra"

	"warden/internal/di"
	"warden/internal/structures"
)

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:   "warden",
	Short: "Presence tracking and moderation daemon",
	Long:  `Warden watches a guild: it tracks member online time, runs timed mutes, attributes moderation actions from the audit log, and posts notices to the log channel.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := di.InitApp(&flags)
		return err
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug logging and console output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("warden: %v", err)
	}
}
