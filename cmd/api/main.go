package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/scholartrack/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scholartrack",
		Short: "Personal research tracking dashboard",
		Long:  `ScholarTrack is a personal research dashboard tracking conferences, journals, deadlines, researchers, resources, todos, daily logs and PhD milestones, with deadline reminders over webhook and email.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewRemindCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
