// timectl is a terminal client for the timetrack API. The server address and
// acting user come from --server/--user or TIMETRACK_ADDR/TIMETRACK_USER.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := setupCommands().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupCommands() *cobra.Command {
	c := &client{}

	rootCmd := &cobra.Command{
		Use:           "timectl",
		Short:         "Control your running timer and committed time entries",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.baseURL == "" {
				c.baseURL = os.Getenv("TIMETRACK_ADDR")
			}
			if c.userID == "" {
				c.userID = os.Getenv("TIMETRACK_USER")
			}
			if c.baseURL == "" {
				c.baseURL = "http://localhost:8080"
			}
			if c.userID == "" {
				return fmt.Errorf("no user: set --user or TIMETRACK_USER")
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.baseURL, "server", "", "API base URL (default http://localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&c.userID, "user", "", "acting user id")

	var billable bool
	var projectID string
	startCmd := &cobra.Command{
		Use:   "start [description]",
		Short: "Start a timer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.start(projectID, args[0], billable)
		},
	}
	startCmd.Flags().StringVar(&projectID, "project", "", "project id")
	startCmd.Flags().BoolVar(&billable, "billable", true, "mark the resulting entry billable")
	_ = startCmd.MarkFlagRequired("project")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.status()
		},
	}

	pauseCmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause the running timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.transition("pause")
		},
	}

	resumeCmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.transition("resume")
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the timer and commit a time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.stop()
		},
	}

	discardCmd := &cobra.Command{
		Use:   "discard",
		Short: "Discard the timer without committing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.discard()
		},
	}

	var since string
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "List committed time entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.entries(since)
		},
	}
	entriesCmd.Flags().StringVar(&since, "since", "", "only entries starting at or after this RFC 3339 instant")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show billable totals per currency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.summary(since)
		},
	}
	summaryCmd.Flags().StringVar(&since, "since", "", "only entries starting at or after this RFC 3339 instant")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(discardCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(summaryCmd)

	return rootCmd
}
