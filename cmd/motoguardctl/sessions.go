package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	sessionsCmd := &cobra.Command{Use: "sessions", Short: "Emergency session operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List session history, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/sessions")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	sessionsCmd.AddCommand(listCmd)

	activeCmd := &cobra.Command{
		Use:   "active",
		Short: "Show the active session, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/sessions/active")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	sessionsCmd.AddCommand(activeCmd)

	resolveCmd := &cobra.Command{
		Use:   "resolve SESSION_ID",
		Short: "Mark a session resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doPostJSON("/api/sessions/"+args[0]+"/resolve", nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "resolved")
			return nil
		},
	}
	sessionsCmd.AddCommand(resolveCmd)

	cancelCmd := &cobra.Command{
		Use:   "cancel SESSION_ID",
		Short: "Mark a session cancelled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doPostJSON("/api/sessions/"+args[0]+"/cancel", nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "cancelled")
			return nil
		},
	}
	sessionsCmd.AddCommand(cancelCmd)

	rootCmd.AddCommand(sessionsCmd)
}
