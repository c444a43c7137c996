package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	activateCmd := &cobra.Command{
		Use:   "activate",
		Short: "Activate an emergency session immediately",
		Long: `Runs the full activation flow: acquire position, create the session,
alert contacts, and rank nearby facilities. Refused with a conflict
while another session is active.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doPostJSON("/api/emergency/activate", nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(activateCmd)

	locationCmd := &cobra.Command{
		Use:   "location",
		Short: "Show the current position reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/location")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(locationCmd)

	var lat, lng string
	facilitiesCmd := &cobra.Command{
		Use:   "facilities",
		Short: "List nearby medical facilities, closest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/facilities/nearby"
			if lat != "" || lng != "" {
				if lat == "" || lng == "" {
					return fmt.Errorf("--lat and --lng must be given together")
				}
				path += "?lat=" + lat + "&lng=" + lng
			}
			data, err := doGet(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	facilitiesCmd.Flags().StringVar(&lat, "lat", "", "Latitude to rank around (defaults to current position)")
	facilitiesCmd.Flags().StringVar(&lng, "lng", "", "Longitude to rank around")
	rootCmd.AddCommand(facilitiesCmd)

	callCmd := &cobra.Command{
		Use:   "call FACILITY_NAME",
		Short: "Record a facility call on the active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := doPostJSON("/api/facilities/"+args[0]+"/call", nil); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "recorded")
			return nil
		},
	}
	rootCmd.AddCommand(callCmd)
}
