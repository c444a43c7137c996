package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	contactsCmd := &cobra.Command{Use: "contacts", Short: "Emergency contact operations"}

	// list
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List emergency contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := doGet("/api/contacts")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	contactsCmd.AddCommand(listCmd)

	// save (replaces the whole contact book)
	var file string
	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "Replace the contact book from a JSON file",
		Long:  `Reads {"contacts":[...]} from --file and replaces the stored contact book.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return fmt.Errorf("--file required")
			}
			raw, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			var payload map[string]interface{}
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("contacts file must be a JSON object: %w", err)
			}
			data, err := doPostJSON("/api/contacts", payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	saveCmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with the contact book (required)")
	_ = saveCmd.MarkFlagRequired("file")
	contactsCmd.AddCommand(saveCmd)

	rootCmd.AddCommand(contactsCmd)
}
