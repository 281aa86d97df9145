package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load customers from a CSV file",
	Long: `Load customers from a CSV file with at least name, lat and lng columns.

By default the file replaces every stored customer, exactly like the
/api/customers/import endpoint. With --append the rows are added instead.
Addresses are taken from the file as-is; no geocoding is done.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		appendRows, _ := cmd.Flags().GetBool("append")

		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()

		var count int
		if appendRows {
			count, err = app.exchange.Append(cmd.Context(), f)
		} else {
			count, err = app.exchange.Import(cmd.Context(), file, f)
		}
		if err != nil {
			return err
		}

		color.Green("Import complete")
		fmt.Printf("  %d customers imported from %s\n", count, file)
		return nil
	},
}

func init() {
	importCmd.Flags().String("file", "", "path to the CSV file to import")
	importCmd.Flags().Bool("append", false, "add rows instead of replacing the collection")
	_ = importCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(importCmd)
}
