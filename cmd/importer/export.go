package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/3lielnashar/Customers-map/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every customer to a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		if out == "-" {
			_, err := app.exchange.Export(cmd.Context(), cmd.OutOrStdout())
			return err
		}

		count, err := exportFile(cmd.Context(), app.exchange, out)
		if err != nil {
			return err
		}

		color.Green("Export complete")
		fmt.Printf("  %d customers written to %s\n", count, out)
		return nil
	},
}

type exporter interface {
	Export(ctx context.Context, w io.Writer) (int, error)
}

// exportFile writes the CSV to path. A failed close is reported, since that is
// where buffered data reaches the disk.
func exportFile(ctx context.Context, ex exporter, path string) (count int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return ex.Export(ctx, f)
}

func init() {
	exportCmd.Flags().String("out", service.ExportFilename, `destination file, "-" for stdout`)

	rootCmd.AddCommand(exportCmd)
}
