package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every stored customer",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			fmt.Print("Delete ALL customers? [y/N] ")
			reader := bufio.NewReader(os.Stdin)
			response, _ := reader.ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if err := app.exchange.Purge(cmd.Context()); err != nil {
			return err
		}

		color.Yellow("All customers deleted")
		return nil
	},
}

func init() {
	purgeCmd.Flags().Bool("confirm", false, "skip confirmation prompt")

	rootCmd.AddCommand(purgeCmd)
}
