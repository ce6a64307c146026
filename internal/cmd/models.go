package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/clibridge/clibridge/internal/bridge"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List served models and their CLI aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Model ID", "CLI Alias", "Default"})

		for _, entry := range bridge.CanonicalModels() {
			def := ""
			if entry.Alias == bridge.DefaultAlias {
				def = "yes"
			}
			t.AppendRow(table.Row{entry.ID, string(entry.Alias), def})
		}

		fmt.Println(t.Render())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
