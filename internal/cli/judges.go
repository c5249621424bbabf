package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ppiankov/adjury/internal/judge"
)

var judgesJSON bool

// judgesCmd lists the judge roster
var judgesCmd = &cobra.Command{
	Use:   "judges",
	Short: "List the available judges",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := judge.Default()
		if judgesJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"judges":     reg.List(),
				"categories": reg.Categories(),
			})
		}
		printJudges(cmd.OutOrStdout(), reg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(judgesCmd)
	judgesCmd.Flags().BoolVar(&judgesJSON, "json", false, "print the roster as JSON")
}

func printJudges(w io.Writer, reg *judge.Registry) {
	judges := reg.List()
	for _, cat := range reg.Categories() {
		fmt.Fprintf(w, "%s\n", cat.Name)
		for _, j := range judges {
			if j.Category != cat.ID {
				continue
			}
			fmt.Fprintf(w, "  %-26s %s\n", j.ID, j.Name)
		}
		fmt.Fprintln(w)
	}
}
