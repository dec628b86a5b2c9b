package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conneroisu/cmdform/internal/introspect"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List the registered commands and their parameters",
	Long: `List each registered command with its introspected parameters:
name, type, default value, required flag, and help text.

Examples:
  cmdform list                    # List commands with parameters
  cmdform list --names            # Command names only`,
	RunE: runList,
}

var listNamesOnly bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listNamesOnly, "names", false, "Print command names only")
}

func runList(cmd *cobra.Command, args []string) error {
	for _, demo := range demoCommands() {
		if listNamesOnly {
			cmd.Println(demo.Name())
			continue
		}

		specs, err := introspect.Command(demo)
		if err != nil {
			return fmt.Errorf("introspecting %s: %w", demo.Name(), err)
		}

		cmd.Printf("%s  %s\n", demo.Name(), demo.Short)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tTYPE\tDEFAULT\tREQUIRED\tHELP")
		for _, spec := range specs {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				spec.Name, spec.Type, spec.Default,
				strconv.FormatBool(spec.Required), spec.Help)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		cmd.Println()
	}
	return nil
}
