package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

// demoCommands builds the commands served by default: small, self-contained
// examples that exercise each field type. Applications embedding cmdform
// register their own commands instead.
func demoCommands() []*cobra.Command {
	return []*cobra.Command{
		newRepeatCmd(),
		newGreetCmd(),
	}
}

func newRepeatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repeat",
		Short: "Repeat text a number of times",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := cmd.Flags().GetInt("count")
			if err != nil {
				return err
			}
			text, err := cmd.Flags().GetString("text")
			if err != nil {
				return err
			}
			lines := make([]string, count)
			for i := range lines {
				lines[i] = text
			}
			cmd.Print(strings.Join(lines, "\n"))
			return nil
		},
	}
	cmd.Flags().Int("count", 2, "Number of times to repeat")
	cmd.Flags().String("text", "", "Text to repeat")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newGreetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greet",
		Short: "Greet someone",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := cmd.Flags().GetString("name")
			if err != nil {
				return err
			}
			shout, err := cmd.Flags().GetBool("shout")
			if err != nil {
				return err
			}
			excitement, err := cmd.Flags().GetCount("excitement")
			if err != nil {
				return err
			}

			greeting := "Hello, " + name + strings.Repeat("!", excitement)
			if shout {
				greeting = strings.ToUpper(greeting)
			}
			cmd.Print(greeting)
			return nil
		},
	}
	cmd.Flags().String("name", "world", "Who to greet")
	cmd.Flags().Bool("shout", false, "Shout the greeting")
	cmd.Flags().Count("excitement", "How many exclamation marks to add")
	return cmd
}
