package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vlbdotgo/vlbgo/vlb"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query TEMPLATE [ARG...]",
	Short: "Print the search query built from a template",
	Long: `Fill the {} placeholders of TEMPLATE with the sanitized arguments and
print the resulting query without contacting VLB. Use \{} for a literal {}
and \\ for a literal backslash.`,
	Args: cobra.MinimumNArgs(1),
	// Building a query needs neither config nor credentials
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	query, err := vlb.BuildQuery(args[0], args[1:]...)
	if err != nil {
		return err
	}
	fmt.Println(query)
	return nil
}
