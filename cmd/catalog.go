package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlbdotgo/vlbgo/vlb"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:       "index FIELD VALUE",
	Short:     "Look a value up in a VLB index",
	Long:      `Look a value up in one of the VLB indexes: publisher, person, title, keyword or series.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"publisher", "person", "title", "keyword", "series"},
	RunE:      runIndex,
}

// publisherCmd represents the publisher command
var publisherCmd = &cobra.Command{
	Use:   "publisher MVBID",
	Short: "Show a publisher by its MVB id",
	Args:  cobra.ExactArgs(1),
	RunE:  runPublisher,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(publisherCmd)

	indexCmd.Flags().BoolVar(&jsonOutput, "json", false, "print entries as JSON")
	publisherCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the publisher as JSON")
}

func runIndex(cmd *cobra.Command, args []string) error {
	entries, err := client.SearchIndex(commandContext(cmd), vlb.IndexField(args[0]), args[1])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No index entries found.")
		return nil
	}

	fmt.Printf("\nFound %d entries:\n", len(entries))
	fmt.Println(strings.Repeat("-", 80))
	for _, entry := range entries {
		fmt.Printf("• %s", entry.Value)
		if entry.ID != "" {
			fmt.Printf(" (ID: %s)", entry.ID)
		}
		if entry.Count > 0 {
			fmt.Printf(" - %d products", entry.Count)
		}
		fmt.Println()
	}
	return nil
}

func runPublisher(cmd *cobra.Command, args []string) error {
	publisher, err := client.GetPublisher(commandContext(cmd), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(publisher)
	}

	fmt.Printf("%s (MVB ID: %s)\n", publisher.Name, publisher.MVBID)
	if publisher.Street != "" {
		fmt.Printf("  %s\n", publisher.Street)
	}
	if publisher.ZipCode != "" || publisher.City != "" {
		fmt.Printf("  %s\n", strings.TrimSpace(publisher.ZipCode+" "+publisher.City))
	}
	if publisher.Country != "" {
		fmt.Printf("  %s\n", publisher.Country)
	}
	if publisher.Email != "" {
		fmt.Printf("  Email: %s\n", publisher.Email)
	}
	if publisher.Website != "" {
		fmt.Printf("  Website: %s\n", publisher.Website)
	}
	return nil
}
