package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vlbdotgo/vlbgo/vlb"
)

var (
	idType     string
	coverSize  string
	outputPath string
	mediaType  string
)

// productCmd represents the product command
var productCmd = &cobra.Command{
	Use:   "product ID...",
	Short: "Look up products by identifier",
	Long: `Look up one or more products by their VLB id, GTIN, ISBN-13 or EAN.
Several identifiers are fetched concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProduct,
}

// coverCmd represents the cover command
var coverCmd = &cobra.Command{
	Use:   "cover ID",
	Short: "Download the cover image of a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runCover,
}

// mediaCmd represents the media command
var mediaCmd = &cobra.Command{
	Use:   "media ID",
	Short: "List the media files attached to a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runMedia,
}

func init() {
	rootCmd.AddCommand(productCmd)
	rootCmd.AddCommand(coverCmd)
	rootCmd.AddCommand(mediaCmd)

	productCmd.Flags().StringVar(&idType, "id-type", "", "identifier type (gtin/isbn13/ean)")
	productCmd.Flags().BoolVar(&longFormat, "long", false, "request the long product representation")
	productCmd.Flags().BoolVar(&jsonOutput, "json", false, "print products as JSON")

	coverCmd.Flags().StringVar(&coverSize, "size", "m", "cover size (s/m/l or small/medium/large)")
	coverCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default is ID-SIZE with the image extension)")

	mediaCmd.Flags().StringVar(&mediaType, "type", "", "media type (image/audio/video/document)")
}

func runProduct(cmd *cobra.Command, args []string) error {
	opts := vlb.ProductOptions{
		IDType: vlb.IDType(idType),
		Format: responseFormat(cmd),
	}

	products, err := client.GetProducts(commandContext(cmd), args, opts)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(products)
	}

	for _, product := range products {
		printProduct(product)
	}
	return nil
}

func runCover(cmd *cobra.Command, args []string) error {
	size, err := vlb.ParseCoverSize(coverSize)
	if err != nil {
		return err
	}

	cover, err := client.GetCover(commandContext(cmd), args[0], size)
	if err != nil {
		return err
	}

	path := outputPath
	if path == "" {
		path = fmt.Sprintf("%s-%s%s", args[0], size, imageExtension(cover.ContentType))
	}

	if err := os.WriteFile(path, cover.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write cover: %w", err)
	}

	logger.Info().
		Str("path", path).
		Int("bytes", len(cover.Data)).
		Msg("Saved cover")

	fmt.Printf("✓ Saved cover to %s\n", path)
	return nil
}

// imageExtension maps an image content type to a file extension
func imageExtension(contentType string) string {
	mime, _, _ := strings.Cut(contentType, ";")
	switch strings.TrimSpace(mime) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}

func runMedia(cmd *cobra.Command, args []string) error {
	files, err := client.GetMedia(commandContext(cmd), args[0], vlb.MediaType(mediaType))
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("No media files found.")
		return nil
	}

	fmt.Printf("\nFound %d media files:\n", len(files))
	fmt.Println(strings.Repeat("-", 80))
	for _, file := range files {
		fmt.Printf("• %s (%s)\n", file.URL, file.Type)
		if file.MimeType != "" {
			fmt.Printf("  MIME type: %s\n", file.MimeType)
		}
		if file.Copyright != "" {
			fmt.Printf("  Copyright: %s\n", file.Copyright)
		}
	}
	return nil
}
