package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/builder"
	"github.com/rezonia/facturx/internal/facturx"
)

var (
	generateInvoiceFile string
	generateProfile     string
	generateOutputFile  string
	generateTimeout     time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate [source.pdf]",
	Short: "Embed an invoice into a PDF container",
	Long: `Generate a Factur-X container: serialize the invoice for the requested
profile and attach the XML to the source PDF. The visual content of the
source is left untouched.

Examples:
  facturx generate invoice.pdf --invoice invoice.json --profile basic -o facturx.pdf
  facturx generate invoice.pdf --invoice invoice.json --profile en16931`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateInvoiceFile, "invoice", "", "Business-record JSON file (required)")
	generateCmd.Flags().StringVar(&generateProfile, "profile", "MINIMUM", "Conformance profile (MINIMUM, BASIC-WL, BASIC, EN16931)")
	generateCmd.Flags().StringVarP(&generateOutputFile, "output", "o", "", "Output PDF path (default: <source>.facturx.pdf)")
	generateCmd.Flags().DurationVar(&generateTimeout, "timeout", 30*time.Second, "Generation timeout")
	_ = generateCmd.MarkFlagRequired("invoice")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]

	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source PDF: %w", err)
	}

	rec, err := loadRecord(generateInvoiceFile)
	if err != nil {
		return err
	}

	inv, prof, err := builder.New().BuildForProfile(rec, generateProfile)
	if err != nil {
		return err
	}

	outPath := generateOutputFile
	if outPath == "" {
		outPath = sourcePath + ".facturx.pdf"
	}

	ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
	defer cancel()

	pipeline := facturx.NewPipeline()
	if err := pipeline.Generate(ctx, source, inv, prof, outPath); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%s profile)\n", outPath, prof)
	return nil
}
