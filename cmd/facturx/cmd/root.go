package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	schemaDir    string
)

var rootCmd = &cobra.Command{
	Use:   "facturx",
	Short: "Generate and inspect Factur-X hybrid invoices",
	Long: `Factur-X is a CLI tool for producing and inspecting hybrid electronic
invoices: PDFs carrying a Cross Industry Invoice XML twin.

Supports the four standardized conformance profiles:
  MINIMUM, BASIC-WL, BASIC, EN16931

Examples:
  # Serialize an invoice to XML
  facturx xml --invoice invoice.json --profile en16931

  # Embed the invoice into a PDF
  facturx generate source.pdf --invoice invoice.json --profile basic -o facturx.pdf

  # Extract and validate an embedded invoice
  facturx inspect facturx.pdf

  # Show container information
  facturx info facturx.pdf`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVar(&schemaDir, "schema-dir", "", "Directory with Factur-X XSD files (env: FACTURX_SCHEMA_DIR)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if schemaDir == "" {
		schemaDir = os.Getenv("FACTURX_SCHEMA_DIR")
	}

	config := logger.DefaultConfig()
	if verbose {
		config.Level = "debug"
	}
	// Logging setup failures fall back to zerolog defaults.
	_ = logger.Setup(config)
}
