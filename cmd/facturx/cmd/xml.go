package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/builder"
	"github.com/rezonia/facturx/internal/cii"
)

var (
	xmlInvoiceFile string
	xmlProfile     string
	xmlOutputFile  string
)

var xmlCmd = &cobra.Command{
	Use:   "xml",
	Short: "Serialize an invoice to Cross Industry Invoice XML",
	Long: `Serialize a business-record JSON file to Cross Industry Invoice XML
for a given conformance profile, without producing a PDF.

Examples:
  facturx xml --invoice invoice.json --profile minimum
  facturx xml --invoice invoice.json --profile en16931 -o invoice.xml`,
	RunE: runXML,
}

func init() {
	rootCmd.AddCommand(xmlCmd)

	xmlCmd.Flags().StringVar(&xmlInvoiceFile, "invoice", "", "Business-record JSON file (required)")
	xmlCmd.Flags().StringVar(&xmlProfile, "profile", "MINIMUM", "Conformance profile (MINIMUM, BASIC-WL, BASIC, EN16931)")
	xmlCmd.Flags().StringVarP(&xmlOutputFile, "output", "o", "", "Output file (default: stdout)")
	_ = xmlCmd.MarkFlagRequired("invoice")
}

func runXML(cmd *cobra.Command, args []string) error {
	rec, err := loadRecord(xmlInvoiceFile)
	if err != nil {
		return err
	}

	inv, prof, err := builder.New().BuildForProfile(rec, xmlProfile)
	if err != nil {
		return err
	}

	xml, err := cii.Generate(inv, prof)
	if err != nil {
		return err
	}

	return writeOutput(xmlOutputFile, []byte(xml))
}
