package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/facturx"
	"github.com/rezonia/facturx/internal/xsd"
)

var (
	inspectShowXML bool
	inspectTimeout time.Duration
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Extract and validate embedded invoices",
	Long: `Extract the embedded invoice XML from one or more PDF containers,
validate it, and report profile, parties and signature presence.

With --schema-dir (or FACTURX_SCHEMA_DIR) the XML is validated against
the official XSD files; otherwise a structural check is performed.

Examples:
  facturx inspect facturx.pdf
  facturx inspect *.pdf --schema-dir ./schemas -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectShowXML, "show-xml", false, "Include the extracted XML in the output")
	inspectCmd.Flags().DurationVar(&inspectTimeout, "timeout", 30*time.Second, "Inspection timeout per file")
}

func runInspect(cmd *cobra.Command, args []string) error {
	pipeline, cleanup, err := newInspectPipeline()
	if err != nil {
		return err
	}
	defer cleanup()

	type fileReport struct {
		File string `json:"file"`
		*facturx.Report
	}

	reports := make([]fileReport, 0, len(args))
	allValid := true

	for _, file := range args {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), inspectTimeout)
		report := pipeline.Inspect(ctx, data)
		cancel()

		if !inspectShowXML {
			report.XML = ""
		}
		reports = append(reports, fileReport{File: file, Report: report})
		if !report.Valid {
			allValid = false
		}
	}

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printReport(r.File, r.Report)
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func newInspectPipeline() (*facturx.Pipeline, func(), error) {
	if schemaDir == "" {
		return facturx.NewPipeline(), func() {}, nil
	}
	validator, err := xsd.NewSchemaValidator(schemaDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load schemas: %w", err)
	}
	return facturx.NewPipeline(facturx.WithValidator(validator)), validator.Free, nil
}

func printReport(file string, r *facturx.Report) {
	if r.Valid {
		fmt.Printf("✓ %s: VALID\n", file)
	} else {
		fmt.Printf("✗ %s: INVALID\n", file)
	}
	if r.Profile != "" {
		fmt.Printf("  Profile:   %s\n", r.Profile)
	}
	if r.Issuer != "" {
		fmt.Printf("  Issuer:    %s\n", r.Issuer)
	}
	if r.Recipient != "" {
		fmt.Printf("  Recipient: %s\n", r.Recipient)
	}
	if r.SignaturePresent {
		fmt.Printf("  Signature: present (%s)\n", r.SignatureNote)
	}
	for _, e := range r.SchemaErrors {
		fmt.Printf("  - %s\n", e)
	}
}
