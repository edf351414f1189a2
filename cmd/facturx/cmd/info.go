package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/pdf"
)

var infoCmd = &cobra.Command{
	Use:   "info [file.pdf]",
	Short: "Show container details",
	Long: `Show the size, embedded attachments and signature presence of a
PDF container without validating the invoice content.

Example:
  facturx info facturx.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

type containerInfo struct {
	File             string   `json:"file"`
	Size             int64    `json:"size"`
	Attachments      []string `json:"attachments"`
	SignaturePresent bool     `json:"signaturePresent"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	file := args[0]
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}

	info := containerInfo{
		File:             file,
		Size:             int64(len(data)),
		SignaturePresent: bytes.Contains(data, []byte("/ByteRange")),
	}

	codec := pdf.NewCodec()
	attachments, err := codec.ListAttachments(data)
	if err != nil {
		return fmt.Errorf("failed to list attachments: %w", err)
	}
	info.Attachments = attachments

	if outputFormat == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	fmt.Printf("File:       %s\n", info.File)
	fmt.Printf("Size:       %d bytes\n", info.Size)
	fmt.Printf("Signature:  %v\n", info.SignaturePresent)
	if len(info.Attachments) == 0 {
		fmt.Println("Attachments: none")
	} else {
		fmt.Println("Attachments:")
		for _, name := range info.Attachments {
			fmt.Printf("  - %s\n", name)
		}
	}
	return nil
}
