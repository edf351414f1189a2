package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for generating and inspecting invoices.

The API provides endpoints for:
  - POST /api/v1/xml       - Serialize an invoice to CII XML
  - POST /api/v1/generate  - Embed an invoice into a PDF container
  - POST /api/v1/inspect   - Extract and validate an embedded invoice
  - POST /api/v1/info      - Get container information
  - GET  /health           - Health check

Examples:
  # Start server on default port
  facturx serve

  # Start with XSD schema validation
  facturx serve --schema-dir ./schemas

  # Start in debug mode on a custom port
  facturx serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", defaultAddress(), "Server listen address (env: FACTURX_ADDR)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
}

func defaultAddress() string {
	if addr := os.Getenv("FACTURX_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      serverAddr,
		SchemaDir:    schemaDir,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	srv, err := server.NewServer(config)
	if err != nil {
		return err
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	if schemaDir != "" {
		fmt.Printf("XSD validation enabled (%s)\n", schemaDir)
	} else {
		fmt.Println("XSD validation disabled (structural checks only)")
	}

	return srv.Run()
}
