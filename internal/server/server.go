// Package server exposes the document pipeline over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rezonia/facturx/internal/builder"
	"github.com/rezonia/facturx/internal/facturx"
	"github.com/rezonia/facturx/internal/logger"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/pdf"
	"github.com/rezonia/facturx/internal/xsd"
)

// Config holds server configuration
type Config struct {
	Address      string
	SchemaDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *facturx.Pipeline
	builder  *builder.Builder
	codec    *pdf.Codec
	log      zerolog.Logger
}

// NewServer creates a new API server. When a schema directory is
// configured, XSD validation backs the inspect endpoint; otherwise the
// structural fallback is used.
func NewServer(config *Config) (*Server, error) {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	log := logger.WithComponent("server")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	var pipelineOpts []facturx.Option
	if config.SchemaDir != "" {
		validator, err := xsd.NewSchemaValidator(config.SchemaDir)
		if err != nil {
			return nil, err
		}
		pipelineOpts = append(pipelineOpts, facturx.WithValidator(validator))
		log.Info().Str("schema_dir", config.SchemaDir).Msg("XSD validation enabled")
	} else {
		log.Warn().Msg("no schema directory configured, using structural validation")
	}

	s := &Server{
		config:   config,
		router:   router,
		pipeline: facturx.NewPipeline(pipelineOpts...),
		builder:  builder.New(),
		codec:    pdf.NewCodec(),
		log:      log,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/xml", s.handleXML)
		v1.POST("/generate", s.handleGenerate)
		v1.POST("/inspect", s.handleInspect)
		v1.POST("/info", s.handleInfo)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.log.Info().Str("address", s.config.Address).Msg("listening")
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleXML serializes an invoice payload to Cross Industry Invoice XML.
func (s *Server) handleXML(c *gin.Context) {
	var req InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	inv, prof, err := s.builder.BuildForProfile(req.Invoice.toRecord(), req.Profile)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	xml, err := s.pipeline.Render(inv, prof)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}

// handleGenerate embeds a serialized invoice into an uploaded PDF and
// streams back the new container.
func (s *Server) handleGenerate(c *gin.Context) {
	profileToken := c.PostForm("profile")
	invoiceJSON := c.PostForm("invoice")
	if profileToken == "" || invoiceJSON == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "profile and invoice form fields are required"})
		return
	}

	var payload RecordPayload
	if err := json.Unmarshal([]byte(invoiceJSON), &payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice payload", Details: err.Error()})
		return
	}

	source, err := readUpload(c, "pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "pdf upload is required", Details: err.Error()})
		return
	}

	inv, prof, err := s.builder.BuildForProfile(payload.toRecord(), profileToken)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	container, err := s.pipeline.Embed(c.Request.Context(), source, inv, prof)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.Data(http.StatusOK, "application/pdf", container)
}

// handleInspect extracts, validates and summarizes an uploaded container.
func (s *Server) handleInspect(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	report := s.pipeline.Inspect(c.Request.Context(), body)
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleInfo(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	resp := InfoResponse{
		Size:             len(body),
		SignaturePresent: bytes.Contains(body, []byte("/ByteRange")),
	}
	if names, err := s.codec.ListAttachments(body); err == nil {
		resp.Attachments = names
	}

	c.JSON(http.StatusOK, resp)
}

func readUpload(c *gin.Context, field string) ([]byte, error) {
	file, _, err := c.Request.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// statusFor maps the typed construction errors onto HTTP status codes.
func statusFor(err error) int {
	var unsupported *model.UnsupportedProfileError
	var incomplete *model.IncompleteDocumentError
	var mapping *builder.MappingError
	switch {
	case errors.As(err, &unsupported), errors.As(err, &incomplete), errors.As(err, &mapping):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
