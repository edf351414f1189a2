package facturxlib

import (
	"context"

	"github.com/rezonia/facturx/internal/builder"
	"github.com/rezonia/facturx/internal/facturx"
	"github.com/rezonia/facturx/internal/xsd"
)

// Record is the flat input accepted by the invoice builder.
type Record = builder.Record

// PartyRecord describes a trade party in a Record.
type PartyRecord = builder.PartyRecord

// LineRecord describes a billed line in a Record.
type LineRecord = builder.LineRecord

// Report summarizes a container inspection.
type Report = facturx.Report

// EngineOptions configure an Engine.
type EngineOptions struct {
	// SchemaDir points at the official XSD files. When empty the
	// engine falls back to structural validation.
	SchemaDir string
}

// DefaultEngineOptions returns the default engine configuration.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{}
}

// Engine bundles the invoice builder and the container pipeline behind
// a single entry point.
type Engine struct {
	builder  *builder.Builder
	pipeline *facturx.Pipeline
	free     func()
}

// NewEngine creates an engine with default options.
func NewEngine() *Engine {
	engine, _ := NewEngineWithOptions(DefaultEngineOptions())
	return engine
}

// NewEngineWithOptions creates an engine with the given options. The
// returned engine must be closed when schema validation is enabled.
func NewEngineWithOptions(opts EngineOptions) (*Engine, error) {
	e := &Engine{
		builder: builder.New(),
		free:    func() {},
	}
	if opts.SchemaDir != "" {
		validator, err := xsd.NewSchemaValidator(opts.SchemaDir)
		if err != nil {
			return nil, err
		}
		e.pipeline = facturx.NewPipeline(facturx.WithValidator(validator))
		e.free = validator.Free
		return e, nil
	}
	e.pipeline = facturx.NewPipeline()
	return e, nil
}

// Close releases schema resources held by the engine.
func (e *Engine) Close() {
	e.free()
}

// Build maps a flat record to the structured invoice model for the
// given profile token.
func (e *Engine) Build(rec Record, profileToken string) (*Invoice, Profile, error) {
	return e.builder.BuildForProfile(rec, profileToken)
}

// Render serializes the invoice to Cross Industry Invoice XML.
func (e *Engine) Render(inv *Invoice, prof Profile) (string, error) {
	return e.pipeline.Render(inv, prof)
}

// Embed serializes the invoice and attaches it to the source PDF,
// returning the new container bytes.
func (e *Engine) Embed(ctx context.Context, source []byte, inv *Invoice, prof Profile) ([]byte, error) {
	return e.pipeline.Embed(ctx, source, inv, prof)
}

// Inspect extracts and validates the invoice embedded in a container.
func (e *Engine) Inspect(ctx context.Context, container []byte) *Report {
	return e.pipeline.Inspect(ctx, container)
}
