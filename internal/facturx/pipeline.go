// Package facturx orchestrates the container pipeline: embedding invoice
// XML into a PDF on the write path, and extracting, validating and
// summarizing it on the read path.
package facturx

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/rs/zerolog"

	"github.com/rezonia/facturx/internal/cii"
	"github.com/rezonia/facturx/internal/logger"
	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/pdf"
	"github.com/rezonia/facturx/internal/profile"
	"github.com/rezonia/facturx/internal/xsd"
)

// signatureMarker is the byte pattern of an incremental/byte-range PDF
// signature dictionary.
const signatureMarker = "/ByteRange"

const signatureNote = "PDF contains a signature structure (/ByteRange). Full cryptographic verification is out of scope."

// Codec embeds and extracts the structured part of a container.
type Codec interface {
	Embed(source []byte, xml string) ([]byte, error)
	ExtractXML(container []byte) (string, error)
}

// Pipeline sequences serialization, embedding and inspection. Both
// operations are stateless per call and may run concurrently on
// different inputs.
type Pipeline struct {
	codec     Codec
	validator xsd.Validator
	log       zerolog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithCodec overrides the container codec
func WithCodec(c Codec) Option {
	return func(p *Pipeline) {
		p.codec = c
	}
}

// WithValidator overrides the schema validator
func WithValidator(v xsd.Validator) Option {
	return func(p *Pipeline) {
		p.validator = v
	}
}

// NewPipeline creates a pipeline with the pdfcpu codec and the
// structural validator unless overridden.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		codec:     pdf.NewCodec(),
		validator: xsd.NewStructural(),
		log:       logger.WithComponent("facturx"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render serializes the invoice for the profile without touching a
// container.
func (p *Pipeline) Render(inv *model.Invoice, prof profile.Profile) (string, error) {
	return cii.Generate(inv, prof)
}

// Embed serializes the invoice and attaches the XML to the source PDF,
// returning the new container bytes. The source is never modified.
func (p *Pipeline) Embed(ctx context.Context, source []byte, inv *model.Invoice, prof profile.Profile) ([]byte, error) {
	xml, err := cii.Generate(inv, prof)
	if err != nil {
		return nil, err
	}
	return p.EmbedXML(ctx, source, xml)
}

// EmbedXML attaches pre-serialized invoice XML to the source PDF.
func (p *Pipeline) EmbedXML(ctx context.Context, source []byte, xml string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.codec.Embed(source, xml)
}

// Generate writes a new container carrying the serialized invoice to
// outPath. Pure transformation: the caller owns the path, and concurrent
// calls on distinct paths need no coordination.
func (p *Pipeline) Generate(ctx context.Context, source []byte, inv *model.Invoice, prof profile.Profile, outPath string) error {
	container, err := p.Embed(ctx, source, inv, prof)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, container, 0o644); err != nil {
		return model.NewSerializationError("could not write output PDF", err)
	}
	p.log.Debug().Str("profile", prof.String()).Str("out", outPath).Int("bytes", len(container)).Msg("container written")
	return nil
}

// Inspect extracts the embedded XML, validates it and harvests
// lightweight metadata. Every stage failure past extraction is degraded
// into the report; the method never fails for a malformed document.
func (p *Pipeline) Inspect(ctx context.Context, container []byte) *Report {
	report := &Report{}

	// Stage 1: extraction. A failure here ends the inspection.
	xml, err := p.codec.ExtractXML(container)
	if err != nil {
		report.AddSchemaError("extraction failed: " + err.Error())
		return report
	}
	report.XML = xml

	doc := etree.NewDocument()
	parseErr := doc.ReadFromString(xml)

	detected, detectedOK := p.detectProfile(doc, parseErr)

	// Stage 2: schema validation against the detected profile's rules.
	valid, messages, err := p.validator.Validate(xml, detected)
	if err != nil {
		report.AddSchemaError("schema validation failed: " + err.Error())
	} else {
		report.SchemaValid = valid
		for _, msg := range messages {
			report.AddSchemaError(msg)
		}
	}

	// Stage 3: metadata scan, best effort.
	if parseErr != nil {
		report.AddSchemaError("XML parsing error: " + parseErr.Error())
	} else {
		if detectedOK {
			report.Profile = detected.String()
		}
		report.Issuer = findPartyName(doc, "SellerTradeParty")
		report.Recipient = findPartyName(doc, "BuyerTradeParty")
	}

	// Stage 4: signature heuristic on the raw container bytes.
	if bytes.Contains(container, []byte(signatureMarker)) {
		report.SignaturePresent = true
		report.SignatureNote = signatureNote
	}

	report.Valid = report.SchemaValid
	return report
}

func (p *Pipeline) detectProfile(doc *etree.Document, parseErr error) (profile.Profile, bool) {
	if parseErr != nil || doc.Root() == nil {
		return "", false
	}
	guideline := doc.Root().FindElement("ExchangedDocumentContext/GuidelineSpecifiedDocumentContextParameter/ID")
	if guideline == nil {
		return "", false
	}
	return profile.Detect(strings.TrimSpace(guideline.Text()))
}

func findPartyName(doc *etree.Document, partyTag string) string {
	if doc.Root() == nil {
		return ""
	}
	elem := doc.Root().FindElement("SupplyChainTradeTransaction/ApplicableHeaderTradeAgreement/" + partyTag + "/Name")
	if elem == nil {
		return ""
	}
	return strings.TrimSpace(elem.Text())
}
