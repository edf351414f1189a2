// Package pdf is the container codec: it attaches the invoice XML to a
// PDF and pulls it back out. It knows nothing about profiles or schema
// conformance; malformed containers surface as CodecError.
package pdf

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/rezonia/facturx/internal/model"
)

// AttachmentName is the standardized file name of the embedded part.
const AttachmentName = "factur-x.xml"

// Historical attachment names still found in the wild.
var knownAttachmentNames = []string{
	AttachmentName,
	"zugferd-invoice.xml",
	"xrechnung.xml",
}

// Codec embeds and extracts XML attachments using pdfcpu.
type Codec struct {
	conf *pdfmodel.Configuration
}

// NewCodec creates a codec with relaxed validation, so slightly
// non-conformant source PDFs still round-trip.
func NewCodec() *Codec {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return &Codec{conf: conf}
}

// Embed returns a copy of source carrying xml as an attached part named
// factur-x.xml. The source bytes are never modified.
func (c *Codec) Embed(source []byte, xml string) ([]byte, error) {
	if len(source) == 0 {
		return nil, model.NewCodecError("embed", "empty source PDF", nil)
	}

	dir, err := os.MkdirTemp("", "facturx-embed-")
	if err != nil {
		return nil, model.NewCodecError("embed", "could not stage attachment", err)
	}
	defer os.RemoveAll(dir)

	xmlPath := filepath.Join(dir, AttachmentName)
	if err := os.WriteFile(xmlPath, []byte(xml), 0o600); err != nil {
		return nil, model.NewCodecError("embed", "could not stage attachment", err)
	}

	var out bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(source), &out, []string{xmlPath}, false, c.conf); err != nil {
		return nil, model.NewCodecError("embed", "could not attach XML to PDF", err)
	}
	return out.Bytes(), nil
}

// ExtractXML returns the embedded invoice XML. It prefers the
// standardized attachment names and falls back to the first attachment
// with an .xml suffix.
func (c *Codec) ExtractXML(container []byte) (string, error) {
	attachments, err := c.readAttachments(container)
	if err != nil {
		return "", err
	}

	for _, name := range knownAttachmentNames {
		for _, a := range attachments {
			if strings.EqualFold(a.FileName, name) {
				return c.readAttachment(a)
			}
		}
	}
	for _, a := range attachments {
		if strings.HasSuffix(strings.ToLower(a.FileName), ".xml") {
			return c.readAttachment(a)
		}
	}

	return "", model.NewCodecError("extract", "no embedded XML attachment found", nil)
}

// ListAttachments returns the file names of all embedded parts.
func (c *Codec) ListAttachments(container []byte) ([]string, error) {
	attachments, err := c.readAttachments(container)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(attachments))
	for _, a := range attachments {
		names = append(names, a.FileName)
	}
	return names, nil
}

func (c *Codec) readAttachments(container []byte) ([]pdfmodel.Attachment, error) {
	if len(container) == 0 {
		return nil, model.NewCodecError("extract", "empty container", nil)
	}
	attachments, err := api.ExtractAttachmentsRaw(bytes.NewReader(container), "", nil, c.conf)
	if err != nil {
		return nil, model.NewCodecError("extract", "could not read PDF container", err)
	}
	return attachments, nil
}

func (c *Codec) readAttachment(a pdfmodel.Attachment) (string, error) {
	data, err := io.ReadAll(a)
	if err != nil {
		return "", model.NewCodecError("extract", "could not read attachment "+a.FileName, err)
	}
	return string(data), nil
}
