package pdf_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturx/internal/model"
	"github.com/rezonia/facturx/internal/pdf"
)

// minimalPDF builds a one-page PDF with a consistent xref table, the
// smallest container the codec accepts.
func minimalPDF() []byte {
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>\nendobj\n",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		buf.WriteString(obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	codec := pdf.NewCodec()
	const xml = `<?xml version="1.0" encoding="UTF-8"?><invoice>round trip</invoice>`

	container, err := codec.Embed(minimalPDF(), xml)
	require.NoError(t, err)
	assert.NotEqual(t, minimalPDF(), container)

	names, err := codec.ListAttachments(container)
	require.NoError(t, err)
	assert.Contains(t, names, pdf.AttachmentName)

	got, err := codec.ExtractXML(container)
	require.NoError(t, err)
	assert.Equal(t, xml, got)
}

func TestListAttachmentsNoAttachments(t *testing.T) {
	codec := pdf.NewCodec()

	names, err := codec.ListAttachments(minimalPDF())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestExtractNoAttachment(t *testing.T) {
	codec := pdf.NewCodec()

	_, err := codec.ExtractXML(minimalPDF())
	require.Error(t, err)

	var codecErr *model.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "extract", codecErr.Op)
}

func TestEmbedEmptySource(t *testing.T) {
	codec := pdf.NewCodec()

	_, err := codec.Embed(nil, "<xml/>")
	require.Error(t, err)

	var codecErr *model.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "embed", codecErr.Op)
}

func TestExtractEmptyContainer(t *testing.T) {
	codec := pdf.NewCodec()

	_, err := codec.ExtractXML(nil)
	require.Error(t, err)

	var codecErr *model.CodecError
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, "extract", codecErr.Op)
}

func TestExtractGarbageContainer(t *testing.T) {
	codec := pdf.NewCodec()

	_, err := codec.ExtractXML([]byte("not a PDF at all"))
	require.Error(t, err)

	var codecErr *model.CodecError
	assert.ErrorAs(t, err, &codecErr)
}

func TestListAttachmentsGarbage(t *testing.T) {
	codec := pdf.NewCodec()

	_, err := codec.ListAttachments([]byte("still not a PDF"))
	require.Error(t, err)
}
