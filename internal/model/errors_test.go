package model_test

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/facturx/internal/model"
)

func TestUnsupportedProfileError(t *testing.T) {
	err := model.NewUnsupportedProfileError("FULL")
	assert.Equal(t, `unsupported Factur-X profile: "FULL"`, err.Error())
}

func TestIncompleteDocumentError(t *testing.T) {
	err := model.NewIncompleteDocumentError("exchanged document")
	assert.Equal(t, "incomplete invoice document: missing exchanged document", err.Error())
}

func TestSerializationErrorUnwrap(t *testing.T) {
	err := model.NewSerializationError("could not write output PDF", io.ErrClosedPipe)
	assert.Contains(t, err.Error(), "could not write output PDF")
	assert.ErrorIs(t, err, io.ErrClosedPipe)

	bare := model.NewSerializationError("no cause", nil)
	assert.Equal(t, "serialization failed: no cause", bare.Error())
}

func TestCodecErrorUnwrap(t *testing.T) {
	cause := errors.New("xref table corrupt")
	err := model.NewCodecError("extract", "could not read PDF container", cause)
	assert.Contains(t, err.Error(), "codec extract failed")
	assert.ErrorIs(t, err, cause)
}
