package model

import "fmt"

// UnsupportedProfileError reports an unknown conformance profile token.
// It is raised before any tree construction happens.
type UnsupportedProfileError struct {
	Token string
}

func (e *UnsupportedProfileError) Error() string {
	return fmt.Sprintf("unsupported Factur-X profile: %q", e.Token)
}

// NewUnsupportedProfileError creates an error for an unknown profile token
func NewUnsupportedProfileError(token string) *UnsupportedProfileError {
	return &UnsupportedProfileError{Token: token}
}

// IncompleteDocumentError reports a missing mandatory root substructure.
type IncompleteDocumentError struct {
	Missing string
}

func (e *IncompleteDocumentError) Error() string {
	return fmt.Sprintf("incomplete invoice document: missing %s", e.Missing)
}

// NewIncompleteDocumentError creates an error for a missing root part
func NewIncompleteDocumentError(missing string) *IncompleteDocumentError {
	return &IncompleteDocumentError{Missing: missing}
}

// SerializationError reports a local I/O or allocation failure while
// writing an otherwise well-formed element tree.
type SerializationError struct {
	Message string
	Cause   error
}

func (e *SerializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialization failed: %s (%v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("serialization failed: %s", e.Message)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// NewSerializationError creates a new serialization error
func NewSerializationError(message string, cause error) *SerializationError {
	return &SerializationError{Message: message, Cause: cause}
}

// CodecError reports an embedding or extraction failure from the PDF
// container codec. On the read path it is degraded into the inspection
// report rather than propagated.
type CodecError struct {
	Op      string
	Message string
	Cause   error
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("codec %s failed: %s (%v)", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("codec %s failed: %s", e.Op, e.Message)
}

func (e *CodecError) Unwrap() error {
	return e.Cause
}

// NewCodecError creates a new codec error
func NewCodecError(op, message string, cause error) *CodecError {
	return &CodecError{Op: op, Message: message, Cause: cause}
}
