package facturx

// Report is the outcome of inspecting a container. Its shape is stable
// across all profiles; a best-effort report is always produced, never an
// error, once a container has been handed in.
type Report struct {
	// Valid mirrors the schema validation result.
	Valid bool `json:"valid"`

	// XML is the recovered document text, absent on extraction failure.
	XML string `json:"xml,omitempty"`

	// SchemaValid reports conformance with the detected profile's rules.
	SchemaValid bool `json:"schema_valid"`

	// SchemaErrors collects validator messages and recovered stage
	// failures, in stage order.
	SchemaErrors []string `json:"schema_errors,omitempty"`

	// Profile is the detected conformance token, absent if unknown.
	Profile string `json:"profile,omitempty"`

	// Issuer and Recipient are the party names found by structural
	// position, absent when not present in the document.
	Issuer    string `json:"issuer,omitempty"`
	Recipient string `json:"recipient,omitempty"`

	// SignaturePresent reports a byte-pattern match for a digital
	// signature structure. Never a cryptographic verification.
	SignaturePresent bool   `json:"signature_present"`
	SignatureNote    string `json:"signature_note,omitempty"`
}

// AddSchemaError appends a message to the schema error list
func (r *Report) AddSchemaError(msg string) {
	r.SchemaErrors = append(r.SchemaErrors, msg)
}
