// Package xsd validates invoice XML against the structural rules of a
// conformance profile. The Schema backend runs real XSD validation via
// libxml2 and needs the Factur-X schema files on disk; the Structural
// backend checks mandatory blocks and profile gating in-process and is
// used when no schema directory is configured.
package xsd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	xsdvalidate "github.com/terminalstatic/go-xsd-validate"

	"github.com/rezonia/facturx/internal/profile"
)

// Validator checks invoice XML against a profile's ruleset. The boolean
// reports conformance, the slice carries validator messages, and the
// error reports a failure to run validation at all.
type Validator interface {
	Validate(xml string, p profile.Profile) (valid bool, messages []string, err error)
}

// SchemaValidator validates against the official XSD files.
type SchemaValidator struct {
	handlers map[profile.Profile]*xsdvalidate.XsdHandler
}

// NewSchemaValidator loads one schema per profile from schemaDir. A
// profile's schema file is located by a case-insensitive name match on
// the profile token. Profiles without a schema file fall back to the
// richest loaded schema at validation time.
func NewSchemaValidator(schemaDir string) (*SchemaValidator, error) {
	if err := xsdvalidate.Init(); err != nil {
		return nil, fmt.Errorf("libxml2 init: %w", err)
	}

	v := &SchemaValidator{handlers: make(map[profile.Profile]*xsdvalidate.XsdHandler)}
	for _, p := range profile.All {
		path, err := findSchema(schemaDir, p)
		if err != nil {
			continue
		}
		handler, err := xsdvalidate.NewXsdHandlerUrl(path, xsdvalidate.ParsErrDefault)
		if err != nil {
			v.Free()
			return nil, fmt.Errorf("load schema for %s: %w", p, err)
		}
		v.handlers[p] = handler
	}

	if len(v.handlers) == 0 {
		v.Free()
		return nil, fmt.Errorf("no profile schemas found in %s", schemaDir)
	}
	return v, nil
}

// Validate runs XSD validation for the profile's schema.
func (v *SchemaValidator) Validate(xml string, p profile.Profile) (bool, []string, error) {
	handler := v.handlerFor(p)
	if handler == nil {
		return false, nil, fmt.Errorf("no schema loaded for profile %s", p)
	}

	err := handler.ValidateMem([]byte(xml), xsdvalidate.ValidErrDefault)
	if err == nil {
		return true, nil, nil
	}

	var valErr xsdvalidate.ValidationError
	if errors.As(err, &valErr) {
		messages := make([]string, 0, len(valErr.Errors))
		for _, e := range valErr.Errors {
			messages = append(messages, strings.TrimSpace(e.Message))
		}
		return false, messages, nil
	}

	var parseErr xsdvalidate.XmlParserError
	if errors.As(err, &parseErr) {
		return false, []string{parseErr.Error()}, nil
	}

	return false, nil, err
}

// Free releases the libxml2 handlers. Call once when done.
func (v *SchemaValidator) Free() {
	for _, handler := range v.handlers {
		handler.Free()
	}
	v.handlers = nil
	xsdvalidate.Cleanup()
}

// handlerFor picks the profile's handler, or the richest available one
// for unknown profiles.
func (v *SchemaValidator) handlerFor(p profile.Profile) *xsdvalidate.XsdHandler {
	if handler, ok := v.handlers[p]; ok {
		return handler
	}
	for i := len(profile.All) - 1; i >= 0; i-- {
		if handler, ok := v.handlers[profile.All[i]]; ok {
			return handler
		}
	}
	return nil
}

func findSchema(dir string, p profile.Profile) (string, error) {
	token := strings.ToLower(string(p))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		name := strings.ToLower(entry.Name())
		if entry.IsDir() || !strings.HasSuffix(name, ".xsd") {
			continue
		}
		folded := strings.ReplaceAll(name, "-", "")
		// The basic token must not claim the basicwl schema file.
		if token == "basic" && strings.Contains(folded, "basicwl") {
			continue
		}
		if strings.Contains(folded, token) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("no schema for profile %s in %s", p, dir)
}
