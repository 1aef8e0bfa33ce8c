package ctrf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/ctrf-io/newman-reporter-ctrf-json/assets"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "https://ctrf.io/schema/ctrf.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource(schemaURL, strings.NewReader(assets.CTRFSchema)); err != nil {
			schemaErr = fmt.Errorf("ctrf schema load failed: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("ctrf schema compile failed: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// Validate checks a serialized report against the CTRF schema and the
// summary invariants.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("report is not valid JSON: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("report does not match the CTRF schema: %w", err)
	}

	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("failed to parse report: %w", err)
	}
	if errs := r.Check(); len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// ValidateFile reads and validates the report at path
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report %s: %w", path, err)
	}
	if err := Validate(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
