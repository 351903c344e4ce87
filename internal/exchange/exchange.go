// Package exchange converts a data set to and from its export text.
package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/conorfennell/edusprint/internal/domain"
)

// ErrMalformedImport wraps every reason an import payload is rejected.
var ErrMalformedImport = errors.New("invalid file: malformed data set")

const schemaURL = "schema://edusprint/import.json"

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(importSchema))
	if err != nil {
		return nil, fmt.Errorf("parse import schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add import schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Export renders ds as indented JSON.
func Export(ds domain.DataSet) ([]byte, error) {
	out, err := json.MarshalIndent(ds.Clone(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to export data set: %w", err)
	}
	return out, nil
}

// Import parses an exported data set. Missing sessions default to an empty
// list. Any failure wraps ErrMalformedImport and no partial result is
// returned.
func Import(text []byte) (domain.DataSet, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(text))
	if err != nil {
		return domain.DataSet{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	schema, err := compiled()
	if err != nil {
		return domain.DataSet{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return domain.DataSet{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	var ds domain.DataSet
	if err := json.Unmarshal(text, &ds); err != nil {
		return domain.DataSet{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	ds = ds.Clone()

	if err := ds.Validate(); err != nil {
		return domain.DataSet{}, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	return ds, nil
}
