package bank

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed data/questions.schema.json
var schemaJSON []byte

const schemaURL = "schema://quantsim/questions.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse bank schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// validate checks a JSON-encoded bank against the bank schema.
func validate(raw []byte) error {
	sch, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile bank schema: %w", err)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse bank: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("bank schema validation failed: %w", err)
	}
	return nil
}
