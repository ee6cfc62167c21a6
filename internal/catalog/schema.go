package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/item.schema.json
var catalogSchemaJSON []byte

const catalogSchemaURL = "https://popguide.dev/schemas/catalog.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(catalogSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(catalogSchemaURL, doc); err != nil {
		return nil, fmt.Errorf("failed to register catalog schema: %w", err)
	}
	return c.Compile(catalogSchemaURL)
})

// ValidateDocument checks a JSON catalog document (an array of item records)
// against the embedded schema. Field types are enforced here; missing required
// fields are left to snapshot construction so that one bad record does not
// reject the whole catalog.
func ValidateDocument(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("catalog does not match schema: %w", err)
	}
	return nil
}

// DecodeJSON validates and decodes a JSON catalog document
func DecodeJSON(data []byte) ([]Item, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return items, nil
}
