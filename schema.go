package ilo

import (
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaResourceURL names the in-memory schema resource handed to the
// compiler; it never touches the filesystem.
const schemaResourceURL = "config-schema.json"

// validateSchema checks the file's generic decoded form against the given
// JSON schema before the strict decode into T runs. Schema violations and
// schema compilation failures both surface as ErrDecode, since either way
// the file content cannot be accepted.
func validateSchema(schemaSrc string, codec Codec, raw []byte, path string) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaResourceURL, strings.NewReader(schemaSrc)); err != nil {
		return fmt.Errorf("%w %s: add schema resource: %w", ErrDecode, path, err)
	}
	schema, err := compiler.Compile(schemaResourceURL)
	if err != nil {
		return fmt.Errorf("%w %s: compile schema: %w", ErrDecode, path, err)
	}

	var doc any
	if err := codec.Decode(raw, &doc); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	if err := schema.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("%w %s: %s", ErrDecode, path, leafSchemaCause(ve))
		}
		return fmt.Errorf("%w %s: %w", ErrDecode, path, err)
	}
	return nil
}

// leafSchemaCause walks to the deepest first cause and renders it with its
// instance location, which locates the offending field better than the root
// "doesn't validate" message.
func leafSchemaCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return fmt.Sprintf("%s: %s", loc, ve.Message)
}
