package meta

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed doctype.cue
var doctypeSchema string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
	schemaErr  error
)

func compiledSchema() (cue.Value, error) {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		root := ctx.CompileString(doctypeSchema, cue.Filename("doctype.cue"))
		if err := root.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling doctype schema: %w", err)
			return
		}
		schemaVal = root.LookupPath(cue.ParsePath("#DocType"))
		if err := schemaVal.Err(); err != nil {
			schemaErr = fmt.Errorf("looking up #DocType: %w", err)
		}
	})
	return schemaVal, schemaErr
}

// ValidateDefinition checks a JSON doctype definition against the embedded
// CUE schema. Returns a descriptive error for malformed definitions.
func ValidateDefinition(raw []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := cuejson.Validate(raw, schema); err != nil {
		return fmt.Errorf("doctype definition invalid: %w", err)
	}
	return nil
}
