package resumes

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed resume.schema.json
var documentSchemaJSON string

var documentSchema = gojsonschema.NewStringLoader(documentSchemaJSON)

// ValidateDocumentJSON checks that raw conforms to the resume document shape.
// AI-enhanced documents pass through here before they are staged; entry IDs
// are optional in the schema because they may be regenerated afterwards.
func ValidateDocumentJSON(raw []byte) error {
	result, err := gojsonschema.Validate(documentSchema, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("document schema check: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("document shape invalid: %s", strings.Join(msgs, "; "))
}
