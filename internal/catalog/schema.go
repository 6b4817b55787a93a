// internal/catalog/schema.go
package catalog

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// catalogSchema constrains external catalog files before they reach the
// controller. Question keys and prompts are mandatory; choice questions
// must list their options.
const catalogSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["key", "prompt", "type", "order"],
    "properties": {
      "key": {"type": "string", "minLength": 1},
      "prompt": {"type": "string", "minLength": 1},
      "type": {"type": "string", "enum": ["boolean", "single_choice", "multi_choice", "text"]},
      "options": {"type": "array", "items": {"type": "string"}},
      "allowMultiple": {"type": "boolean"},
      "order": {"type": "integer", "minimum": 1},
      "requirementId": {"type": "string"},
      "followUp": {
        "type": "object",
        "required": ["onAnswer", "prompt", "profileField"],
        "properties": {
          "onAnswer": {"type": "string"},
          "prompt": {"type": "string"},
          "profileField": {"type": "string"}
        }
      },
      "skipWhen": {
        "type": "object",
        "required": ["questionKey", "answerNotIn"],
        "properties": {
          "questionKey": {"type": "string"},
          "answerNotIn": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

func validateCatalogJSON(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(catalogSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("catalog schema validation: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid catalog file: %s", strings.Join(msgs, "; "))
	}

	return nil
}
