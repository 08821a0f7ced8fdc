package loader

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const abilitiesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ability sets",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["abilities"],
    "properties": {
      "description": {"type": "string"},
      "abilities": {
        "type": "object",
        "additionalProperties": {"$ref": "#/definitions/ability"}
      }
    },
    "additionalProperties": false
  },
  "definitions": {
    "strings": {"type": "array", "items": {"type": "string"}},
    "ability": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["movement", "attack", "utility"]},
        "area": {"enum": ["single", "line", "cone", "radius"]},
        "range": {"enum": ["close", "medium", "far"]},
        "stamina": {"type": "integer", "minimum": 0},
        "arguments": {"$ref": "#/definitions/strings"},
        "default arguments": {"$ref": "#/definitions/strings"},
        "effects": {"type": "object"},
        "prereqs": {"type": "object", "additionalProperties": {"type": "integer"}},
        "constraints": {"$ref": "#/definitions/strings"},
        "flavor": {"type": "string"},
        "fail flavor": {"type": "string"}
      },
      "additionalProperties": false
    }
  }
}`

const behaviorsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "behavior sets",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "required": ["rules"],
    "properties": {
      "description": {"type": "string"},
      "rules": {
        "type": "array",
        "items": {
          "type": "array",
          "minItems": 1,
          "items": {"type": "string"}
        }
      }
    },
    "additionalProperties": false
  }
}`

var (
	abilitiesValidator = jsonschema.MustCompileString("abilities.schema.json", abilitiesSchema)
	behaviorsValidator = jsonschema.MustCompileString("behaviors.schema.json", behaviorsSchema)
)

// checkSchema decodes data generically and validates it against s. The
// returned error carries every failing location.
func checkSchema(s *jsonschema.Schema, name string, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s does not match its schema: %w", name, err)
	}
	return nil
}
