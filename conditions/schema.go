package conditions

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// lingoSchema is the JSON Schema every condition document must pass before
// structural decoding. It pins the envelope shape and the required fields
// per condition type; field-level semantics (URL schemes, JSONPath syntax,
// allowed RPC methods) are checked by each condition's validate.
const lingoSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "condition"],
  "properties": {
    "version": {"type": "string", "pattern": "^[0-9]+\\.[0-9]+\\.[0-9]+$"},
    "condition": {"$ref": "#/$defs/condition"}
  },
  "$defs": {
    "returnValueTest": {
      "type": "object",
      "required": ["comparator", "value"],
      "properties": {
        "comparator": {"enum": ["==", "!=", ">", ">=", "<", "<="]},
        "key": {"type": ["string", "integer"]}
      }
    },
    "condition": {
      "type": "object",
      "required": ["conditionType"],
      "properties": {
        "conditionType": {
          "enum": ["time", "rpc", "compound", "json-api", "json-rpc", "sequential", "if-then-else"]
        },
        "name": {"type": "string"}
      },
      "allOf": [
        {
          "if": {"properties": {"conditionType": {"const": "time"}}},
          "then": {
            "required": ["chain", "method", "returnValueTest"],
            "properties": {
              "chain": {"type": "integer", "minimum": 0},
              "method": {"const": "blocktime"},
              "returnValueTest": {"$ref": "#/$defs/returnValueTest"}
            }
          }
        },
        {
          "if": {"properties": {"conditionType": {"const": "rpc"}}},
          "then": {
            "required": ["chain", "method", "returnValueTest"],
            "properties": {
              "chain": {"type": "integer", "minimum": 0},
              "method": {"type": "string"},
              "parameters": {"type": "array"},
              "returnValueTest": {"$ref": "#/$defs/returnValueTest"}
            }
          }
        },
        {
          "if": {"properties": {"conditionType": {"const": "json-api"}}},
          "then": {
            "required": ["endpoint", "returnValueTest"],
            "properties": {
              "endpoint": {"type": "string"},
              "parameters": {"type": "object"},
              "query": {"type": "string"},
              "authorizationToken": {"type": "string"},
              "returnValueTest": {"$ref": "#/$defs/returnValueTest"}
            }
          }
        },
        {
          "if": {"properties": {"conditionType": {"const": "json-rpc"}}},
          "then": {
            "required": ["endpoint", "method", "returnValueTest"],
            "properties": {
              "endpoint": {"type": "string"},
              "method": {"type": "string"},
              "query": {"type": "string"},
              "returnValueTest": {"$ref": "#/$defs/returnValueTest"}
            }
          }
        },
        {
          "if": {"properties": {"conditionType": {"const": "compound"}}},
          "then": {
            "required": ["operator", "operands"],
            "properties": {
              "operator": {"enum": ["and", "or", "not"]},
              "operands": {
                "type": "array",
                "minItems": 1,
                "items": {"$ref": "#/$defs/condition"}
              }
            }
          }
        },
        {
          "if": {"properties": {"conditionType": {"const": "sequential"}}},
          "then": {
            "required": ["conditionVariables"],
            "properties": {
              "conditionVariables": {
                "type": "array",
                "minItems": 2,
                "items": {
                  "type": "object",
                  "required": ["varName", "condition"],
                  "properties": {
                    "varName": {"type": "string"},
                    "condition": {"$ref": "#/$defs/condition"}
                  }
                }
              }
            }
          }
        },
        {
          "if": {"properties": {"conditionType": {"const": "if-then-else"}}},
          "then": {
            "required": ["ifCondition", "thenCondition"],
            "properties": {
              "ifCondition": {"$ref": "#/$defs/condition"},
              "thenCondition": {"$ref": "#/$defs/condition"},
              "elseCondition": {
                "anyOf": [{"$ref": "#/$defs/condition"}, {"type": "boolean"}]
              }
            }
          }
        }
      ]
    }
  }
}`

var compiledLingoSchema = jsonschema.MustCompileString("lingo.schema.json", lingoSchema)

// validateLingoSchema checks raw against the lingo schema.
func validateLingoSchema(raw []byte) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConditionLingo, err)
	}
	if err := compiledLingoSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConditionLingo, err)
	}
	return nil
}
