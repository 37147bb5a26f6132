package validation

// JSON:API request document accepted by the write verbs
const requestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["data"],
  "properties": {
    "data": {
      "oneOf": [
        {"$ref": "#/definitions/resource"},
        {"type": "array", "items": {"$ref": "#/definitions/resource"}}
      ]
    },
    "meta": {"type": "object"}
  },
  "definitions": {
    "resource": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "id": {"type": ["string", "integer"]},
        "type": {"type": "string", "minLength": 1},
        "attributes": {"type": "object"},
        "relationships": {"type": "object"}
      }
    }
  }
}`
