// Package schema generates the four (five, counting the Audit/Authorize
// split) JSON Schema documents the rest of the engine validates against:
// the meta-schemas used to check identity/resource definitions, and the
// grant/request/response schemas derived from those definitions.
//
// Generation is pure and deterministic: the same definitions, in the
// same order, produce byte-equal schemas every time. All map keys below
// are marshaled through encoding/json, which sorts object keys, so two
// independently-built identical schema trees always serialize
// identically regardless of Go map iteration order.
package schema

// anyJSONTypes is the literal list of JSON Schema primitive type names,
// used for fields whose value may be any JSON value (equality, data
// payloads stashed on error entries, ...).
var anyJSONTypes = []any{"array", "boolean", "integer", "null", "number", "object", "string"}

// draft2020Schema is the "a schema must itself be a JSON Schema" slot.
// Rather than inline the (enormous) Draft 2020-12 meta-schema document,
// it is referenced by its well-known URI; the compiler in
// internal/validate resolves it from its own embedded draft registry.
var draft2020Schema = map[string]any{
	"$ref": "https://json-schema.org/draft/2020-12/schema",
}

func typeTokenSchema(title, description string, maxLength int) map[string]any {
	return map[string]any{
		"title":       title,
		"description": description,
		"type":        "string",
		"pattern":     "^[A-Za-z0-9_]+$",
		"minLength":   1,
		"maxLength":   maxLength,
	}
}

var typeTokenTemplate = typeTokenSchema(
	"Authzee Type",
	"A unique name to identify this type.",
	256,
)

func actionTokenSchema() map[string]any {
	return map[string]any{
		"title":       "Resource Action",
		"description": "Unique name for a resource action. The 'ResourceType:ResourceAction' pattern is common.",
		"type":        "string",
		"pattern":     `^[A-Za-z0-9_.:\-]+$`,
		"minLength":   1,
		"maxLength":   512,
	}
}

// IdentityDefinitionSchema is the meta-schema every IdentityDef must
// validate against.
func IdentityDefinitionSchema() map[string]any {
	return map[string]any{
		"title":                "Identity Definition",
		"description":          "An identity definition. Defines a type of identity to use with Authzee.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"identity_type", "schema"},
		"properties": map[string]any{
			"identity_type": typeTokenTemplate,
			"schema":        draft2020Schema,
		},
	}
}

// ResourceDefinitionSchema is the meta-schema every ResourceDef must
// validate against.
func ResourceDefinitionSchema() map[string]any {
	return map[string]any{
		"title":                "Resource Definition",
		"description":          "A resource definition. Defines a type of resource to use with Authzee.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"resource_type", "actions", "schema", "parent_types", "child_types"},
		"properties": map[string]any{
			"resource_type": typeTokenTemplate,
			"actions": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"minItems":    1,
				"items":       actionTokenSchema(),
			},
			"schema": draft2020Schema,
			"parent_types": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items":       map[string]any{"type": "string"},
				"description": "Types that are a parent of this resource. Instances of these types are " +
					"checked against their schemas and against the hierarchy when passed to a request.",
			},
			"child_types": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items":       map[string]any{"type": "string"},
				"description": "Types that are a child of this resource. Instances of these types are " +
					"checked against their schemas and against the hierarchy when passed to a request.",
			},
		},
	}
}

// grantBaseSchema is the Grant schema template, before the actions enum
// is filled in by Generate.
func grantBaseSchema() map[string]any {
	return map[string]any{
		"title":                "Grant",
		"description":          "A grant is an object representing an enacted authorization rule.",
		"type":                 "object",
		"additionalProperties": false,
		"required": []any{
			"effect", "actions", "query", "query_validation",
			"equality", "data", "context_schema", "context_validation",
		},
		"properties": map[string]any{
			"effect": map[string]any{
				"type": "string",
				"enum": []any{"allow", "deny"},
				"description": "Any applicable deny grant always causes the request to be not authorized. " +
					"If there are no applicable deny grants and there is an applicable allow grant, the " +
					"request is authorized. Otherwise the request is implicitly denied.",
			},
			"actions": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				// items is replaced by Generate with the enum of every
				// action defined across all resource defs.
				"items":       actionTokenSchema(),
				"description": "Actions this grant applies to, or an empty array to match every action.",
			},
			"query": map[string]any{
				"type":        "string",
				"description": `JMESPath query run against {"grant": <grant>, "request": <request>}.`,
			},
			"query_validation": map[string]any{
				"type": "string",
				"enum": []any{"validate", "error", "critical"},
				"description": "How query errors are treated: 'validate' makes the grant inapplicable " +
					"silently, 'error' also records a non-critical error, 'critical' halts the workflow.",
			},
			"equality": map[string]any{
				"type":        anyJSONTypes,
				"description": "Expected query result. A match makes the grant applicable.",
			},
			"data": map[string]any{
				"type":        "object",
				"description": "Opaque data made available to the query at evaluation time.",
			},
			"context_schema": draft2020Schema,
			"context_validation": map[string]any{
				"type": "string",
				"enum": []any{"none", "validate", "error", "critical"},
				"description": "How context-schema failures are treated: 'none' skips validation, " +
					"'validate' makes the grant inapplicable silently, 'error' also records a " +
					"non-critical error, 'critical' halts the workflow.",
			},
		},
	}
}

func contextErrorSchema() map[string]any {
	return map[string]any{
		"title":                "Context Error",
		"description":          "Error when the request context is not valid against the grant's context schema.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"message", "critical", "grant"},
		"properties": map[string]any{
			"message":  map[string]any{"type": "string"},
			"critical": map[string]any{"type": "boolean"},
			"grant":    map[string]any{"$ref": "#/$defs/grant"},
		},
	}
}

func definitionErrorSchema() map[string]any {
	return map[string]any{
		"title":                "Definition Error",
		"description":          "Error when an identity or resource definition is not valid.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"message", "critical", "definition_type", "definition"},
		"properties": map[string]any{
			"message":         map[string]any{"type": "string"},
			"critical":        map[string]any{"type": "boolean"},
			"definition_type": map[string]any{"type": "string", "enum": []any{"identity", "resource"}},
			"definition":      map[string]any{"type": anyJSONTypes},
		},
	}
}

func grantErrorSchema() map[string]any {
	return map[string]any{
		"title":                "Grant Error",
		"description":          "Error when a grant is not valid.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"message", "critical", "grant"},
		"properties": map[string]any{
			"message":  map[string]any{"type": "string"},
			"critical": map[string]any{"type": "boolean"},
			"grant":    map[string]any{"type": anyJSONTypes},
		},
	}
}

func jmespathErrorSchema() map[string]any {
	return map[string]any{
		"title":                "JMESPath Error",
		"description":          "Error when a grant's JMESPath query raised a search error.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"message", "critical", "grant"},
		"properties": map[string]any{
			"message":  map[string]any{"type": "string"},
			"critical": map[string]any{"type": "boolean"},
			"grant":    map[string]any{"$ref": "#/$defs/grant"},
		},
	}
}

func requestErrorSchema() map[string]any {
	return map[string]any{
		"title":                "Workflow Request Error",
		"description":          "Error when a request is not valid.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"message", "critical"},
		"properties": map[string]any{
			"message":  map[string]any{"type": "string"},
			"critical": map[string]any{"type": "boolean"},
		},
	}
}

// errorsBaseSchema is the Errors schema template, before $defs.grant is
// filled in by Generate.
func errorsBaseSchema() map[string]any {
	return map[string]any{
		"title":                "Workflow Errors",
		"description":          "Errors returned from an Authzee workflow.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"context", "definition", "grant", "jmespath", "request"},
		"properties": map[string]any{
			"context":    map[string]any{"type": "array", "items": contextErrorSchema()},
			"definition": map[string]any{"type": "array", "items": definitionErrorSchema()},
			"grant":      map[string]any{"type": "array", "items": grantErrorSchema()},
			"jmespath":   map[string]any{"type": "array", "items": jmespathErrorSchema()},
			"request":    map[string]any{"type": "array", "items": requestErrorSchema()},
		},
		"$defs": map[string]any{
			"grant": nil, // filled in with the generated Grant schema
		},
	}
}

func contextDef() map[string]any {
	return map[string]any{
		"type": "object",
		"patternProperties": map[string]any{
			"^[a-zA-Z0-9_]{1,256}$": map[string]any{"type": anyJSONTypes},
		},
	}
}

func resourceRequestBaseSchema() map[string]any {
	return map[string]any{
		"title":                "",
		"description":          "",
		"type":                 "object",
		"additionalProperties": false,
		"required": []any{
			"identities", "resource_type", "action", "resource",
			"parents", "children", "query_validation", "context", "context_validation",
		},
		"properties": map[string]any{
			"identities":    map[string]any{"$ref": "#/$defs/identities"},
			"resource_type": map[string]any{"const": ""},
			"action":        map[string]any{"type": "string"},
			"resource":      map[string]any{},
			"parents":       map[string]any{},
			"children":      map[string]any{},
			"query_validation": map[string]any{
				"type": "string",
				"enum": []any{"grant", "validate", "error", "critical"},
			},
			"context": map[string]any{"$ref": "#/$defs/context"},
			"context_validation": map[string]any{
				"type": "string",
				"enum": []any{"grant", "none", "validate", "error", "critical"},
			},
		},
	}
}

func auditResponseBaseSchema() map[string]any {
	return map[string]any{
		"title":                "Audit Response",
		"description":          "Response for the Audit workflow.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"completed", "grants", "errors"},
		"properties": map[string]any{
			"completed": map[string]any{"type": "boolean"},
			"grants": map[string]any{
				"type":        "array",
				"items":       map[string]any{"$ref": "#/$defs/grant"},
				"description": "Grants applicable to the request, in grant-input order.",
			},
			"errors": nil, // filled in with the generated Errors schema body
		},
		"$defs": map[string]any{
			"grant": nil, // filled in with the generated Grant schema
		},
	}
}

func authorizeResponseBaseSchema() map[string]any {
	return map[string]any{
		"title":                "Authorize Response",
		"description":          "Response for the Authorize workflow.",
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"authorized", "completed", "grant", "message", "errors"},
		"properties": map[string]any{
			"authorized": map[string]any{"type": "boolean"},
			"completed":  map[string]any{"type": "boolean"},
			"grant": map[string]any{
				"description": "The grant responsible for the decision, if any.",
				"anyOf": []any{
					map[string]any{"$ref": "#/$defs/grant"},
					map[string]any{"type": "null"},
				},
			},
			"message": map[string]any{"type": "string"},
			"errors":  nil, // filled in with the generated Errors schema body
		},
		"$defs": map[string]any{
			"grant": nil, // filled in with the generated Grant schema
		},
	}
}
