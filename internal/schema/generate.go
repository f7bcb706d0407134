package schema

import (
	"encoding/json"
	"sort"

	"github.com/authzee/authzee-go/internal/authzee"
)

// Schemas is the full set of schemas Generate derives from one set of
// definitions: the grant schema grants must validate against, the
// errors schema embedded in both response schemas, the request schema
// requests must validate against, and the two workflow response
// schemas.
type Schemas struct {
	Grant     map[string]any `json:"grant"`
	Errors    map[string]any `json:"errors"`
	Request   map[string]any `json:"request"`
	Audit     map[string]any `json:"audit"`
	Authorize map[string]any `json:"authorize"`
}

// deepCopy clones a JSON-shaped value by round-tripping it through
// encoding/json. Templates in this package are literal Go values built
// fresh by their constructor functions, so a shallow copy would already
// be safe for most fields, but nested maps/slices are shared between
// template invocations unless copied explicitly.
func deepCopy(v map[string]any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return out
}

// Generate derives the grant, error, request, and response schemas from
// a validated set of identity and resource definitions. Generation is
// pure: calling Generate twice with equal definitions, in the same
// order, yields byte-equal schemas.
func Generate(identityDefs []authzee.IdentityDef, resourceDefs []authzee.ResourceDef) *Schemas {
	grantSchema := grantBaseSchema()
	grantSchema["properties"].(map[string]any)["actions"].(map[string]any)["items"] = actionEnumSchema(resourceDefs)

	errorsSchema := errorsBaseSchema()
	errorsSchema["$defs"].(map[string]any)["grant"] = deepCopy(grantSchema)

	errorsBody := deepCopy(errorsSchema)
	delete(errorsBody, "$defs")

	auditSchema := auditResponseBaseSchema()
	auditSchema["properties"].(map[string]any)["errors"] = deepCopy(errorsBody)
	auditSchema["$defs"].(map[string]any)["grant"] = deepCopy(grantSchema)

	authorizeSchema := authorizeResponseBaseSchema()
	authorizeSchema["properties"].(map[string]any)["errors"] = deepCopy(errorsBody)
	authorizeSchema["$defs"].(map[string]any)["grant"] = deepCopy(grantSchema)

	return &Schemas{
		Grant:     grantSchema,
		Errors:    errorsSchema,
		Request:   generateRequestSchema(identityDefs, resourceDefs),
		Audit:     auditSchema,
		Authorize: authorizeSchema,
	}
}

// Actions returns the ordered, de-duplicated union of every action
// defined across resourceDefs, first-seen order preserved.
func Actions(resourceDefs []authzee.ResourceDef) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rd := range resourceDefs {
		for _, a := range rd.Actions {
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

func actionEnumSchema(resourceDefs []authzee.ResourceDef) map[string]any {
	s := actionTokenSchema()
	actions := Actions(resourceDefs)
	enum := make([]any, len(actions))
	for i, a := range actions {
		enum[i] = a
	}
	s["enum"] = enum
	return s
}

func generateRequestSchema(identityDefs []authzee.IdentityDef, resourceDefs []authzee.ResourceDef) map[string]any {
	identityTypes := make([]string, 0, len(identityDefs))
	identityProps := map[string]any{}
	for _, id := range identityDefs {
		identityTypes = append(identityTypes, id.IdentityType)
		identityProps[id.IdentityType] = map[string]any{
			"type":  "array",
			"items": id.Schema,
		}
	}
	sort.Strings(identityTypes)
	identityRequired := make([]any, len(identityTypes))
	for i, t := range identityTypes {
		identityRequired[i] = t
	}

	defs := map[string]any{
		"context": contextDef(),
		"identities": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             identityRequired,
			"properties":           identityProps,
		},
	}

	anyOf := make([]any, 0, len(resourceDefs))
	for _, rd := range resourceDefs {
		defs[rd.ResourceType] = rd.Schema

		branch := resourceRequestBaseSchema()
		branch["title"] = "'" + rd.ResourceType + "' Resource Type Workflow Request"
		branch["description"] = "'" + rd.ResourceType + "' resource type request for an Authzee workflow."

		props := branch["properties"].(map[string]any)
		actionEnum := make([]any, len(rd.Actions))
		for i, a := range rd.Actions {
			actionEnum[i] = a
		}
		props["action"] = map[string]any{"type": "string", "enum": actionEnum}
		props["resource_type"] = map[string]any{"const": rd.ResourceType}
		props["resource"] = map[string]any{"$ref": "#/$defs/" + rd.ResourceType}
		props["parents"] = hierarchySchema(rd.ParentTypes)
		props["children"] = hierarchySchema(rd.ChildTypes)

		anyOf = append(anyOf, branch)
	}

	return map[string]any{
		"title":       "Workflow Request",
		"description": "Request for an Authzee workflow.",
		"anyOf":       anyOf,
		"$defs":       defs,
	}
}

// hierarchySchema builds the `parents`/`children` sub-schema for one
// resource type: an object requiring exactly the named related types,
// each an array of refs into $defs, sorted for determinism.
func hierarchySchema(relatedTypes []string) map[string]any {
	sorted := append([]string(nil), relatedTypes...)
	sort.Strings(sorted)

	required := make([]any, len(sorted))
	props := map[string]any{}
	for i, t := range sorted {
		required[i] = t
		props[t] = map[string]any{
			"type":  "array",
			"items": map[string]any{"$ref": "#/$defs/" + t},
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             required,
		"properties":           props,
	}
}
