// Package definition validates identity and resource definitions: it
// checks them against the built-in meta-schemas, enforces type-name
// uniqueness, and checks that every parent/child reference names a
// resource type present in the same input set.
package definition

import (
	"fmt"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/schema"
	"github.com/authzee/authzee-go/internal/validate"
)

// Validate runs every definition check, in a fixed order, and returns
// one DefinitionError per violation. All returned errors are critical:
// any non-empty result halts the calling workflow.
func Validate(identityDefs []authzee.IdentityDef, resourceDefs []authzee.ResourceDef) []authzee.DefinitionError {
	var errs []authzee.DefinitionError

	identitySchema := schema.IdentityDefinitionSchema()
	seenIdentity := make(map[string]bool, len(identityDefs))
	for _, id := range identityDefs {
		if err := validate.Validate(identitySchema, id); err != nil {
			errs = append(errs, authzee.DefinitionError{
				Message:        fmt.Sprintf("identity definition schema was not valid: %v", err),
				Critical:       true,
				DefinitionType: authzee.DefinitionIdentity,
				Definition:     authzee.MustJSON(id),
			})
			continue
		}
		if seenIdentity[id.IdentityType] {
			errs = append(errs, authzee.DefinitionError{
				Message:        fmt.Sprintf("identity types must be unique; %q is present more than once", id.IdentityType),
				Critical:       true,
				DefinitionType: authzee.DefinitionIdentity,
				Definition:     authzee.MustJSON(id),
			})
			continue
		}
		seenIdentity[id.IdentityType] = true
	}

	resourceSchema := schema.ResourceDefinitionSchema()
	seenResource := make(map[string]bool, len(resourceDefs))
	resourceTypes := make(map[string]bool, len(resourceDefs))
	for _, rd := range resourceDefs {
		resourceTypes[rd.ResourceType] = true
	}
	for _, rd := range resourceDefs {
		if err := validate.Validate(resourceSchema, rd); err != nil {
			errs = append(errs, authzee.DefinitionError{
				Message:        fmt.Sprintf("resource definition schema was not valid: %v", err),
				Critical:       true,
				DefinitionType: authzee.DefinitionResource,
				Definition:     authzee.MustJSON(rd),
			})
			continue
		}
		if seenResource[rd.ResourceType] {
			errs = append(errs, authzee.DefinitionError{
				Message:        fmt.Sprintf("resource types must be unique; %q is present more than once", rd.ResourceType),
				Critical:       true,
				DefinitionType: authzee.DefinitionResource,
				Definition:     authzee.MustJSON(rd),
			})
			continue
		}
		seenResource[rd.ResourceType] = true

		for _, p := range rd.ParentTypes {
			if !resourceTypes[p] {
				errs = append(errs, authzee.DefinitionError{
					Message:        fmt.Sprintf("resource type %q names unknown parent type %q", rd.ResourceType, p),
					Critical:       true,
					DefinitionType: authzee.DefinitionResource,
					Definition:     authzee.MustJSON(rd),
				})
			}
		}
		for _, c := range rd.ChildTypes {
			if !resourceTypes[c] {
				errs = append(errs, authzee.DefinitionError{
					Message:        fmt.Sprintf("resource type %q names unknown child type %q", rd.ResourceType, c),
					Critical:       true,
					DefinitionType: authzee.DefinitionResource,
					Definition:     authzee.MustJSON(rd),
				})
			}
		}
	}

	return errs
}
