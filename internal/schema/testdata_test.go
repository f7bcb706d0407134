package schema_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/authzee/authzee-go/internal/authzee"
	"github.com/authzee/authzee-go/internal/definition"
	"github.com/authzee/authzee-go/internal/search"
	"github.com/authzee/authzee-go/internal/workflow"
)

type fixture struct {
	IdentityDefs []authzee.IdentityDef `json:"identity_defs"`
	ResourceDefs []authzee.ResourceDef `json:"resource_defs"`
	Grants       []authzee.Grant       `json:"grants"`
	Request      authzee.Request       `json:"request"`
}

func loadFixture(t *testing.T, path string) fixture {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var f fixture
	if err := json.Unmarshal(b, &f); err != nil {
		t.Fatalf("unmarshaling %s: %v", path, err)
	}
	return f
}

// TestBasicFixtureDefinitionsAreWellFormed checks that basic.json's
// identity and resource definitions pass definition validation on their
// own, independent of any particular grant or request.
func TestBasicFixtureDefinitionsAreWellFormed(t *testing.T) {
	f := loadFixture(t, "testdata/basic.json")
	errs := definition.Validate(f.IdentityDefs, f.ResourceDefs)
	if len(errs) != 0 {
		t.Fatalf("Validate() = %v, want none", errs)
	}
}

// TestBasicFixtureAuthorizeAllows mirrors the admin-pop-balloon
// walkthrough: an admin user popping a medium balloon matches the sole
// allow grant and nothing denies it.
func TestBasicFixtureAuthorizeAllows(t *testing.T) {
	f := loadFixture(t, "testdata/basic.json")
	engine := workflow.New(search.NewJMESPath())

	resp := engine.Authorize(context.Background(), f.IdentityDefs, f.ResourceDefs, f.Grants, f.Request)
	if !resp.Completed {
		t.Fatalf("resp.Completed = false, errors = %+v", resp.Errors)
	}
	if !resp.Authorized {
		t.Fatalf("resp.Authorized = false, want true")
	}
}

// TestComplexFixtureDefinitionsAreWellFormed checks that complex.json's
// three-identity, three-resource, parent/child hierarchy passes
// definition validation.
func TestComplexFixtureDefinitionsAreWellFormed(t *testing.T) {
	f := loadFixture(t, "testdata/complex.json")
	errs := definition.Validate(f.IdentityDefs, f.ResourceDefs)
	if len(errs) != 0 {
		t.Fatalf("Validate() = %v, want none", errs)
	}
}

// TestComplexFixtureAuthorizeAllows exercises the role-permission grant:
// a party-coordinator role with balloon:inflate permission, inflating a
// balloon owned by their own department, is authorized and neither the
// large-balloon deny grant nor the no-user deny grant fires.
func TestComplexFixtureAuthorizeAllows(t *testing.T) {
	f := loadFixture(t, "testdata/complex.json")
	engine := workflow.New(search.NewJMESPath())

	resp := engine.Authorize(context.Background(), f.IdentityDefs, f.ResourceDefs, f.Grants, f.Request)
	if !resp.Completed {
		t.Fatalf("resp.Completed = false, errors = %+v", resp.Errors)
	}
	if !resp.Authorized {
		t.Fatalf("resp.Authorized = false, want true")
	}
}

// TestComplexFixtureAuditListsRolePermissionGrant checks that Audit
// surfaces the inflate-permission grant as applicable, alongside any
// other grants matching the department/role shape of the request.
func TestComplexFixtureAuditListsRolePermissionGrant(t *testing.T) {
	f := loadFixture(t, "testdata/complex.json")
	engine := workflow.New(search.NewJMESPath())

	resp := engine.Audit(context.Background(), f.IdentityDefs, f.ResourceDefs, f.Grants, f.Request)
	if !resp.Completed {
		t.Fatalf("resp.Completed = false, errors = %+v", resp.Errors)
	}
	if len(resp.Grants) == 0 {
		t.Fatalf("resp.Grants = empty, want at least the inflate-permission grant")
	}
}
