package validate

import "testing"

func TestValidatePassesMatchingInstance(t *testing.T) {
	schemaDoc := map[string]any{
		"type":       "object",
		"required":   []string{"role"},
		"properties": map[string]any{"role": map[string]any{"type": "string"}},
	}

	if err := Validate(schemaDoc, map[string]any{"role": "admin"}); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsMismatchedInstance(t *testing.T) {
	schemaDoc := map[string]any{
		"type":       "object",
		"required":   []string{"role"},
		"properties": map[string]any{"role": map[string]any{"type": "string"}},
	}

	if err := Validate(schemaDoc, map[string]any{}); err == nil {
		t.Fatalf("Validate() = nil, want an error for a missing required property")
	}
}

func TestCompileReusesCacheForIdenticalSchema(t *testing.T) {
	schemaDoc := map[string]any{"type": "string"}

	a, err := Compile(schemaDoc)
	if err != nil {
		t.Fatalf("Compile() first call: %v", err)
	}
	b, err := Compile(schemaDoc)
	if err != nil {
		t.Fatalf("Compile() second call: %v", err)
	}
	if a != b {
		t.Fatalf("Compile() returned distinct *jsonschema.Schema for identical content")
	}
}
