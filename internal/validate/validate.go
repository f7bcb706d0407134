// Package validate wraps the Draft 2020-12 JSON Schema validator used
// to check grants and requests against generated schemas, and to check
// definitions against the built-in meta-schemas. The validator itself
// (github.com/santhosh-tekuri/jsonschema) does the actual Draft 2020-12
// conformance work; this package only adds compiled-schema caching.
package validate

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// compiledCache memoizes compiled schemas by the sha256 of their source
// JSON. It is never invalidated explicitly because entries are keyed by
// content: a changed schema simply misses and compiles fresh, and the
// cache never needs to be told a definition set changed.
type compiledCache struct {
	mu    sync.Mutex
	byKey map[string]*jsonschema.Schema
}

func newCompiledCache() *compiledCache {
	return &compiledCache{byKey: make(map[string]*jsonschema.Schema)}
}

var defaultCache = newCompiledCache()

func contentKey(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Compile compiles a schema document (as produced by internal/schema or
// supplied directly) into a reusable validator, consulting and
// populating the content-addressed cache.
func Compile(schemaDoc any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schemaDoc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	key := contentKey(raw)

	defaultCache.mu.Lock()
	if cached, ok := defaultCache.byKey[key]; ok {
		defaultCache.mu.Unlock()
		return cached, nil
	}
	defaultCache.mu.Unlock()

	resourceID := "mem://authzee/" + uuid.NewString() + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resourceID, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(resourceID)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	defaultCache.mu.Lock()
	defaultCache.byKey[key] = compiled
	defaultCache.mu.Unlock()

	return compiled, nil
}

// Validate compiles schemaDoc (or reuses a cached compile) and checks
// instance against it, returning the underlying jsonschema.ValidationError
// (or a compile error) on failure, nil on success.
func Validate(schemaDoc any, instance any) error {
	compiled, err := Compile(schemaDoc)
	if err != nil {
		return err
	}

	// jsonschema validates decoded JSON values (map[string]any /
	// []any / scalars); round-trip through encoding/json so typed Go
	// structs and values already carrying e.g. map[string]any are
	// normalized the same way.
	raw, err := json.Marshal(instance)
	if err != nil {
		return fmt.Errorf("marshal instance: %w", err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("unmarshal instance: %w", err)
	}

	return compiled.Validate(decoded)
}
