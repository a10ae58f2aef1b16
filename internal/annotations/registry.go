package annotations

import (
	"fmt"
	"sync"
)

// Registry manages the schemas the parser validates against.
type Registry interface {
	// Register adds a schema for an annotation kind.
	Register(kind Kind, schema Schema) error

	// Schema retrieves the schema for an annotation kind.
	Schema(kind Kind) (Schema, error)

	// IsRegistered reports whether the kind has a schema.
	IsRegistered(kind Kind) bool
}

type registry struct {
	mu      sync.RWMutex
	schemas map[Kind]Schema
}

// NewRegistry creates an empty schema registry.
func NewRegistry() Registry {
	return &registry{schemas: make(map[Kind]Schema)}
}

func (r *registry) Register(kind Kind, schema Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schema.Kind != kind {
		return fmt.Errorf("schema kind %s does not match registration kind %s", schema.Kind, kind)
	}
	if _, exists := r.schemas[kind]; exists {
		return fmt.Errorf("annotation kind %s is already registered", kind)
	}
	for name, spec := range schema.Parameters {
		if name == "" {
			return fmt.Errorf("schema for %s has a parameter with an empty name", kind)
		}
		if spec.Type < StringType || spec.Type > StringSliceType {
			return fmt.Errorf("schema for %s parameter %s has invalid type %d", kind, name, spec.Type)
		}
	}

	r.schemas[kind] = schema
	return nil
}

func (r *registry) Schema(kind Kind) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[kind]
	if !exists {
		return Schema{}, fmt.Errorf("annotation kind %s is not registered", kind)
	}
	return schema, nil
}

func (r *registry) IsRegistered(kind Kind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.schemas[kind]
	return exists
}
