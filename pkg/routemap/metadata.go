package routemap

import (
	"errors"
	"fmt"
)

// Key names one metadata attribute attached to a descriptor.
type Key string

const (
	// KeyPath holds a controller's base path or an endpoint's relative path.
	KeyPath Key = "path"
	// KeyMethod holds an endpoint's HTTP verb (string or numeric verb code).
	KeyMethod Key = "method"
	// KeyControllers holds a module's []*ControllerDescriptor.
	KeyControllers Key = "controllers"
	// KeyImports holds a module's []ImportRef.
	KeyImports Key = "imports"
)

// ErrAbsent is returned by a Reader when the target carries no value for the
// requested key. Absence is ordinary (a module without imports, a method
// that is not a route); any other error marks the read as failed.
var ErrAbsent = errors.New("metadata absent")

// Reader resolves one metadata attribute of a descriptor. Implementations
// must return ErrAbsent (possibly wrapped) when the key is simply not set on
// the target, and a real error only when the lookup itself failed.
type Reader interface {
	Get(target any, key Key) (any, error)
}

// Store is an in-memory Reader keyed by descriptor identity. The loaders
// populate one Store per loaded file; tests populate it by hand. Targets
// must be comparable, in practice descriptor pointers.
type Store struct {
	entries map[any]map[Key]any
}

// NewStore creates an empty metadata store.
func NewStore() *Store {
	return &Store{entries: make(map[any]map[Key]any)}
}

// Set attaches a value to the target under key, replacing any previous value.
func (s *Store) Set(target any, key Key, value any) {
	attrs, ok := s.entries[target]
	if !ok {
		attrs = make(map[Key]any)
		s.entries[target] = attrs
	}
	attrs[key] = value
}

// Get implements Reader.
func (s *Store) Get(target any, key Key) (any, error) {
	attrs, ok := s.entries[target]
	if !ok {
		return nil, ErrAbsent
	}
	value, ok := attrs[key]
	if !ok {
		return nil, ErrAbsent
	}
	return value, nil
}

// readControllers reads a module's controller list. An absent key is an
// empty list; a present value of the wrong shape is a failed read.
func readControllers(r Reader, mod *ModuleDescriptor) ([]*ControllerDescriptor, error) {
	value, err := r.Get(mod, KeyControllers)
	if errors.Is(err, ErrAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	switch list := value.(type) {
	case nil:
		return nil, nil
	case []*ControllerDescriptor:
		return list, nil
	default:
		return nil, fmt.Errorf("module %s: controllers metadata is %T, want []*ControllerDescriptor", mod.Name, value)
	}
}

// readImports reads a module's import list. Same absence and shape rules as
// readControllers.
func readImports(r Reader, mod *ModuleDescriptor) ([]ImportRef, error) {
	value, err := r.Get(mod, KeyImports)
	if errors.Is(err, ErrAbsent) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	switch list := value.(type) {
	case nil:
		return nil, nil
	case []ImportRef:
		return list, nil
	default:
		return nil, fmt.Errorf("module %s: imports metadata is %T, want []ImportRef", mod.Name, value)
	}
}
