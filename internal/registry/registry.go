package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/statforge/metakit/internal/schema"
)

// SchemaSuffix is the reserved suffix the legacy naming convention used to
// mark schema-provider entries. Method identifiers must never end in it.
const SchemaSuffix = ".parameters"

var (
	// ErrMethodNotFound is returned when the requested identifier is absent
	// from the category's registry. Callers can recover by re-listing.
	ErrMethodNotFound = errors.New("metakit(registry): method not found")
	// ErrSchemaNotFound indicates a method without a matching schema entry.
	// This is a framework-configuration defect, normally prevented by
	// Validate at startup.
	ErrSchemaNotFound = errors.New("metakit(registry): schema not found")
	// ErrHandlerNotRegistered indicates a manifest that names a Go handler
	// which was never registered. Same defect class as ErrSchemaNotFound.
	ErrHandlerNotRegistered = errors.New("metakit(registry): handler not registered")
)

// methodEntry pairs a method's manifest definition with its published schema.
type methodEntry struct {
	def    *schema.MethodDefinition
	schema *schema.ParameterSchema
}

// Registry holds all registered method definitions, schemas, and handlers
// for a single application instance.
type Registry struct {
	methods  map[string]*methodEntry       // keyed by method identifier
	handlers map[string]*RegisteredHandler // keyed by handler name
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		methods:  make(map[string]*methodEntry),
		handlers: make(map[string]*RegisteredHandler),
	}
}

// Method is a resolved registry entry, ready for invocation.
type Method struct {
	ID         string
	Category   string
	Definition *schema.MethodDefinition
	Schema     *schema.ParameterSchema
	Handler    *RegisteredHandler
}

// ListMethods returns the identifiers of every method registered for the
// given category, sorted lexically. Repeated calls return identical results
// as long as no registration happens in between. Identifiers ending in
// SchemaSuffix are rejected at registration, so they never appear here.
func (r *Registry) ListMethods(category string) []string {
	var ids []string
	for id, entry := range r.methods {
		if entry.def.Category == category {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// GetSchema returns the parameter schema published for the given method
// identifier, or ErrSchemaNotFound when no such entry exists.
func (r *Registry) GetSchema(methodID string) (*schema.ParameterSchema, error) {
	entry, ok := r.methods[methodID]
	if !ok || entry.schema == nil {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, methodID)
	}
	return entry.schema, nil
}

// Resolve looks up a method identifier within a category and returns the
// fully paired entry. Every method listed by ListMethods resolves cleanly
// once Validate has passed; the schema and handler checks here are the
// dispatcher's defensive re-validation of that invariant.
func (r *Registry) Resolve(category, methodID string) (*Method, error) {
	entry, ok := r.methods[methodID]
	if !ok || entry.def.Category != category {
		return nil, fmt.Errorf("%w: %q in category %q", ErrMethodNotFound, methodID, category)
	}
	if entry.schema == nil {
		return nil, fmt.Errorf("%w: %q", ErrSchemaNotFound, methodID)
	}
	handler, ok := r.handlers[entry.def.Lifecycle.OnInvoke]
	if !ok {
		return nil, fmt.Errorf("%w: method %q names handler %q", ErrHandlerNotRegistered, methodID, entry.def.Lifecycle.OnInvoke)
	}
	return &Method{
		ID:         methodID,
		Category:   category,
		Definition: entry.def,
		Schema:     entry.schema,
		Handler:    handler,
	}, nil
}

// addDefinition records one manifest-declared method, enforcing identifier
// rules and rejecting duplicates.
func (r *Registry) addDefinition(def *schema.MethodDefinition, sch *schema.ParameterSchema) error {
	id := def.ID()
	if def.Category == "" || def.Name == "" {
		return fmt.Errorf("method %q: category and name must not be empty", id)
	}
	if strings.HasSuffix(id, SchemaSuffix) {
		return fmt.Errorf("method %q: identifiers must not end in the reserved suffix %q", id, SchemaSuffix)
	}
	if def.Lifecycle == nil || def.Lifecycle.OnInvoke == "" {
		return fmt.Errorf("method %q: manifest must declare lifecycle { on_invoke = ... }", id)
	}
	if _, exists := r.methods[id]; exists {
		return fmt.Errorf("duplicate method %q: already declared by another manifest", id)
	}
	r.methods[id] = &methodEntry{def: def, schema: sch}
	return nil
}
