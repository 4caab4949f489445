package registry

import (
	"fmt"
	"log/slog"
	"reflect"
)

// Module is the interface that all method modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredHandler holds the compiled Go parts of an analysis method.
//
// Fn must be a function of the form
//
//	func(ctx context.Context, data any, input *T) (any, error)
//
// where *T is the value produced by NewInput. It receives exactly the data
// object and the validated parameter struct, nothing else.
type RegisteredHandler struct {
	NewInput  func() any
	InputType reflect.Type
	Fn        any
}

// RegisterHandler registers a Go function for a method's invoke event.
// Duplicate registration is a programmer error and panics.
func (r *Registry) RegisterHandler(name string, handler *RegisteredHandler) {
	if name == "" {
		panic("handler name must not be empty")
	}
	if handler == nil || handler.Fn == nil {
		panic(fmt.Sprintf("handler %q must provide a function", name))
	}
	if _, exists := r.handlers[name]; exists {
		panic(fmt.Sprintf("handler with name '%s' already registered", name))
	}
	slog.Debug("Registering method handler.", "name", name)
	r.handlers[name] = handler
}
