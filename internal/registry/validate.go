package registry

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/statforge/metakit/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Validate performs a strict parity check between manifests and Go code.
// Every manifest-declared method must name a registered handler, every
// registered handler must be referenced by a manifest, and each handler's
// input struct must match the declared parameters in both presence and
// cty type. A failure here is a defect introduced by a method author and
// is treated as fatal by the app wiring.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	referenced := make(map[string]struct{}, len(r.methods))

	// Deterministic error ordering for reporting and tests.
	ids := make([]string, 0, len(r.methods))
	for id := range r.methods {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entry := r.methods[id]
		handlerName := entry.def.Lifecycle.OnInvoke
		referenced[handlerName] = struct{}{}

		handler, ok := r.handlers[handlerName]
		if !ok {
			errs = append(errs, fmt.Sprintf("method '%s': manifest names handler '%s' which is not registered", id, handlerName))
			continue
		}

		if handler.InputType == nil {
			if entry.schema.Len() > 0 {
				errs = append(errs, fmt.Sprintf("method '%s': manifest declares parameters, but Go handler has no input struct", id))
			}
			continue
		}

		declared := make(map[string]struct{}, entry.schema.Len())
		for _, name := range entry.schema.Names() {
			declared[name] = struct{}{}
		}

		goInputs := make(map[string]reflect.StructField)
		inputType := handler.InputType
		for i := 0; i < inputType.NumField(); i++ {
			field := inputType.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := field.Tag.Get("cty")
			tagName := strings.Split(tag, ",")[0]
			if tagName != "" && tagName != "-" {
				goInputs[tagName] = field
			}
		}

		// Check for presence mismatches.
		for name := range goInputs {
			if _, ok := declared[name]; !ok {
				errs = append(errs, fmt.Sprintf("method '%s': Go struct has field for parameter '%s' which is not declared in manifest", id, name))
			}
		}
		for _, name := range entry.schema.Names() {
			if _, ok := goInputs[name]; !ok {
				errs = append(errs, fmt.Sprintf("method '%s': manifest declares parameter '%s' which is not found in Go struct", id, name))
			}
		}

		// Check for type mismatches.
		for _, spec := range entry.schema.Specs() {
			goField, ok := goInputs[spec.Name]
			if !ok {
				continue // Already handled by presence check
			}

			if spec.Type.Equals(cty.DynamicPseudoType) {
				logger.Warn("Manifest declares parameter with 'type = any', which disables static type checking. Consider using a specific type like 'string', 'number', or 'bool'.", "method", id, "param", spec.Name)
				continue
			}

			goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("method '%s', parameter '%s': could not imply cty type from Go field type %s: %v", id, spec.Name, goField.Type, err))
				continue
			}

			if !spec.Type.Equals(goFieldType) {
				errs = append(errs, fmt.Sprintf("method '%s', parameter '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' provides type '%s'",
					id, spec.Name, spec.Type.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
			}
		}
	}

	// Handlers that no manifest references are dead registrations.
	handlerNames := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		handlerNames = append(handlerNames, name)
	}
	sort.Strings(handlerNames)
	for _, name := range handlerNames {
		if _, ok := referenced[name]; !ok {
			errs = append(errs, fmt.Sprintf("handler '%s' is registered but not referenced by any method manifest", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}
