// Package app wires the framework together: it builds the logger, loads
// method manifests, registers the compiled method modules, validates the
// registry's pairing invariant, and exposes the caller-facing API
// (ListMethods, GetSchema, Invoke) plus the run-file driver.
package app
