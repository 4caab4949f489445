// Package registry provides the central "glue" for the method system.
//
// The Registry is an explicit registration table pairing analysis method
// identifiers (e.g., "binary.fixed") with two halves that must agree: the
// parameter schema declared in the method's HCL manifest, and the compiled
// Go handler function registered by the method's module.
//
// During application startup, the registry is populated from both sides and
// then validated to ensure that the Go code and the public-facing manifests
// are perfectly in sync, preventing a wide class of runtime errors. After
// that point the registry is read-only, so concurrent lookups need no
// locking.
package registry
