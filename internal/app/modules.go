package app

import (
	"github.com/statforge/metakit/internal/registry"
	"github.com/statforge/metakit/methods/binary"
	"github.com/statforge/metakit/methods/continuous"
)

// coreMethods is the definitive list of all method modules that are
// compiled into the metakit binary.
var coreMethods = []registry.Module{
	&binary.Module{},
	&continuous.Module{},
}
