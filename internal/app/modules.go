package app

import (
	"github.com/modgrid/modgrid/internal/registry"
	"github.com/modgrid/modgrid/modules/oscillator"
	"github.com/modgrid/modgrid/modules/passthrough"
	"github.com/modgrid/modgrid/modules/sum"
)

// coreModules is the definitive list of module types compiled into the
// modgrid binary.
var coreModules = []registry.Module{
	&oscillator.Module{},
	&sum.Module{},
	&passthrough.Module{},
}
