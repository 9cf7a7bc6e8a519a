package builder

import "errors"

// Configuration errors surfaced during graph construction. The builder
// returns the first failure it encounters, wrapped with the offending
// module id, and never returns a partial graph. Callers match with
// errors.Is; constructor failures additionally wrap the registry's
// ErrUnknownModuleType / ErrInvalidConfig sentinels.
var (
	ErrDuplicateID       = errors.New("duplicate module id")
	ErrMissingSink       = errors.New("no module marked os-out")
	ErrMultipleSinks     = errors.New("more than one module marked os-out")
	ErrDanglingReference = errors.New("reference to unknown module id")
	ErrCyclicGraph       = errors.New("cyclic module graph")
)
