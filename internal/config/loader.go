package config

import "context"

// Loader is the interface for a format-specific layout loader. Implementations
// read a layout document from path and translate it into the agnostic Model,
// including the version gate and any format-level validation. Referential and
// structural validation belong to the builder, not the loader.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
