//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"io"

	"github.com/google/wire"

	"github.com/zeusync/zengine/internal/engine"
)

// InitializeEngine builds an engine from the config file at path. The
// returned cleanup closes the engine and flushes the logger.
func InitializeEngine(path string, out io.Writer) (*engine.Engine, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
