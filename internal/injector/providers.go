package injector

import (
	"context"
	"io"

	"github.com/google/wire"

	"github.com/zeusync/zengine/internal/config"
	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/engine"
)

var ProviderSet = wire.NewSet(ProvideConfig, ProvideLogger, ProvideEngine)

func ProvideConfig(path string) (*config.Config, error) {
	return config.Load(path)
}

func ProvideLogger(cfg *config.Config) (log.Log, func(), error) {
	lc, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	logger, err := log.New(lc)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideEngine(cfg *config.Config, logger log.Log, out io.Writer) (*engine.Engine, func(), error) {
	e, err := engine.New(cfg, logger, engine.WithOutput(out))
	if err != nil {
		return nil, nil, err
	}
	return e, func() {
		if err := e.Close(context.Background()); err != nil {
			logger.Warn("close engine", log.Error(err))
		}
	}, nil
}
