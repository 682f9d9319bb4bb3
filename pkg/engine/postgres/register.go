package postgres

import (
	"context"

	"go.uber.org/zap"

	"github.com/ekaya-inc/joinscope/pkg/engine"
)

func init() {
	engine.Register(engine.KindPostgres, func(ctx context.Context, cfg engine.Config, logger *zap.Logger) (engine.QueryEngine, error) {
		return NewEngine(ctx, cfg.DSN, logger)
	})
}
