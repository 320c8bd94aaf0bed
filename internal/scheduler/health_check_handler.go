package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/midastechnical/storefront-sync/pkg/enums"
	"github.com/midastechnical/storefront-sync/pkg/logger"
)

// Pinger checks connectivity to one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthCheckHandlerParams struct {
	Logger *logger.Logger
	DB     Pinger
	Redis  Pinger
}

// NewHealthCheckHandler verifies the platform's dependencies are reachable.
func NewHealthCheckHandler(params HealthCheckHandlerParams) (Handler, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db pinger required")
	}
	if params.Redis == nil {
		return nil, fmt.Errorf("redis pinger required")
	}
	return &healthCheckHandler{
		logg:  params.Logger,
		db:    params.DB,
		redis: params.Redis,
	}, nil
}

type healthCheckHandler struct {
	logg  *logger.Logger
	db    Pinger
	redis Pinger
}

func (h *healthCheckHandler) Type() enums.TaskType { return enums.TaskTypeHealthCheck }

func (h *healthCheckHandler) Run(ctx context.Context) (string, error) {
	var errs error
	if err := h.db.Ping(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("database unreachable: %w", err))
	}
	if err := h.redis.Ping(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("redis unreachable: %w", err))
	}
	if errs != nil {
		return "", errs
	}
	return "database ok, redis ok", nil
}
