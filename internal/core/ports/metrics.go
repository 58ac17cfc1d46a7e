package ports

import (
	"time"

	"go.trai.ch/hotspot/internal/core/domain"
)

// Run outcomes reported to Metrics.
const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "entry_point_not_found"
	OutcomeCompileError = "compile_error"
	OutcomeRuntimeError = "runtime_error"
)

// Store operations and results reported to Metrics.
const (
	StoreOperationLoad  = "load"
	StoreOperationPut   = "put"
	StoreOperationClear = "clear"

	StoreResultOK    = "ok"
	StoreResultError = "error"
)

// Metrics records cache activity.
//
//go:generate go run go.uber.org/mock/mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ObserveRun records one call of the hotspot cache.
	ObserveRun(tier domain.Tier, outcome string, elapsed time.Duration)
	// ObserveStore records one persistent store operation.
	ObserveStore(operation, outcome string)
}
