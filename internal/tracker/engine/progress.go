// Package engine derives progress, status, risk and production analytics from
// raw tracking counters. Every function is a pure computation over its inputs:
// no I/O, no clock reads (callers pass the as-of time explicitly), no mutation
// of its arguments. Callers persist the derived values after any tracking
// mutation so readers never observe stale progress or risk.
package engine

import (
	"math"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
)

// ProgressResult 订单整体进度
type ProgressResult struct {
	Progress int    `json:"progress"`
	Status   string `json:"status"`
}

// ApplicableProcesses filters the catalog down to the steps relevant for the
// order. Optional steps are included only when the order requests them;
// catalog order is preserved and non-optional steps are always included.
func ApplicableProcesses(catalog []entity.ProductionProcess, order *entity.Order) []entity.ProductionProcess {
	applicable := make([]entity.ProductionProcess, 0, len(catalog))
	for _, p := range catalog {
		if p.Optional {
			if p.ID == entity.ProcessAccessories && !order.RequiresAccessories {
				continue
			}
			if p.ID == entity.ProcessWelding && !order.RequiresWelding {
				continue
			}
		}
		applicable = append(applicable, p)
	}
	return applicable
}

// ComputeProgress derives completion percentage and coarse status from the
// order's tracking entries. A process counts as complete only when its
// reported quantity exactly equals the order quantity; partial completion
// never counts. Status goes to completed only once warehouse_out is fully
// reported, and to in_progress while any step has a partial quantity.
func ComputeProgress(order *entity.Order, catalog []entity.ProductionProcess) ProgressResult {
	if order.Quantity <= 0 {
		return ProgressResult{Progress: 0, Status: entity.OrderStatusPending}
	}

	applicable := ApplicableProcesses(catalog, order)
	if len(applicable) == 0 {
		return ProgressResult{Progress: 0, Status: entity.OrderStatusPending}
	}

	completed := 0
	for _, p := range applicable {
		if t := order.FindTracking(p.ID); t != nil && t.QuantityCompleted == order.Quantity {
			completed++
		}
	}
	progress := int(math.Round(float64(completed) / float64(len(applicable)) * 100))

	status := entity.OrderStatusPending
	if out := order.FindTracking(entity.ProcessWarehouseOut); out != nil && out.QuantityCompleted == order.Quantity {
		status = entity.OrderStatusCompleted
	} else {
		for i := range order.Tracking {
			q := order.Tracking[i].QuantityCompleted
			if q > 0 && q < order.Quantity {
				status = entity.OrderStatusInProgress
				break
			}
		}
	}

	return ProgressResult{Progress: progress, Status: status}
}
