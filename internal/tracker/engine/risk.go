package engine

import (
	"errors"
	"math"
	"time"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
)

// ErrInvalidDate is returned when an order or project carries a zero order or
// due date. Risk math on missing dates must fail fast instead of producing
// garbage scores.
var ErrInvalidDate = errors.New("invalid date")

// Risk factor weights. The five-factor form is canonical; see DESIGN.md for
// the weighting decision.
const (
	weightProgress     = 0.35
	weightTimePressure = 0.25
	weightDefects      = 0.20
	weightBottleneck   = 0.10
	weightPriority     = 0.10
)

// Assessment 单订单风险评估结果
type Assessment struct {
	RiskScore    int     `json:"risk_score"`
	RiskLevel    string  `json:"risk_level"`
	DaysUntilDue int     `json:"days_until_due"`
	TimePressure int     `json:"time_pressure"`
	DefectRate   float64 `json:"defect_rate"`
}

// ceilDays converts a duration to whole calendar days, rounding up.
func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// riskLevel buckets a score into the five risk levels. An overdue due date
// forces CRITICAL regardless of score.
func riskLevel(score float64, daysUntilDue int) string {
	switch {
	case score >= 80 || daysUntilDue < 0:
		return entity.RiskCritical
	case score >= 60:
		return entity.RiskHigh
	case score >= 40:
		return entity.RiskMedium
	case score >= 20:
		return entity.RiskLow
	default:
		return entity.RiskVeryLow
	}
}

// AssessRisk combines progress, schedule pressure, defects, process lag and
// priority into a bounded 0-100 score and a categorical level. The order's
// Progress field is read as-is; callers recompute it first (ComputeProgress)
// after any tracking mutation.
//
// Orders less than two days old with zero progress are never alarmed: the
// level is forced to LOW while the numeric score is left untouched.
func AssessRisk(order *entity.Order, asOf time.Time) (Assessment, error) {
	if order.OrderDate.IsZero() || order.TargetDate.IsZero() {
		return Assessment{}, ErrInvalidDate
	}

	daysUntilDue := ceilDays(order.TargetDate.Sub(asOf))
	daysSinceOrder := ceilDays(asOf.Sub(order.OrderDate))
	totalDays := ceilDays(order.TargetDate.Sub(order.OrderDate))
	if totalDays < 1 {
		totalDays = 1
	}

	timeUsed := float64(daysSinceOrder) / float64(totalDays)
	timePressure := clamp((timeUsed-float64(order.Progress)/100)*100, 0, 100)

	progressRisk := float64(100 - order.Progress)

	defectRate := 0.0
	if order.Quantity > 0 {
		defectRate = float64(order.TotalDefects()) / float64(order.Quantity) * 100
	}
	defectRisk := math.Min(100, defectRate*10)

	// Fewer finished processes than the overall percentage implies, with a
	// slack of two, signals work piling up at one station.
	bottleneckRisk := 0.0
	if len(order.Tracking) > 0 {
		completed := 0
		for i := range order.Tracking {
			if order.Tracking[i].QuantityCompleted == order.Quantity {
				completed++
			}
		}
		expected := int(math.Ceil(float64(order.Progress) / 100 * float64(len(order.Tracking))))
		if completed < expected-2 {
			bottleneckRisk = 50
		}
	}

	priorityRisk := 0.0
	switch order.Priority {
	case entity.PriorityHigh:
		priorityRisk = 15
	case entity.PriorityMedium:
		priorityRisk = 5
	}

	score := math.Min(100,
		progressRisk*weightProgress+
			timePressure*weightTimePressure+
			defectRisk*weightDefects+
			bottleneckRisk*weightBottleneck+
			priorityRisk*weightPriority)

	level := riskLevel(score, daysUntilDue)
	if daysSinceOrder < 2 && order.Progress == 0 {
		level = entity.RiskLow
	}

	return Assessment{
		RiskScore:    int(math.Round(score)),
		RiskLevel:    level,
		DaysUntilDue: daysUntilDue,
		TimePressure: int(math.Round(timePressure)),
		DefectRate:   defectRate,
	}, nil
}

// OrderRisk 项目内单订单风险摘要
type OrderRisk struct {
	OrderID   string `json:"order_id"`
	RiskLevel string `json:"risk_level"`
	RiskScore int    `json:"risk_score"`
}

// ProjectAssessment 项目级风险评估结果
type ProjectAssessment struct {
	RiskScore      int         `json:"risk_score"`
	RiskLevel      string      `json:"risk_level"`
	DaysUntilDue   int         `json:"days_until_due"`
	CompletionRate int         `json:"completion_rate"`
	OrderRisks     []OrderRisk `json:"order_risks"`
}

// AssessProjectRisk rolls order risk up to the project: the average order
// score plus timeline and completion surcharges, clamped to 100. Projects
// without orders report a fixed low-risk default. Completion counts only
// units that have cleared warehouse_out.
func AssessProjectRisk(project *entity.Project, orders []entity.Order, asOf time.Time) (ProjectAssessment, error) {
	if len(orders) == 0 {
		return ProjectAssessment{
			RiskScore:  10,
			RiskLevel:  entity.RiskLow,
			OrderRisks: []OrderRisk{},
		}, nil
	}
	if project.EndDate.IsZero() {
		return ProjectAssessment{}, ErrInvalidDate
	}

	daysUntilDue := ceilDays(project.EndDate.Sub(asOf))

	totalQty := 0
	completedQty := 0
	scoreSum := 0
	orderRisks := make([]OrderRisk, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		totalQty += o.Quantity
		if out := o.FindTracking(entity.ProcessWarehouseOut); out != nil {
			completedQty += out.QuantityCompleted
		}
		a, err := AssessRisk(o, asOf)
		if err != nil {
			return ProjectAssessment{}, err
		}
		scoreSum += a.RiskScore
		orderRisks = append(orderRisks, OrderRisk{
			OrderID:   o.OrderID,
			RiskLevel: a.RiskLevel,
			RiskScore: a.RiskScore,
		})
	}

	completionRate := 0.0
	if totalQty > 0 {
		completionRate = float64(completedQty) / float64(totalQty) * 100
	}

	avgScore := float64(scoreSum) / float64(len(orders))

	timelineRisk := 0.0
	switch {
	case daysUntilDue < 0:
		timelineRisk = 30
	case daysUntilDue < 7:
		timelineRisk = 20
	case daysUntilDue < 14:
		timelineRisk = 10
	}

	completionRisk := 0.0
	switch {
	case completionRate < 30:
		completionRisk = 20
	case completionRate < 60:
		completionRisk = 10
	}

	score := math.Min(100, avgScore+timelineRisk+completionRisk)

	return ProjectAssessment{
		RiskScore:      int(math.Round(score)),
		RiskLevel:      riskLevel(score, daysUntilDue),
		DaysUntilDue:   daysUntilDue,
		CompletionRate: int(math.Round(completionRate)),
		OrderRisks:     orderRisks,
	}, nil
}
