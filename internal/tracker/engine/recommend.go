package engine

import (
	"fmt"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
)

// Recommendation 优先级
const (
	RecPriorityHigh   = "HIGH"
	RecPriorityMedium = "MEDIUM"
	RecPriorityLow    = "LOW"
)

// Recommendation 分析建议
type Recommendation struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
}

// RiskDistribution counts projects or orders per risk level.
type RiskDistribution struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	VeryLow  int `json:"very_low"`
}

// Add counts one occurrence of a risk level.
func (d *RiskDistribution) Add(level string) {
	switch level {
	case entity.RiskCritical:
		d.Critical++
	case entity.RiskHigh:
		d.High++
	case entity.RiskMedium:
		d.Medium++
	case entity.RiskLow:
		d.Low++
	case entity.RiskVeryLow:
		d.VeryLow++
	}
}

// OrderRecommendations derives actions for a single order from its risk
// assessment and tracking state. Rules are evaluated in a fixed sequence so
// output ordering is stable; when nothing fires a single low-priority
// all-clear entry is returned.
func OrderRecommendations(order *entity.Order, assessment Assessment) []Recommendation {
	var recs []Recommendation

	if assessment.RiskLevel == entity.RiskCritical {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   "Immediate intervention required. Allocate additional resources to meet deadline.",
		})
	}
	if assessment.DaysUntilDue < 3 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   "Deadline approaching. Consider overtime or temporary workforce.",
		})
	}
	if order.Progress < 30 && assessment.TimePressure > 50 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   "Progress is behind schedule. Review process bottlenecks.",
		})
	}
	if assessment.DefectRate > 5 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityMedium,
			Action:   "High defect rate detected. Improve quality control measures.",
		})
	}
	if t := order.FindTracking(entity.ProcessAssembly); t != nil &&
		float64(t.QuantityCompleted) < float64(order.Quantity)*0.5 && order.Progress > 30 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityMedium,
			Action:   "Assembly process is lagging. Review workflow and resource allocation.",
		})
	}
	if order.RequiresWelding {
		if t := order.FindTracking(entity.ProcessWelding); t != nil &&
			t.QuantityCompleted == 0 && order.Progress > 40 {
			recs = append(recs, Recommendation{
				Priority: RecPriorityMedium,
				Action:   "Welding process not started. Ensure welding team is available.",
			})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityLow,
			Action:   "Order is on track. Continue monitoring progress.",
		})
	}
	return recs
}

// ProjectRecommendations derives actions for a project from its rolled-up
// assessment and per-process delay averages for its orders.
func ProjectRecommendations(assessment ProjectAssessment, delays map[string]float64, catalog []entity.ProductionProcess) []Recommendation {
	var recs []Recommendation

	if assessment.RiskLevel == entity.RiskCritical {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   "Project is at critical risk. Immediate intervention required. Consider reallocating resources from lower priority projects.",
		})
	}
	if assessment.DaysUntilDue < 7 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   "Project deadline approaching in less than a week. Consider overtime or temporary workforce.",
		})
	}
	if assessment.CompletionRate < 30 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   "Project completion rate is below 30%. Review project plan and resource allocation.",
		})
	}

	highRisk := 0
	for _, r := range assessment.OrderRisks {
		if r.RiskLevel == entity.RiskCritical || r.RiskLevel == entity.RiskHigh {
			highRisk++
		}
	}
	if highRisk > 0 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityMedium,
			Action:   fmt.Sprintf("%d orders in this project are at high risk. Focus on these orders first.", highRisk),
		})
	}

	if process, delay := maxDelay(delays); delay > 4 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityMedium,
			Action:   fmt.Sprintf("Significant bottleneck detected at %s. Average delay: %.1f hours.", entity.ProcessName(catalog, process), delay),
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityLow,
			Action:   "Project is on track. Continue monitoring progress.",
		})
	}
	return recs
}

// CombinedRecommendations derives fleet-wide actions from the average order
// risk score, the cross-order delay averages and the project risk spread.
func CombinedRecommendations(avgRiskScore float64, delays map[string]float64, dist RiskDistribution, catalog []entity.ProductionProcess) []Recommendation {
	var recs []Recommendation

	if avgRiskScore > 70 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   "Overall risk is high. Review all critical orders and allocate resources accordingly.",
		})
	}

	if process, delay := maxDelay(delays); delay > 4 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   fmt.Sprintf("Significant bottleneck detected at %s. Average delay: %.1f hours.", entity.ProcessName(catalog, process), delay),
		})
	} else if delay > 2 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityMedium,
			Action:   fmt.Sprintf("Moderate bottleneck at %s. Consider process optimization.", entity.ProcessName(catalog, process)),
		})
	}

	if dist.Critical > 0 || dist.High > 0 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityHigh,
			Action:   fmt.Sprintf("%d projects are at high risk. Prioritize these projects.", dist.Critical+dist.High),
		})
	}

	if delays[entity.ProcessAssembly] > 3 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityMedium,
			Action:   "Assembly process consistently delayed. Review workflow and staffing.",
		})
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Priority: RecPriorityLow,
			Action:   "Production is running smoothly. Continue current operations.",
		})
	}
	return recs
}

// maxDelay returns the process with the largest average delay.
func maxDelay(delays map[string]float64) (string, float64) {
	process := ""
	max := 0.0
	for id, d := range delays {
		if d > max {
			max = d
			process = id
		}
	}
	return process, max
}
