package engine

import (
	"math"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
)

// Efficiency component weights: time 40%, quality 40%, output 20%.
const (
	weightTime    = 0.4
	weightQuality = 0.4
	weightOutput  = 0.2
)

// durationHours returns the observed span of a tracking entry in hours. The
// second return is false when either timestamp is missing.
func durationHours(t *entity.TrackingEntry) (float64, bool) {
	if t.StartTime == nil || t.EndTime == nil {
		return 0, false
	}
	return t.EndTime.Sub(*t.StartTime).Hours(), true
}

// efficiencyScore scores one finished process run against its targets.
// Quality and output come in as percentages already.
func efficiencyScore(target entity.ProcessTarget, actualHours, quality, output float64) float64 {
	timeEff := math.Min(100, target.TargetTime/actualHours*100)
	return math.Min(100, timeEff*weightTime+quality*weightQuality+output*weightOutput)
}

// ProcessEfficiency scores every catalog process for a single order. Finished
// runs get the weighted score; started-but-unfinished runs get a flat 50
// estimate; untouched processes get 0.
func ProcessEfficiency(order *entity.Order, targets entity.EfficiencyTargets, catalog []entity.ProductionProcess) map[string]float64 {
	result := make(map[string]float64, len(catalog))
	for _, p := range catalog {
		result[p.ID] = 0
		t := order.FindTracking(p.ID)
		if t == nil || order.Quantity <= 0 {
			continue
		}
		if hours, ok := durationHours(t); ok {
			quality := math.Max(0, 100-float64(t.DefectQuantity)/float64(order.Quantity)*100)
			output := float64(t.QuantityCompleted) / float64(order.Quantity) * 100
			result[p.ID] = efficiencyScore(targets.TargetFor(p.ID), hours, quality, output)
		} else if t.QuantityCompleted > 0 {
			result[p.ID] = 50
		}
	}
	return result
}

// CombinedEfficiency averages process efficiency across all orders. Only
// orders that touched a process contribute to its average.
func CombinedEfficiency(orders []entity.Order, targets entity.EfficiencyTargets, catalog []entity.ProductionProcess) map[string]float64 {
	result := make(map[string]float64, len(catalog))
	for _, p := range catalog {
		total := 0.0
		count := 0
		for i := range orders {
			o := &orders[i]
			t := o.FindTracking(p.ID)
			if t == nil || o.Quantity <= 0 {
				continue
			}
			if hours, ok := durationHours(t); ok {
				quality := math.Max(0, 100-float64(t.DefectQuantity)/float64(o.Quantity)*100)
				output := float64(t.QuantityCompleted) / float64(o.Quantity) * 100
				total += efficiencyScore(targets.TargetFor(p.ID), hours, quality, output)
				count++
			} else if t.QuantityCompleted > 0 {
				total += 50
				count++
			}
		}
		if count > 0 {
			result[p.ID] = total / float64(count)
		} else {
			result[p.ID] = 0
		}
	}
	return result
}

// AnalyzeBottlenecks returns the average delay in hours per process across the
// given orders, where delay is observed duration beyond the process target,
// floored at zero. Processes with no finished runs report 0.
func AnalyzeBottlenecks(orders []entity.Order, targets entity.EfficiencyTargets, catalog []entity.ProductionProcess) map[string]float64 {
	delays := make(map[string]float64, len(catalog))
	for _, p := range catalog {
		total := 0.0
		count := 0
		for i := range orders {
			t := orders[i].FindTracking(p.ID)
			if t == nil {
				continue
			}
			if hours, ok := durationHours(t); ok {
				total += math.Max(0, hours-targets.TargetFor(p.ID).TargetTime)
				count++
			}
		}
		if count > 0 {
			delays[p.ID] = total / float64(count)
		} else {
			delays[p.ID] = 0
		}
	}
	return delays
}

// Bottleneck 全局瓶颈检测结果
type Bottleneck struct {
	Process        string  `json:"process"`
	Workstation    string  `json:"workstation"`
	AvgDuration    float64 `json:"avg_duration"`
	RiskLevel      string  `json:"risk_level"`
	Recommendation string  `json:"recommendation"`
}

// DetectBottleneck finds the process with the longest observed run across all
// orders. Runs beyond eight hours are flagged HIGH, anything else MEDIUM.
// With no finished run anywhere, the result names no workstation and carries
// a LOW level.
func DetectBottleneck(orders []entity.Order, catalog []entity.ProductionProcess) Bottleneck {
	worst := make(map[string]float64)
	for i := range orders {
		for j := range orders[i].Tracking {
			t := &orders[i].Tracking[j]
			if hours, ok := durationHours(t); ok && hours > worst[t.Process] {
				worst[t.Process] = hours
			}
		}
	}

	result := Bottleneck{Workstation: "None", RiskLevel: entity.RiskLow}
	for _, p := range catalog {
		hours, ok := worst[p.ID]
		if !ok || hours <= result.AvgDuration {
			continue
		}
		result = Bottleneck{
			Process:     p.ID,
			Workstation: p.Name,
			AvgDuration: hours,
		}
		if hours > 8 {
			result.RiskLevel = entity.RiskHigh
			result.Recommendation = "Increase resources or review processes at this workstation"
		} else {
			result.RiskLevel = entity.RiskMedium
			result.Recommendation = "Monitor this process for potential delays"
		}
	}
	return result
}
