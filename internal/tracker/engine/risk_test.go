package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAssessRiskMidWindowOrder(t *testing.T) {
	// 20-day window, 9 days elapsed (45% of time used), 40% progress.
	order := &entity.Order{
		Quantity:   5,
		OrderDate:  date(2024, time.January, 1),
		TargetDate: date(2024, time.January, 21),
		Priority:   entity.PriorityMedium,
		Progress:   40,
	}
	a, err := AssessRisk(order, date(2024, time.January, 10))
	require.NoError(t, err)
	assert.Equal(t, 23, a.RiskScore)
	assert.Equal(t, entity.RiskLow, a.RiskLevel)
	assert.Equal(t, 11, a.DaysUntilDue)
	assert.Equal(t, 5, a.TimePressure)
	assert.Zero(t, a.DefectRate)
}

func TestAssessRiskOverdueForcesCritical(t *testing.T) {
	order := &entity.Order{
		Quantity:   5,
		OrderDate:  date(2024, time.January, 1),
		TargetDate: date(2024, time.January, 21),
		Priority:   entity.PriorityMedium,
		Progress:   40,
	}
	a, err := AssessRisk(order, date(2024, time.January, 24))
	require.NoError(t, err)
	assert.Equal(t, -3, a.DaysUntilDue)
	assert.Equal(t, entity.RiskCritical, a.RiskLevel)
}

func TestAssessRiskNewOrderGuardrail(t *testing.T) {
	// One day old, zero progress, maximal defects: the raw score lands well
	// above the LOW band but the level is pinned to LOW. The numeric score
	// itself is not touched.
	order := &entity.Order{
		Quantity:   10,
		OrderDate:  date(2024, time.March, 1),
		TargetDate: date(2024, time.March, 3),
		Priority:   entity.PriorityHigh,
		Progress:   0,
		Tracking: []entity.TrackingEntry{
			{Process: entity.ProcessWarehouseIn, DefectQuantity: 10},
		},
	}
	a, err := AssessRisk(order, date(2024, time.March, 2))
	require.NoError(t, err)
	assert.Equal(t, 69, a.RiskScore)
	assert.Equal(t, entity.RiskLow, a.RiskLevel)
}

func TestAssessRiskScoreBounds(t *testing.T) {
	orders := []*entity.Order{
		{
			Quantity:   1,
			OrderDate:  date(2024, time.January, 1),
			TargetDate: date(2024, time.January, 2),
			Priority:   entity.PriorityHigh,
			Tracking: []entity.TrackingEntry{
				{Process: entity.ProcessSanding, DefectQuantity: 500},
			},
		},
		{
			Quantity:   100,
			OrderDate:  date(2024, time.January, 1),
			TargetDate: date(2024, time.June, 1),
			Priority:   entity.PriorityLow,
			Progress:   100,
		},
		{
			// Same-day order and target: total window floors at one day.
			Quantity:   10,
			OrderDate:  date(2024, time.January, 1),
			TargetDate: date(2024, time.January, 1),
			Priority:   entity.PriorityMedium,
		},
	}
	levels := map[string]bool{
		entity.RiskCritical: true,
		entity.RiskHigh:     true,
		entity.RiskMedium:   true,
		entity.RiskLow:      true,
		entity.RiskVeryLow:  true,
	}
	for _, o := range orders {
		a, err := AssessRisk(o, date(2024, time.February, 1))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, a.RiskScore, 0)
		assert.LessOrEqual(t, a.RiskScore, 100)
		assert.True(t, levels[a.RiskLevel], "unknown level %q", a.RiskLevel)
	}
}

func TestAssessRiskDefectsNeverLowerScore(t *testing.T) {
	mk := func(defects int) *entity.Order {
		return &entity.Order{
			Quantity:   10,
			OrderDate:  date(2024, time.January, 1),
			TargetDate: date(2024, time.January, 21),
			Priority:   entity.PriorityMedium,
			Progress:   40,
			Tracking: []entity.TrackingEntry{
				{Process: entity.ProcessSanding, QuantityCompleted: 10, DefectQuantity: defects},
			},
		}
	}
	asOf := date(2024, time.January, 10)
	prev := -1
	for _, defects := range []int{0, 1, 2, 5, 10, 50} {
		a, err := AssessRisk(mk(defects), asOf)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, a.RiskScore, prev, "defects=%d", defects)
		prev = a.RiskScore
	}
}

func TestAssessRiskInvalidDates(t *testing.T) {
	_, err := AssessRisk(&entity.Order{TargetDate: date(2024, time.January, 1)}, date(2024, time.January, 1))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = AssessRisk(&entity.Order{OrderDate: date(2024, time.January, 1)}, date(2024, time.January, 1))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestRiskLevelThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, entity.RiskVeryLow},
		{19.4, entity.RiskVeryLow},
		{20, entity.RiskLow},
		{39.9, entity.RiskLow},
		{40, entity.RiskMedium},
		{59.9, entity.RiskMedium},
		{60, entity.RiskHigh},
		{79.9, entity.RiskHigh},
		{80, entity.RiskCritical},
		{100, entity.RiskCritical},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, riskLevel(c.score, 5), "score=%v", c.score)
	}
	// Overdue overrides any score.
	assert.Equal(t, entity.RiskCritical, riskLevel(0, -1))
}

func TestAssessProjectRiskEmpty(t *testing.T) {
	project := &entity.Project{ProjectID: "PRJ-0001"}
	a, err := AssessProjectRisk(project, nil, date(2024, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, 10, a.RiskScore)
	assert.Equal(t, entity.RiskLow, a.RiskLevel)
	assert.Empty(t, a.OrderRisks)
}

func TestAssessProjectRiskRollup(t *testing.T) {
	project := &entity.Project{
		ProjectID: "PRJ-0002",
		EndDate:   date(2024, time.February, 10),
	}
	mkOrder := func(id string) entity.Order {
		return entity.Order{
			OrderID:    id,
			Quantity:   5,
			OrderDate:  date(2024, time.January, 1),
			TargetDate: date(2024, time.January, 21),
			Priority:   entity.PriorityMedium,
			Progress:   40,
		}
	}
	orders := []entity.Order{mkOrder("ORD-00001"), mkOrder("ORD-00002")}

	a, err := AssessProjectRisk(project, orders, date(2024, time.January, 10))
	require.NoError(t, err)
	// Both orders score 23; nothing shipped so the completion surcharge of 20
	// applies and the deadline is more than two weeks out.
	assert.Equal(t, 43, a.RiskScore)
	assert.Equal(t, entity.RiskMedium, a.RiskLevel)
	assert.Equal(t, 0, a.CompletionRate)
	require.Len(t, a.OrderRisks, 2)
	assert.Equal(t, "ORD-00001", a.OrderRisks[0].OrderID)
	assert.Equal(t, 23, a.OrderRisks[0].RiskScore)
}

func TestAssessProjectRiskOverdueTimeline(t *testing.T) {
	project := &entity.Project{
		ProjectID: "PRJ-0003",
		EndDate:   date(2024, time.January, 5),
	}
	order := entity.Order{
		OrderID:    "ORD-00003",
		Quantity:   5,
		OrderDate:  date(2024, time.January, 1),
		TargetDate: date(2024, time.January, 21),
		Priority:   entity.PriorityMedium,
		Progress:   40,
	}
	a, err := AssessProjectRisk(project, []entity.Order{order}, date(2024, time.January, 10))
	require.NoError(t, err)
	// avg 23 + overdue 30 + completion 20 = 73, level forced CRITICAL by the
	// past end date.
	assert.Equal(t, 73, a.RiskScore)
	assert.Equal(t, entity.RiskCritical, a.RiskLevel)
	assert.Negative(t, a.DaysUntilDue)
}

func TestAssessProjectRiskMissingEndDate(t *testing.T) {
	project := &entity.Project{ProjectID: "PRJ-0004"}
	order := entity.Order{
		OrderID:    "ORD-00004",
		Quantity:   5,
		OrderDate:  date(2024, time.January, 1),
		TargetDate: date(2024, time.January, 21),
	}
	_, err := AssessProjectRisk(project, []entity.Order{order}, date(2024, time.January, 10))
	assert.ErrorIs(t, err, ErrInvalidDate)
}
