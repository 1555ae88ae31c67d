package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderJSONKeepsTrackingOrder(t *testing.T) {
	start := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	order := Order{
		OrderID:      "ORD-00042",
		CustomerName: "PT Mebel Nusantara",
		Quantity:     8,
		OrderDate:    time.Date(2024, time.February, 20, 0, 0, 0, 0, time.UTC),
		TargetDate:   time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
	for i, p := range ProcessCatalog {
		if p.Optional {
			continue
		}
		order.Tracking = append(order.Tracking, TrackingEntry{
			ID:                p.ID + "-entry",
			OrderID:           order.OrderID,
			Process:           p.ID,
			Sequence:          i,
			Status:            OrderStatusInProgress,
			QuantityCompleted: i,
			StartTime:         &start,
		})
	}

	data, err := json.Marshal(&order)
	require.NoError(t, err)

	var decoded Order
	require.NoError(t, json.Unmarshal(data, &decoded))

	// Tracking is an ordered sequence: decoding must reproduce the exact
	// process order and per-entry values, not just the same set.
	require.Len(t, decoded.Tracking, len(order.Tracking))
	for i := range order.Tracking {
		assert.Equal(t, order.Tracking[i].Process, decoded.Tracking[i].Process)
		assert.Equal(t, order.Tracking[i].QuantityCompleted, decoded.Tracking[i].QuantityCompleted)
		assert.Equal(t, order.Tracking[i].Status, decoded.Tracking[i].Status)
	}
	assert.Equal(t, order.OrderID, decoded.OrderID)
	assert.True(t, order.OrderDate.Equal(decoded.OrderDate))
}

func TestFindTracking(t *testing.T) {
	order := Order{
		Quantity: 5,
		Tracking: []TrackingEntry{
			{Process: ProcessSanding, QuantityCompleted: 2},
			{Process: ProcessAssembly, QuantityCompleted: 0},
		},
	}
	entry := order.FindTracking(ProcessSanding)
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.QuantityCompleted)
	assert.Nil(t, order.FindTracking(ProcessWelding))
}

func TestTotalDefects(t *testing.T) {
	order := Order{
		Tracking: []TrackingEntry{
			{Process: ProcessSanding, DefectQuantity: 2},
			{Process: ProcessAssembly, DefectQuantity: 3},
		},
	}
	assert.Equal(t, 5, order.TotalDefects())
}

func TestEfficiencyTargetsFallback(t *testing.T) {
	targets := DefaultSettings().Efficiency
	assert.Equal(t, 6.0, targets.TargetFor(ProcessAssembly).TargetTime)

	fallback := targets.TargetFor("unknown_process")
	assert.Equal(t, 2.0, fallback.TargetTime)
}
