package entity

import (
	"time"
)

// Order 状态
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
)

// Order 优先级
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Risk levels, highest to lowest.
const (
	RiskCritical = "CRITICAL"
	RiskHigh     = "HIGH"
	RiskMedium   = "MEDIUM"
	RiskLow      = "LOW"
	RiskVeryLow  = "VERY LOW"
)

// Order 生产订单实体
type Order struct {
	OrderID             string    `json:"order_id" gorm:"primaryKey;size:32"`
	CustomerName        string    `json:"customer_name" gorm:"size:128;not null"`
	ProductDescription  string    `json:"product_description" gorm:"type:text"`
	Quantity            int       `json:"quantity" gorm:"not null"`
	OrderDate           time.Time `json:"order_date" gorm:"type:date;not null"`
	TargetDate          time.Time `json:"target_date" gorm:"type:date;not null"`
	ProjectID           *string   `json:"project_id" gorm:"size:32;index"`
	PICName             string    `json:"pic_name" gorm:"size:64"`
	CurrentStatus       string    `json:"current_status" gorm:"size:16;not null;default:pending"`
	Priority            string    `json:"priority" gorm:"size:8;not null;default:medium"`
	RequiresAccessories bool      `json:"requires_accessories" gorm:"default:false"`
	RequiresWelding     bool      `json:"requires_welding" gorm:"default:false"`
	Notes               string    `json:"notes" gorm:"type:text"`
	Progress            int       `json:"progress" gorm:"not null;default:0"`
	RiskLevel           string    `json:"risk_level" gorm:"size:16;not null;default:LOW"`
	RiskScore           int       `json:"risk_score" gorm:"not null;default:10"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// One entry per catalog process, created with the order and ordered by
	// pipeline sequence.
	Tracking []TrackingEntry `json:"tracking" gorm:"foreignKey:OrderID;references:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// FindTracking returns the tracking entry for a process id, or nil.
func (o *Order) FindTracking(process string) *TrackingEntry {
	for i := range o.Tracking {
		if o.Tracking[i].Process == process {
			return &o.Tracking[i]
		}
	}
	return nil
}

// TotalDefects sums defect counters across all tracking entries. Defects are
// counted independently of completed quantity.
func (o *Order) TotalDefects() int {
	total := 0
	for i := range o.Tracking {
		total += o.Tracking[i].DefectQuantity
	}
	return total
}

// TrackingEntry 订单在单个工序上的进度记录
type TrackingEntry struct {
	ID                string     `json:"-" gorm:"primaryKey;size:36"`
	OrderID           string     `json:"-" gorm:"size:32;not null;index"`
	Process           string     `json:"process" gorm:"size:32;not null"`
	Sequence          int        `json:"-" gorm:"not null"`
	Status            string     `json:"status" gorm:"size:16;not null;default:pending"`
	QuantityCompleted int        `json:"quantity_completed" gorm:"not null;default:0"`
	DefectQuantity    int        `json:"defect_quantity" gorm:"not null;default:0"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	PICName           string     `json:"pic_name" gorm:"size:64"`
	Issues            string     `json:"issues" gorm:"type:text"`
	LastUpdated       *time.Time `json:"last_updated"`
}

func (TrackingEntry) TableName() string {
	return "order_tracking"
}
