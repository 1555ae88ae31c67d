package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/javaconnection/furnitrack/internal/tracker/engine"
	"github.com/javaconnection/furnitrack/internal/tracker/entity"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
)

// 错误定义
var (
	ErrProcessNotFound = errors.New("process not found")
	ErrInvalidQuantity = errors.New("quantity out of range")
	ErrProjectRequired = errors.New("project does not exist")
)

const dateLayout = "2006-01-02"

// OrderService 订单服务
type OrderService struct {
	orders   *repository.OrderRepository
	projects *repository.ProjectRepository
	now      func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orders *repository.OrderRepository, projects *repository.ProjectRepository) *OrderService {
	return &OrderService{
		orders:   orders,
		projects: projects,
		now:      time.Now,
	}
}

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	CustomerName        string  `json:"customer_name" binding:"required"`
	ProductDescription  string  `json:"product_description"`
	Quantity            int     `json:"quantity" binding:"required,min=1"`
	OrderDate           string  `json:"order_date" binding:"required"`
	TargetDate          string  `json:"target_date" binding:"required"`
	ProjectID           *string `json:"project_id"`
	PICName             string  `json:"pic_name"`
	Priority            string  `json:"priority" binding:"omitempty,oneof=high medium low"`
	RequiresAccessories bool    `json:"requires_accessories"`
	RequiresWelding     bool    `json:"requires_welding"`
	Notes               string  `json:"notes"`
}

// UpdateOrderRequest 更新订单请求
type UpdateOrderRequest struct {
	CustomerName       *string `json:"customer_name"`
	ProductDescription *string `json:"product_description"`
	TargetDate         *string `json:"target_date"`
	ProjectID          *string `json:"project_id"`
	PICName            *string `json:"pic_name"`
	Priority           *string `json:"priority" binding:"omitempty,oneof=high medium low"`
	Notes              *string `json:"notes"`
}

// UpdateTrackingRequest 更新工序跟踪请求
type UpdateTrackingRequest struct {
	QuantityCompleted *int    `json:"quantity_completed"`
	DefectQuantity    *int    `json:"defect_quantity"`
	StartTime         *string `json:"start_time"`
	EndTime           *string `json:"end_time"`
	PICName           *string `json:"pic_name"`
	Issues            *string `json:"issues"`
}

// Create 创建订单，并为目录中每道工序生成跟踪记录（含未启用的可选工序，
// 适用性过滤在引擎侧完成）。派生字段取生命周期初始值，变更时再重算。
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*entity.Order, error) {
	orderDate, err := time.Parse(dateLayout, req.OrderDate)
	if err != nil {
		return nil, engine.ErrInvalidDate
	}
	targetDate, err := time.Parse(dateLayout, req.TargetDate)
	if err != nil {
		return nil, engine.ErrInvalidDate
	}

	if req.ProjectID != nil && *req.ProjectID != "" {
		if _, err := s.projects.FindByID(ctx, *req.ProjectID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProjectRequired
			}
			return nil, err
		}
	} else {
		req.ProjectID = nil
	}

	id, err := s.orders.GenerateID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order id: %w", err)
	}

	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}

	order := &entity.Order{
		OrderID:             id,
		CustomerName:        req.CustomerName,
		ProductDescription:  req.ProductDescription,
		Quantity:            req.Quantity,
		OrderDate:           orderDate,
		TargetDate:          targetDate,
		ProjectID:           req.ProjectID,
		PICName:             req.PICName,
		CurrentStatus:       entity.OrderStatusPending,
		Priority:            priority,
		RequiresAccessories: req.RequiresAccessories,
		RequiresWelding:     req.RequiresWelding,
		Notes:               req.Notes,
		Progress:            0,
		RiskLevel:           entity.RiskLow,
		RiskScore:           10,
	}

	for seq, p := range entity.ProcessCatalog {
		order.Tracking = append(order.Tracking, entity.TrackingEntry{
			ID:       uuid.New().String(),
			OrderID:  id,
			Process:  p.ID,
			Sequence: seq,
			Status:   entity.OrderStatusPending,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

// Get 获取订单
func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// List 获取订单列表
func (s *OrderService) List(ctx context.Context, filters map[string]interface{}, page, pageSize int) ([]entity.Order, int64, error) {
	return s.orders.List(ctx, filters, page, pageSize)
}

// Update 更新订单基础字段并重算派生字段
func (s *OrderService) Update(ctx context.Context, id string, req *UpdateOrderRequest) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.ProductDescription != nil {
		order.ProductDescription = *req.ProductDescription
	}
	if req.TargetDate != nil {
		targetDate, err := time.Parse(dateLayout, *req.TargetDate)
		if err != nil {
			return nil, engine.ErrInvalidDate
		}
		order.TargetDate = targetDate
	}
	if req.ProjectID != nil {
		if *req.ProjectID == "" {
			order.ProjectID = nil
		} else {
			if _, err := s.projects.FindByID(ctx, *req.ProjectID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, ErrProjectRequired
				}
				return nil, err
			}
			order.ProjectID = req.ProjectID
		}
	}
	if req.PICName != nil {
		order.PICName = *req.PICName
	}
	if req.Priority != nil && *req.Priority != "" {
		order.Priority = *req.Priority
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := s.recompute(order, s.now()); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithTracking(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return order, nil
}

// UpdateTracking 更新单道工序的跟踪数据，并级联重算订单的进度、
// 状态与风险，整体在一个事务内落库
func (s *OrderService) UpdateTracking(ctx context.Context, orderID, process string, req *UpdateTrackingRequest) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	entry := order.FindTracking(process)
	if entry == nil {
		return nil, ErrProcessNotFound
	}

	asOf := s.now()

	if req.QuantityCompleted != nil {
		if *req.QuantityCompleted < 0 || *req.QuantityCompleted > order.Quantity {
			return nil, ErrInvalidQuantity
		}
		entry.QuantityCompleted = *req.QuantityCompleted
	}
	if req.DefectQuantity != nil {
		if *req.DefectQuantity < 0 || *req.DefectQuantity > order.Quantity {
			return nil, ErrInvalidQuantity
		}
		entry.DefectQuantity = *req.DefectQuantity
	}
	if req.StartTime != nil {
		t, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, engine.ErrInvalidDate
		}
		entry.StartTime = &t
	}
	if req.EndTime != nil {
		t, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, engine.ErrInvalidDate
		}
		entry.EndTime = &t
	}
	if req.PICName != nil {
		entry.PICName = *req.PICName
	}
	if req.Issues != nil {
		entry.Issues = *req.Issues
	}

	// 工序状态随数量推导；首次动工与完工时间自动补记
	switch {
	case entry.QuantityCompleted >= order.Quantity:
		entry.Status = entity.OrderStatusCompleted
		if entry.EndTime == nil {
			entry.EndTime = &asOf
		}
	case entry.QuantityCompleted > 0:
		entry.Status = entity.OrderStatusInProgress
		if entry.StartTime == nil {
			entry.StartTime = &asOf
		}
	default:
		entry.Status = entity.OrderStatusPending
	}
	entry.LastUpdated = &asOf

	if err := s.recompute(order, asOf); err != nil {
		return nil, err
	}
	if err := s.orders.SaveWithTracking(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save tracking update: %w", err)
	}
	return order, nil
}

// Delete 删除订单
func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}

// AssessRisk 按需重算订单风险
func (s *OrderService) AssessRisk(ctx context.Context, id string) (*entity.Order, engine.Assessment, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, engine.Assessment{}, err
	}
	assessment, err := engine.AssessRisk(order, s.now())
	if err != nil {
		return nil, engine.Assessment{}, err
	}
	return order, assessment, nil
}

// recompute 重算派生字段。先算进度再算风险：风险读取的是刚写回的进度。
func (s *OrderService) recompute(order *entity.Order, asOf time.Time) error {
	result := engine.ComputeProgress(order, entity.ProcessCatalog)
	order.Progress = result.Progress
	order.CurrentStatus = result.Status

	assessment, err := engine.AssessRisk(order, asOf)
	if err != nil {
		return err
	}
	order.RiskLevel = assessment.RiskLevel
	order.RiskScore = assessment.RiskScore
	return nil
}
