package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javaconnection/furnitrack/internal/tracker/engine"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
	"github.com/javaconnection/furnitrack/internal/tracker/service"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	svc *service.OrderService
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List 订单列表
func (h *OrderHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"status":     c.Query("status"),
		"priority":   c.Query("priority"),
		"risk_level": c.Query("risk_level"),
		"project_id": c.Query("project_id"),
		"keyword":    c.Query("keyword"),
	}

	orders, total, err := h.svc.List(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		InternalError(c, "failed to list orders: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, gin.H{
		"items": orders,
		"pagination": Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// Create 创建订单
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	order, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	Created(c, order)
}

// Get 订单详情
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, order)
}

// Update 更新订单
func (h *OrderHandler) Update(c *gin.Context) {
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	order, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, order)
}

// UpdateTracking 更新工序跟踪
func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	var req service.UpdateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	order, err := h.svc.UpdateTracking(c.Request.Context(), c.Param("id"), c.Param("process"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, order)
}

// Delete 删除订单
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, nil)
}

// Risk 订单风险评估
func (h *OrderHandler) Risk(c *gin.Context) {
	order, assessment, err := h.svc.AssessRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, gin.H{
		"order_id": order.OrderID,
		"risk":     assessment,
	})
}

func (h *OrderHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "order not found")
	case errors.Is(err, service.ErrProcessNotFound):
		NotFound(c, "process not found")
	case errors.Is(err, service.ErrProjectRequired):
		BadRequest(c, "project does not exist")
	case errors.Is(err, service.ErrInvalidQuantity):
		BadRequest(c, "quantity out of range")
	case errors.Is(err, engine.ErrInvalidDate):
		BadRequest(c, "invalid date")
	default:
		InternalError(c, err.Error())
	}
}
