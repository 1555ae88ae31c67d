package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javaconnection/furnitrack/internal/tracker/engine"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
	"github.com/javaconnection/furnitrack/internal/tracker/service"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	svc *service.ProjectService
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// List 项目列表
func (h *ProjectHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]interface{}{
		"status":  c.Query("status"),
		"keyword": c.Query("keyword"),
	}

	projects, total, err := h.svc.List(c.Request.Context(), filters, page, pageSize)
	if err != nil {
		InternalError(c, "failed to list projects: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, gin.H{
		"items": projects,
		"pagination": Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// Create 创建项目
func (h *ProjectHandler) Create(c *gin.Context) {
	var req service.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	project, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	Created(c, project)
}

// Get 项目详情
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, project)
}

// ListOrders 项目下订单列表
func (h *ProjectHandler) ListOrders(c *gin.Context) {
	orders, err := h.svc.ListOrders(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, gin.H{"items": orders})
}

// Update 更新项目
func (h *ProjectHandler) Update(c *gin.Context) {
	var req service.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	project, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, project)
}

// Delete 删除项目
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, nil)
}

// Risk 项目风险评估
func (h *ProjectHandler) Risk(c *gin.Context) {
	project, assessment, err := h.svc.AssessRisk(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	Success(c, gin.H{
		"project_id": project.ProjectID,
		"risk":       assessment,
	})
}

func (h *ProjectHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, "project not found")
	case errors.Is(err, engine.ErrInvalidDate):
		BadRequest(c, "invalid date")
	default:
		InternalError(c, err.Error())
	}
}
