package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/javaconnection/furnitrack/internal/tracker/engine"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
	"github.com/javaconnection/furnitrack/internal/tracker/service"
)

// AnalysisHandler 决策分析处理器
type AnalysisHandler struct {
	svc *service.AnalysisService
}

// NewAnalysisHandler 创建分析处理器
func NewAnalysisHandler(svc *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

// asOfParam 解析可选的as_of查询参数，缺省为零值（服务端取当前时间）
func asOfParam(c *gin.Context) (time.Time, bool) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	BadRequest(c, "invalid as_of")
	return time.Time{}, false
}

// Order 单订单分析
func (h *AnalysisHandler) Order(c *gin.Context) {
	asOf, ok := asOfParam(c)
	if !ok {
		return
	}
	analysis, err := h.svc.AnalyzeOrder(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		h.writeError(c, "order", err)
		return
	}
	Success(c, analysis)
}

// Project 项目分析
func (h *AnalysisHandler) Project(c *gin.Context) {
	asOf, ok := asOfParam(c)
	if !ok {
		return
	}
	analysis, err := h.svc.AnalyzeProject(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		h.writeError(c, "project", err)
		return
	}
	Success(c, analysis)
}

// Combined 全局分析
func (h *AnalysisHandler) Combined(c *gin.Context) {
	asOf, ok := asOfParam(c)
	if !ok {
		return
	}
	analysis, err := h.svc.AnalyzeAll(c.Request.Context(), asOf)
	if err != nil {
		h.writeError(c, "", err)
		return
	}
	Success(c, analysis)
}

// Dashboard 看板摘要
func (h *AnalysisHandler) Dashboard(c *gin.Context) {
	summary, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to build dashboard: "+err.Error())
		return
	}
	Success(c, summary)
}

func (h *AnalysisHandler) writeError(c *gin.Context, subject string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, subject+" not found")
	case errors.Is(err, engine.ErrInvalidDate):
		BadRequest(c, "invalid date")
	default:
		InternalError(c, err.Error())
	}
}
