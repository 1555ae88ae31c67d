package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/javaconnection/furnitrack/internal/tracker/service"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	svc *service.ExportService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// Excel 导出xlsx工作簿
func (h *ExportHandler) Excel(c *gin.Context) {
	f, filename, err := h.svc.Workbook(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to build workbook: "+err.Error())
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "failed to write workbook: "+err.Error())
	}
}

// Backup 导出JSON数据备份
func (h *ExportHandler) Backup(c *gin.Context) {
	data, err := h.svc.Backup(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to build backup: "+err.Error())
		return
	}
	Success(c, data)
}
