package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
	"github.com/javaconnection/furnitrack/internal/tracker/service"
)

// SettingsHandler 配置处理器
type SettingsHandler struct {
	svc    *service.SettingsService
	upload *service.UploadService
}

// NewSettingsHandler 创建配置处理器
func NewSettingsHandler(svc *service.SettingsService, upload *service.UploadService) *SettingsHandler {
	return &SettingsHandler{svc: svc, upload: upload}
}

// Get 获取配置
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to load settings: "+err.Error())
		return
	}
	Success(c, settings)
}

// Processes 工序目录
func (h *SettingsHandler) Processes(c *gin.Context) {
	Success(c, gin.H{"items": entity.ProcessCatalog})
}

// Update 更新配置
func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTarget) {
			BadRequest(c, "invalid efficiency target")
			return
		}
		InternalError(c, "failed to update settings: "+err.Error())
		return
	}
	Success(c, settings)
}

// Reset 恢复默认配置
func (h *SettingsHandler) Reset(c *gin.Context) {
	settings, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to reset settings: "+err.Error())
		return
	}
	Success(c, settings)
}

// UploadLogo 上传公司Logo
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	url, err := h.upload.UploadLogo(
		c.Request.Context(),
		file,
		header.Size,
		header.Header.Get("Content-Type"),
		header.Filename,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedImage):
			BadRequest(c, "unsupported image type")
		case errors.Is(err, service.ErrStorageUnavailable):
			Error(c, 50300, "object storage unavailable")
		default:
			InternalError(c, "failed to upload logo: "+err.Error())
		}
		return
	}

	settings, err := h.svc.SetLogoURL(c.Request.Context(), url)
	if err != nil {
		InternalError(c, "failed to save logo url: "+err.Error())
		return
	}
	Success(c, settings)
}
