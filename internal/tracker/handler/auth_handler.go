package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/javaconnection/furnitrack/internal/tracker/service"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	result, err := h.svc.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			Unauthorized(c, "invalid credentials")
			return
		}
		InternalError(c, "login failed: "+err.Error())
		return
	}
	Success(c, result)
}

// Me 当前登录用户
func (h *AuthHandler) Me(c *gin.Context) {
	Success(c, gin.H{"user": c.GetString("user")})
}
