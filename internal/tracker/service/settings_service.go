package service

import (
	"context"
	"errors"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
)

// ErrInvalidTarget 无效的效率目标
var ErrInvalidTarget = errors.New("invalid efficiency target")

// SettingsService 配置服务
type SettingsService struct {
	settings *repository.SettingsRepository
}

// NewSettingsService 创建配置服务
func NewSettingsService(settings *repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// UpdateSettingsRequest 更新配置请求
type UpdateSettingsRequest struct {
	Efficiency  entity.EfficiencyTargets `json:"efficiency"`
	CompanyName *string                  `json:"company_name"`
	Address     *string                  `json:"address"`
	Phone       *string                  `json:"phone"`
	Email       *string                  `json:"email"`
	LogoIcon    *string                  `json:"logo_icon"`
}

// Get 获取配置
func (s *SettingsService) Get(ctx context.Context) (*entity.Settings, error) {
	return s.settings.Get(ctx)
}

// Targets 获取当前效率目标
func (s *SettingsService) Targets(ctx context.Context) (entity.EfficiencyTargets, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return settings.Efficiency, nil
}

// Update 更新配置。效率目标按工序合并，未提交的工序保持原值。
func (s *SettingsService) Update(ctx context.Context, req *UpdateSettingsRequest) (*entity.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	for id, target := range req.Efficiency {
		if target.TargetTime <= 0 || target.TargetQuality <= 0 || target.TargetQuality > 100 ||
			target.TargetOutput <= 0 || target.TargetOutput > 100 {
			return nil, ErrInvalidTarget
		}
		if settings.Efficiency == nil {
			settings.Efficiency = entity.EfficiencyTargets{}
		}
		settings.Efficiency[id] = target
	}

	if req.CompanyName != nil {
		settings.CompanyName = *req.CompanyName
	}
	if req.Address != nil {
		settings.Address = *req.Address
	}
	if req.Phone != nil {
		settings.Phone = *req.Phone
	}
	if req.Email != nil {
		settings.Email = *req.Email
	}
	if req.LogoIcon != nil {
		settings.LogoIcon = *req.LogoIcon
	}

	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Reset 恢复默认配置，保留已上传的Logo
func (s *SettingsService) Reset(ctx context.Context) (*entity.Settings, error) {
	current, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	defaults := entity.DefaultSettings()
	defaults.LogoURL = current.LogoURL
	if err := s.settings.Update(ctx, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// SetLogoURL 记录上传后的Logo地址
func (s *SettingsService) SetLogoURL(ctx context.Context, url string) (*entity.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	settings.LogoURL = url
	if err := s.settings.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
