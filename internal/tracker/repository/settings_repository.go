package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
)

// SettingsRepository 配置仓库，单行表
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository 创建配置仓库
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get 获取配置，不存在时写入并返回默认配置
func (r *SettingsRepository) Get(ctx context.Context) (*entity.Settings, error) {
	var settings entity.Settings
	err := r.db.WithContext(ctx).Where("id = ?", 1).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := entity.DefaultSettings()
			if err := r.db.WithContext(ctx).Create(defaults).Error; err != nil {
				return nil, err
			}
			return defaults, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Update 更新配置
func (r *SettingsRepository) Update(ctx context.Context, settings *entity.Settings) error {
	settings.ID = 1
	return r.db.WithContext(ctx).Save(settings).Error
}
