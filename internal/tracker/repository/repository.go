package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Order    *OrderRepository
	Project  *ProjectRepository
	Settings *SettingsRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:    NewOrderRepository(db),
		Project:  NewProjectRepository(db),
		Settings: NewSettingsRepository(db),
	}
}
