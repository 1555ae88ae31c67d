package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javaconnection/furnitrack/internal/tracker/entity"
)

// OrderRepository 订单仓库
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindByID 根据ID查找订单，含按工序顺序排列的跟踪记录
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Tracking", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("order_id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// List 获取订单列表
func (r *OrderRepository) List(ctx context.Context, filters map[string]interface{}, page, pageSize int) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})

	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("current_status = ?", status)
	}
	if priority, ok := filters["priority"].(string); ok && priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if riskLevel, ok := filters["risk_level"].(string); ok && riskLevel != "" {
		query = query.Where("risk_level = ?", riskLevel)
	}
	if projectID, ok := filters["project_id"].(string); ok && projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if keyword, ok := filters["keyword"].(string); ok && keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("order_id ILIKE ? OR customer_name ILIKE ? OR product_description ILIKE ?", like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	err := query.
		Preload("Tracking", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

// ListAll 获取全部订单，用于分析与导出
func (r *OrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Preload("Tracking", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// ListByProject 获取项目下的订单
func (r *OrderRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Tracking", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// Create 创建订单及其跟踪记录
func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// SaveWithTracking 在单个事务内保存订单及其全部跟踪记录，
// 保证派生字段与跟踪数据一致落库
func (r *OrderRepository) SaveWithTracking(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tracking").Save(order).Error; err != nil {
			return err
		}
		for i := range order.Tracking {
			if err := tx.Save(&order.Tracking[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete 删除订单及其跟踪记录
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&entity.TrackingEntry{}).Error; err != nil {
			return err
		}
		result := tx.Where("order_id = ?", id).Delete(&entity.Order{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// DeleteByProject 删除项目下全部订单（级联模式）
func (r *OrderRepository) DeleteByProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&entity.Order{}).Where("project_id = ?", projectID).Pluck("order_id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&entity.TrackingEntry{}).Error; err != nil {
			return err
		}
		return tx.Where("project_id = ?", projectID).Delete(&entity.Order{}).Error
	})
}

// DetachProject 解除项目下订单的项目关联（默认模式）
func (r *OrderRepository) DetachProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("project_id = ?", projectID).
		Update("project_id", nil).Error
}

// GenerateID 生成订单编号
func (r *OrderRepository) GenerateID(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Order{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("ORD-%05d", count+1), nil
}
