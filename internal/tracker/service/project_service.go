package service

import (
	"context"
	"fmt"
	"time"

	"github.com/javaconnection/furnitrack/internal/config"
	"github.com/javaconnection/furnitrack/internal/tracker/engine"
	"github.com/javaconnection/furnitrack/internal/tracker/entity"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
)

// ProjectService 项目服务
type ProjectService struct {
	projects *repository.ProjectRepository
	orders   *repository.OrderRepository
	cfg      *config.Config
	now      func() time.Time
}

// NewProjectService 创建项目服务
func NewProjectService(projects *repository.ProjectRepository, orders *repository.OrderRepository, cfg *config.Config) *ProjectService {
	return &ProjectService{
		projects: projects,
		orders:   orders,
		cfg:      cfg,
		now:      time.Now,
	}
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	ProjectName        string `json:"project_name" binding:"required"`
	ProjectDescription string `json:"project_description"`
	StartDate          string `json:"start_date" binding:"required"`
	EndDate            string `json:"end_date" binding:"required"`
	Client             string `json:"client"`
	ProjectManager     string `json:"project_manager"`
	Status             string `json:"status" binding:"omitempty,oneof=planning in_progress on_hold completed"`
	Notes              string `json:"notes"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	ProjectName        *string `json:"project_name"`
	ProjectDescription *string `json:"project_description"`
	StartDate          *string `json:"start_date"`
	EndDate            *string `json:"end_date"`
	Client             *string `json:"client"`
	ProjectManager     *string `json:"project_manager"`
	Status             *string `json:"status" binding:"omitempty,oneof=planning in_progress on_hold completed"`
	Notes              *string `json:"notes"`
}

// Create 创建项目
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*entity.Project, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, engine.ErrInvalidDate
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, engine.ErrInvalidDate
	}

	id, err := s.projects.GenerateID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate project id: %w", err)
	}

	status := req.Status
	if status == "" {
		status = entity.ProjectStatusPlanning
	}

	project := &entity.Project{
		ProjectID:          id,
		ProjectName:        req.ProjectName,
		ProjectDescription: req.ProjectDescription,
		StartDate:          startDate,
		EndDate:            endDate,
		Client:             req.Client,
		ProjectManager:     req.ProjectManager,
		Status:             status,
		Notes:              req.Notes,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// Get 获取项目
func (s *ProjectService) Get(ctx context.Context, id string) (*entity.Project, error) {
	return s.projects.FindByID(ctx, id)
}

// List 获取项目列表
func (s *ProjectService) List(ctx context.Context, filters map[string]interface{}, page, pageSize int) ([]entity.Project, int64, error) {
	return s.projects.List(ctx, filters, page, pageSize)
}

// ListOrders 获取项目下的订单
func (s *ProjectService) ListOrders(ctx context.Context, id string) ([]entity.Order, error) {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.orders.ListByProject(ctx, id)
}

// Update 更新项目
func (s *ProjectService) Update(ctx context.Context, id string, req *UpdateProjectRequest) (*entity.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProjectName != nil {
		project.ProjectName = *req.ProjectName
	}
	if req.ProjectDescription != nil {
		project.ProjectDescription = *req.ProjectDescription
	}
	if req.StartDate != nil {
		startDate, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, engine.ErrInvalidDate
		}
		project.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, engine.ErrInvalidDate
		}
		project.EndDate = endDate
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.ProjectManager != nil {
		project.ProjectManager = *req.ProjectManager
	}
	if req.Status != nil && *req.Status != "" {
		project.Status = *req.Status
	}
	if req.Notes != nil {
		project.Notes = *req.Notes
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Delete 删除项目。订单按配置级联删除或解除关联。
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projects.FindByID(ctx, id); err != nil {
		return err
	}

	if s.cfg.App.OnProjectDelete == config.ProjectDeleteCascade {
		if err := s.orders.DeleteByProject(ctx, id); err != nil {
			return fmt.Errorf("failed to delete project orders: %w", err)
		}
	} else {
		if err := s.orders.DetachProject(ctx, id); err != nil {
			return fmt.Errorf("failed to detach project orders: %w", err)
		}
	}

	return s.projects.Delete(ctx, id)
}

// AssessRisk 重算项目风险
func (s *ProjectService) AssessRisk(ctx context.Context, id string) (*entity.Project, engine.ProjectAssessment, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, engine.ProjectAssessment{}, err
	}
	orders, err := s.orders.ListByProject(ctx, id)
	if err != nil {
		return nil, engine.ProjectAssessment{}, err
	}
	assessment, err := engine.AssessProjectRisk(project, orders, s.now())
	if err != nil {
		return nil, engine.ProjectAssessment{}, err
	}
	return project, assessment, nil
}
