package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/javaconnection/furnitrack/internal/tracker/engine"
	"github.com/javaconnection/furnitrack/internal/tracker/entity"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
)

const (
	dashboardCacheKey = "tracker:dashboard:summary"
	dashboardCacheTTL = 30 * time.Second
)

// AnalysisService 决策分析服务
type AnalysisService struct {
	orders   *repository.OrderRepository
	projects *repository.ProjectRepository
	settings *SettingsService
	rdb      *redis.Client
	now      func() time.Time
}

// NewAnalysisService 创建分析服务
func NewAnalysisService(orders *repository.OrderRepository, projects *repository.ProjectRepository, settings *SettingsService, rdb *redis.Client) *AnalysisService {
	return &AnalysisService{
		orders:   orders,
		projects: projects,
		settings: settings,
		rdb:      rdb,
		now:      time.Now,
	}
}

// OrderAnalysis 单订单分析结果
type OrderAnalysis struct {
	Order           *entity.Order           `json:"order"`
	Risk            engine.Assessment       `json:"risk"`
	Efficiency      map[string]float64      `json:"efficiency"`
	Recommendations []engine.Recommendation `json:"recommendations"`
}

// AnalyzeOrder 分析单个订单：风险、工序效率与建议。
// asOf为零值时取当前时间。
func (s *AnalysisService) AnalyzeOrder(ctx context.Context, orderID string, asOf time.Time) (*OrderAnalysis, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	targets, err := s.settings.Targets(ctx)
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = s.now()
	}
	risk, err := engine.AssessRisk(order, asOf)
	if err != nil {
		return nil, err
	}

	return &OrderAnalysis{
		Order:           order,
		Risk:            risk,
		Efficiency:      engine.ProcessEfficiency(order, targets, entity.ProcessCatalog),
		Recommendations: engine.OrderRecommendations(order, risk),
	}, nil
}

// ProjectAnalysis 项目分析结果
type ProjectAnalysis struct {
	Project          *entity.Project          `json:"project"`
	Risk             engine.ProjectAssessment `json:"risk"`
	TimelineProgress int                      `json:"timeline_progress"`
	ProcessDelays    map[string]float64       `json:"process_delays"`
	Recommendations  []engine.Recommendation  `json:"recommendations"`
}

// AnalyzeProject 分析项目：汇总风险、时间线进度、工序延误与建议
func (s *AnalysisService) AnalyzeProject(ctx context.Context, projectID string, asOf time.Time) (*ProjectAnalysis, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	targets, err := s.settings.Targets(ctx)
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = s.now()
	}
	risk, err := engine.AssessProjectRisk(project, orders, asOf)
	if err != nil {
		return nil, err
	}
	delays := engine.AnalyzeBottlenecks(orders, targets, entity.ProcessCatalog)

	return &ProjectAnalysis{
		Project:          project,
		Risk:             risk,
		TimelineProgress: timelineProgress(project, asOf),
		ProcessDelays:    delays,
		Recommendations:  engine.ProjectRecommendations(risk, delays, entity.ProcessCatalog),
	}, nil
}

// timelineProgress 项目时间线消耗百分比
func timelineProgress(project *entity.Project, asOf time.Time) int {
	if project.StartDate.IsZero() || project.EndDate.IsZero() {
		return 0
	}
	total := project.EndDate.Sub(project.StartDate)
	if total <= 0 {
		return 100
	}
	elapsed := asOf.Sub(project.StartDate)
	pct := int(float64(elapsed) / float64(total) * 100)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// CombinedAnalysis 全局分析结果
type CombinedAnalysis struct {
	TotalOrders        int                     `json:"total_orders"`
	TotalProjects      int                     `json:"total_projects"`
	CompletedOrders    int                     `json:"completed_orders"`
	InProgressOrders   int                     `json:"in_progress_orders"`
	PendingOrders      int                     `json:"pending_orders"`
	CompletedProjects  int                     `json:"completed_projects"`
	InProgressProjects int                     `json:"in_progress_projects"`
	AvgProgress        float64                 `json:"avg_progress"`
	AvgRiskScore       float64                 `json:"avg_risk_score"`
	CriticalOrders     int                     `json:"critical_orders"`
	ProcessEfficiency  map[string]float64      `json:"process_efficiency"`
	ProcessDelays      map[string]float64      `json:"process_delays"`
	Bottleneck         engine.Bottleneck       `json:"bottleneck"`
	ProjectRisks       engine.RiskDistribution `json:"project_risks"`
	Recommendations    []engine.Recommendation `json:"recommendations"`
}

// AnalyzeAll 跨订单与项目的全局分析
func (s *AnalysisService) AnalyzeAll(ctx context.Context, asOf time.Time) (*CombinedAnalysis, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := s.settings.Targets(ctx)
	if err != nil {
		return nil, err
	}

	if asOf.IsZero() {
		asOf = s.now()
	}
	result := &CombinedAnalysis{
		TotalOrders:   len(orders),
		TotalProjects: len(projects),
	}

	for i := range orders {
		o := &orders[i]
		switch o.CurrentStatus {
		case entity.OrderStatusCompleted:
			result.CompletedOrders++
		case entity.OrderStatusInProgress:
			result.InProgressOrders++
		default:
			result.PendingOrders++
		}
		if o.RiskLevel == entity.RiskCritical {
			result.CriticalOrders++
		}
		result.AvgProgress += float64(o.Progress)
		result.AvgRiskScore += float64(o.RiskScore)
	}
	if len(orders) > 0 {
		result.AvgProgress /= float64(len(orders))
		result.AvgRiskScore /= float64(len(orders))
	}

	byProject := make(map[string][]entity.Order)
	for i := range orders {
		if orders[i].ProjectID != nil {
			byProject[*orders[i].ProjectID] = append(byProject[*orders[i].ProjectID], orders[i])
		}
	}
	for i := range projects {
		p := &projects[i]
		switch p.Status {
		case entity.ProjectStatusCompleted:
			result.CompletedProjects++
		case entity.ProjectStatusInProgress:
			result.InProgressProjects++
		}
		assessment, err := engine.AssessProjectRisk(p, byProject[p.ProjectID], asOf)
		if err != nil {
			return nil, err
		}
		result.ProjectRisks.Add(assessment.RiskLevel)
	}

	result.ProcessEfficiency = engine.CombinedEfficiency(orders, targets, entity.ProcessCatalog)
	result.ProcessDelays = engine.AnalyzeBottlenecks(orders, targets, entity.ProcessCatalog)
	result.Bottleneck = engine.DetectBottleneck(orders, entity.ProcessCatalog)
	result.Recommendations = engine.CombinedRecommendations(result.AvgRiskScore, result.ProcessDelays, result.ProjectRisks, entity.ProcessCatalog)

	return result, nil
}

// DashboardSummary 看板摘要
type DashboardSummary struct {
	TotalOrders      int               `json:"total_orders"`
	TotalProjects    int               `json:"total_projects"`
	CompletedOrders  int               `json:"completed_orders"`
	InProgressOrders int               `json:"in_progress_orders"`
	PendingOrders    int               `json:"pending_orders"`
	CriticalOrders   int               `json:"critical_orders"`
	AvgProgress      float64           `json:"avg_progress"`
	Bottleneck       engine.Bottleneck `json:"bottleneck"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// Dashboard 看板摘要。结果在Redis中缓存30秒，看板轮询不打满数据库。
func (s *AnalysisService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	if s.rdb != nil {
		// 缓存失败时直接回源
		if cached, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var summary DashboardSummary
			if json.Unmarshal([]byte(cached), &summary) == nil {
				return &summary, nil
			}
		}
	}

	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TotalOrders:   len(orders),
		TotalProjects: len(projects),
		GeneratedAt:   s.now(),
	}
	for i := range orders {
		switch orders[i].CurrentStatus {
		case entity.OrderStatusCompleted:
			summary.CompletedOrders++
		case entity.OrderStatusInProgress:
			summary.InProgressOrders++
		default:
			summary.PendingOrders++
		}
		if orders[i].RiskLevel == entity.RiskCritical {
			summary.CriticalOrders++
		}
		summary.AvgProgress += float64(orders[i].Progress)
	}
	if len(orders) > 0 {
		summary.AvgProgress /= float64(len(orders))
	}
	summary.Bottleneck = engine.DetectBottleneck(orders, entity.ProcessCatalog)

	if s.rdb != nil {
		if data, err := json.Marshal(summary); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, data, dashboardCacheTTL)
		}
	}
	return summary, nil
}
