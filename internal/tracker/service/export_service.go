package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/javaconnection/furnitrack/internal/tracker/engine"
	"github.com/javaconnection/furnitrack/internal/tracker/entity"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
)

// ExportService 导出服务
type ExportService struct {
	orders   *repository.OrderRepository
	projects *repository.ProjectRepository
	settings *SettingsService
	now      func() time.Time
}

// NewExportService 创建导出服务
func NewExportService(orders *repository.OrderRepository, projects *repository.ProjectRepository, settings *SettingsService) *ExportService {
	return &ExportService{
		orders:   orders,
		projects: projects,
		settings: settings,
		now:      time.Now,
	}
}

var orderExportHeaders = []string{
	"Order ID", "Customer", "Product", "Quantity", "Order Date", "Target Date",
	"Project", "PIC", "Status", "Priority", "Progress (%)", "Risk Level", "Risk Score", "Defects",
}

var projectExportHeaders = []string{
	"Project ID", "Name", "Client", "Manager", "Start Date", "End Date", "Status", "Orders",
}

var efficiencyExportHeaders = []string{
	"Process", "Target Time (h)", "Target Quality (%)", "Target Output (%)", "Avg Efficiency (%)",
}

// Workbook 导出完整工作簿：订单、项目与效率三个工作表
func (s *ExportService) Workbook(ctx context.Context) (*excelize.File, string, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list orders: %w", err)
	}
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("list projects: %w", err)
	}
	targets, err := s.settings.Targets(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()

	// 表头样式: 加粗
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	writeHeaders := func(sheet string, headers []string) {
		for i, h := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			cell := col + "1"
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, boldStyle)
		}
	}

	// 订单表
	ordersSheet := "Orders"
	f.SetSheetName("Sheet1", ordersSheet)
	writeHeaders(ordersSheet, orderExportHeaders)
	for rowIdx := range orders {
		o := &orders[rowIdx]
		row := rowIdx + 2
		projectID := ""
		if o.ProjectID != nil {
			projectID = *o.ProjectID
		}
		f.SetCellValue(ordersSheet, fmt.Sprintf("A%d", row), o.OrderID)
		f.SetCellValue(ordersSheet, fmt.Sprintf("B%d", row), o.CustomerName)
		f.SetCellValue(ordersSheet, fmt.Sprintf("C%d", row), o.ProductDescription)
		f.SetCellValue(ordersSheet, fmt.Sprintf("D%d", row), o.Quantity)
		f.SetCellValue(ordersSheet, fmt.Sprintf("E%d", row), o.OrderDate.Format(dateLayout))
		f.SetCellValue(ordersSheet, fmt.Sprintf("F%d", row), o.TargetDate.Format(dateLayout))
		f.SetCellValue(ordersSheet, fmt.Sprintf("G%d", row), projectID)
		f.SetCellValue(ordersSheet, fmt.Sprintf("H%d", row), o.PICName)
		f.SetCellValue(ordersSheet, fmt.Sprintf("I%d", row), o.CurrentStatus)
		f.SetCellValue(ordersSheet, fmt.Sprintf("J%d", row), o.Priority)
		f.SetCellValue(ordersSheet, fmt.Sprintf("K%d", row), o.Progress)
		f.SetCellValue(ordersSheet, fmt.Sprintf("L%d", row), o.RiskLevel)
		f.SetCellValue(ordersSheet, fmt.Sprintf("M%d", row), o.RiskScore)
		f.SetCellValue(ordersSheet, fmt.Sprintf("N%d", row), o.TotalDefects())
	}

	// 项目表
	projectsSheet := "Projects"
	f.NewSheet(projectsSheet)
	writeHeaders(projectsSheet, projectExportHeaders)
	orderCount := make(map[string]int)
	for i := range orders {
		if orders[i].ProjectID != nil {
			orderCount[*orders[i].ProjectID]++
		}
	}
	for rowIdx := range projects {
		p := &projects[rowIdx]
		row := rowIdx + 2
		f.SetCellValue(projectsSheet, fmt.Sprintf("A%d", row), p.ProjectID)
		f.SetCellValue(projectsSheet, fmt.Sprintf("B%d", row), p.ProjectName)
		f.SetCellValue(projectsSheet, fmt.Sprintf("C%d", row), p.Client)
		f.SetCellValue(projectsSheet, fmt.Sprintf("D%d", row), p.ProjectManager)
		f.SetCellValue(projectsSheet, fmt.Sprintf("E%d", row), p.StartDate.Format(dateLayout))
		f.SetCellValue(projectsSheet, fmt.Sprintf("F%d", row), p.EndDate.Format(dateLayout))
		f.SetCellValue(projectsSheet, fmt.Sprintf("G%d", row), p.Status)
		f.SetCellValue(projectsSheet, fmt.Sprintf("H%d", row), orderCount[p.ProjectID])
	}

	// 效率表
	efficiencySheet := "Efficiency"
	f.NewSheet(efficiencySheet)
	writeHeaders(efficiencySheet, efficiencyExportHeaders)
	combined := engine.CombinedEfficiency(orders, targets, entity.ProcessCatalog)
	for rowIdx, p := range entity.ProcessCatalog {
		row := rowIdx + 2
		target := targets.TargetFor(p.ID)
		f.SetCellValue(efficiencySheet, fmt.Sprintf("A%d", row), p.Name)
		f.SetCellValue(efficiencySheet, fmt.Sprintf("B%d", row), target.TargetTime)
		f.SetCellValue(efficiencySheet, fmt.Sprintf("C%d", row), target.TargetQuality)
		f.SetCellValue(efficiencySheet, fmt.Sprintf("D%d", row), target.TargetOutput)
		f.SetCellValue(efficiencySheet, fmt.Sprintf("E%d", row), combined[p.ID])
	}

	filename := fmt.Sprintf("Java_Connection_Production_%s.xlsx", s.now().Format("20060102"))
	return f, filename, nil
}

// BackupData 完整数据备份
type BackupData struct {
	ExportedAt time.Time        `json:"exported_at"`
	Orders     []entity.Order   `json:"orders"`
	Projects   []entity.Project `json:"projects"`
	Settings   *entity.Settings `json:"settings"`
}

// Backup 导出全部数据为JSON备份
func (s *ExportService) Backup(ctx context.Context) (*BackupData, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &BackupData{
		ExportedAt: s.now(),
		Orders:     orders,
		Projects:   projects,
		Settings:   settings,
	}, nil
}
