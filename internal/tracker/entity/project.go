package entity

import (
	"time"
)

// Project 状态
const (
	ProjectStatusPlanning   = "planning"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCompleted  = "completed"
)

// Project 客户项目实体。订单通过 project_id 弱引用项目。
type Project struct {
	ProjectID          string    `json:"project_id" gorm:"primaryKey;size:32"`
	ProjectName        string    `json:"project_name" gorm:"size:128;not null"`
	ProjectDescription string    `json:"project_description" gorm:"type:text"`
	StartDate          time.Time `json:"start_date" gorm:"type:date"`
	EndDate            time.Time `json:"end_date" gorm:"type:date"`
	Client             string    `json:"client" gorm:"size:128"`
	ProjectManager     string    `json:"project_manager" gorm:"size:64"`
	Status             string    `json:"status" gorm:"size:16;not null;default:planning"`
	Notes              string    `json:"notes" gorm:"type:text"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
