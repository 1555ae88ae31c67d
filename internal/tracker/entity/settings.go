package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// ProcessTarget 单工序效率目标
type ProcessTarget struct {
	TargetTime    float64 `json:"targetTime"`    // hours
	TargetQuality float64 `json:"targetQuality"` // percent
	TargetOutput  float64 `json:"targetOutput"`  // percent
}

// EfficiencyTargets maps process id to its target, stored as jsonb.
type EfficiencyTargets map[string]ProcessTarget

func (t EfficiencyTargets) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

func (t *EfficiencyTargets) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			b = []byte(s)
		} else {
			return errors.New("efficiency targets: unsupported scan type")
		}
	}
	return json.Unmarshal(b, t)
}

// TargetFor returns the target for a process id. Unknown processes get a flat
// 2h baseline so delay math never divides against a missing target.
func (t EfficiencyTargets) TargetFor(id string) ProcessTarget {
	if target, ok := t[id]; ok {
		return target
	}
	return ProcessTarget{TargetTime: 2, TargetQuality: 95, TargetOutput: 90}
}

// Settings 全局配置：效率目标、公司信息、Logo。单行表。
type Settings struct {
	ID          int               `json:"-" gorm:"primaryKey"`
	Efficiency  EfficiencyTargets `json:"efficiency" gorm:"type:jsonb"`
	CompanyName string            `json:"company_name" gorm:"size:128"`
	Address     string            `json:"address" gorm:"size:256"`
	Phone       string            `json:"phone" gorm:"size:32"`
	Email       string            `json:"email" gorm:"size:128"`
	LogoIcon    string            `json:"logo_icon" gorm:"size:32"`
	LogoURL     string            `json:"logo_url" gorm:"size:512"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings 默认效率目标，来自车间的标准工时
func DefaultSettings() *Settings {
	return &Settings{
		ID: 1,
		Efficiency: EfficiencyTargets{
			ProcessWarehouseIn:  {TargetTime: 2, TargetQuality: 99, TargetOutput: 100},
			ProcessSanding:      {TargetTime: 4, TargetQuality: 95, TargetOutput: 90},
			ProcessAssembly:     {TargetTime: 6, TargetQuality: 97, TargetOutput: 95},
			ProcessColoring:     {TargetTime: 3, TargetQuality: 98, TargetOutput: 92},
			ProcessAccessories:  {TargetTime: 2, TargetQuality: 96, TargetOutput: 94},
			ProcessWelding:      {TargetTime: 5, TargetQuality: 95, TargetOutput: 88},
			ProcessInspection:   {TargetTime: 1, TargetQuality: 100, TargetOutput: 100},
			ProcessCoating:      {TargetTime: 4, TargetQuality: 97, TargetOutput: 90},
			ProcessPackaging:    {TargetTime: 2, TargetQuality: 99, TargetOutput: 98},
			ProcessWarehouseOut: {TargetTime: 1, TargetQuality: 100, TargetOutput: 100},
		},
		CompanyName: "Java Connection",
		Address:     "Jakarta, Indonesia",
		Phone:       "+62 21 1234 5678",
		Email:       "info@javaconnection.com",
		LogoIcon:    "industry",
	}
}
