// Package model 定义值班排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Department 规范科室（封闭集合）
type Department string

const (
	DeptInterne    Department = "interne"    // 内科
	DeptChirurgie  Department = "chirurgie"  // 外科
	DeptPediatrie  Department = "pediatrie"  // 儿科
	DeptATI        Department = "ati"        // 麻醉与重症监护
	DeptLaborator  Department = "laborator"  // 检验科
	DeptRadiologie Department = "radiologie" // 放射科

	// DeptUnresolved 无法归类的科室标签
	DeptUnresolved Department = "unassigned"
)

// AllDepartments 返回规范科室的固定枚举（顺序固定，保证结果确定性）
func AllDepartments() []Department {
	return []Department{
		DeptInterne,
		DeptChirurgie,
		DeptPediatrie,
		DeptATI,
		DeptLaborator,
		DeptRadiologie,
	}
}

// IsCanonical 检查是否为规范科室
func (d Department) IsCanonical() bool {
	switch d {
	case DeptInterne, DeptChirurgie, DeptPediatrie, DeptATI, DeptLaborator, DeptRadiologie:
		return true
	}
	return false
}

// ShiftType 值班班次类型
type ShiftType string

const (
	ShiftType24h   ShiftType = "24h"   // 标准24小时值班
	ShiftTypeDay   ShiftType = "day"   // 白班
	ShiftTypeNight ShiftType = "night" // 夜班
)

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DateLayout 日期格式 YYYY-MM-DD
const DateLayout = "2006-01-02"

// IsWeekend 判断日期是否为周末
func IsWeekend(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// PreviousDay 获取前一天日期
func PreviousDay(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// NextDay 获取后一天日期
func NextDay(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, 1).Format(DateLayout)
}

// DaysInMonth 返回指定月份的天数
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthDates 返回指定月份的全部日期（升序）
func MonthDates(year int, month time.Month) []string {
	days := DaysInMonth(year, month)
	dates := make([]string, 0, days)
	for d := 1; d <= days; d++ {
		dates = append(dates, time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(DateLayout))
	}
	return dates
}

// InMonth 检查日期是否属于指定月份
func InMonth(date string, year int, month time.Month) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return t.Year() == year && t.Month() == month
}
