// Package model 定义值班排班引擎的核心数据模型
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// GeneratedShift 本次生成产出的值班班次
// 引擎产出后不可变，由调用方写入值班存储（按 医院+科室+日期+类型 做幂等覆盖）。
type GeneratedShift struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	HospitalID uuid.UUID  `json:"hospital_id" db:"hospital_id"`
	StaffID    uuid.UUID  `json:"staff_id" db:"staff_id"`
	StaffName  string     `json:"staff_name" db:"staff_name"`
	Department Department `json:"department" db:"department"`
	Date       string     `json:"date" db:"date"` // YYYY-MM-DD
	Type       ShiftType  `json:"type" db:"type"`
	Reserved   bool       `json:"reserved" db:"reserved"` // 是否来自预约
}

// IsWeekendShift 检查是否为周末班次
func (g *GeneratedShift) IsWeekendShift() bool {
	return IsWeekend(g.Date)
}

// ExistingShift 目标月份已存在的值班记录
// Department 可能为空，此时需按值班人的科室标签推断归属。
type ExistingShift struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	HospitalID uuid.UUID  `json:"hospital_id" db:"hospital_id"`
	StaffID    uuid.UUID  `json:"staff_id" db:"staff_id"`
	Department Department `json:"department,omitempty" db:"department"`
	Date       string     `json:"date" db:"date"`
	Type       ShiftType  `json:"type" db:"type"`
}

// DepartmentSource 科室归属来源
type DepartmentSource string

const (
	SourceExplicit DepartmentSource = "explicit" // 班次记录自带科室
	SourceInferred DepartmentSource = "inferred" // 由值班人的科室标签推断
)

// ResolvedDepartment 带来源标记的科室归属
// 显式与推断分开记录，避免无声掩盖缺失的科室数据。
type ResolvedDepartment struct {
	Department Department       `json:"department"`
	Source     DepartmentSource `json:"source"`
}

// CandidateDay 候选值班日（派生数据，每次生成重新计算，不持久化）
type CandidateDay struct {
	Date      string `json:"date"`
	IsWeekend bool   `json:"is_weekend"`
	Covered   bool   `json:"covered"` // 已有班次或预约占用
}

// BuildCandidateDays 构建目标月份的候选值班日列表（升序）
func BuildCandidateDays(year int, month time.Month, covered map[string]bool) []CandidateDay {
	dates := MonthDates(year, month)
	days := make([]CandidateDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, CandidateDay{
			Date:      d,
			IsWeekend: IsWeekend(d),
			Covered:   covered[d],
		})
	}
	return days
}

// DepartmentStats 单科室生成统计
type DepartmentStats struct {
	Department      Department `json:"department"`
	Enabled         bool       `json:"enabled"`
	DaysInMonth     int        `json:"days_in_month"`
	ShiftsNeeded    int        `json:"shifts_needed"`
	ShiftsGenerated int        `json:"shifts_generated"`
	UnassignedDates []string   `json:"unassigned_dates"`
	Diagnostics     []string   `json:"diagnostics,omitempty"`
}

// GenerationStats 单次生成的汇总统计（仅用于上报，上报后即丢弃）
type GenerationStats struct {
	HospitalID      uuid.UUID         `json:"hospital_id"`
	Year            int               `json:"year"`
	Month           time.Month        `json:"month"`
	DaysInMonth     int               `json:"days_in_month"`
	ShiftsNeeded    int               `json:"shifts_needed"`
	ShiftsGenerated int               `json:"shifts_generated"`
	UnassignedDates []string          `json:"unassigned_dates"`
	FillRate        float64           `json:"fill_rate"` // 百分比
	Departments     []DepartmentStats `json:"departments"`
	Duration        time.Duration     `json:"duration"`
}

// MergeUnassigned 合并多个科室的未排日期（去重并升序）
func MergeUnassigned(sets ...[]string) []string {
	seen := make(map[string]bool)
	merged := make([]string, 0)
	for _, set := range sets {
		for _, d := range set {
			if !seen[d] {
				seen[d] = true
				merged = append(merged, d)
			}
		}
	}
	sort.Strings(merged)
	return merged
}
