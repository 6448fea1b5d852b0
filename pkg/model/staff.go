// Package model 定义值班排班引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// StaffMember 医护人员
// 由目录服务在生成开始前提供的只读快照；引擎内部的运行计数器
// 每次生成重置，不回写到该实体。
type StaffMember struct {
	BaseModel
	HospitalID uuid.UUID `json:"hospital_id" db:"hospital_id"`
	Name       string    `json:"name" db:"name"`
	Title      string    `json:"title,omitempty" db:"title"`

	// Department 目录服务提供的原始科室标签（可能含缩写、别名、变音符号）
	Department string `json:"department" db:"department"`

	// UnavailableDates 本月不可值班的日期集合 (YYYY-MM-DD)
	UnavailableDates []string `json:"unavailable_dates,omitempty" db:"-"`

	// ReservedDates 本人预约的值班日期（有序，优先于任何自动分配）
	ReservedDates []string `json:"reserved_dates,omitempty" db:"-"`

	// 上月结转的运行计数（月中重排时由目录服务提供）
	AssignedShifts        int    `json:"assigned_shifts" db:"-"`
	AssignedWeekendShifts int    `json:"assigned_weekend_shifts" db:"-"`
	LastAssignedDate      string `json:"last_assigned_date,omitempty" db:"-"`
}

// IsUnavailable 检查指定日期是否不可值班
func (s *StaffMember) IsUnavailable(date string) bool {
	for _, d := range s.UnavailableDates {
		if d == date {
			return true
		}
	}
	return false
}

// HasReservation 检查指定日期是否被本人预约
func (s *StaffMember) HasReservation(date string) bool {
	for _, d := range s.ReservedDates {
		if d == date {
			return true
		}
	}
	return false
}
