// Package validator 提供值班表事后校验功能
package validator

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/department"
	"github.com/zhiban/zhiban/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictDoubleBooking      ConflictType = "double_booking"      // 同日多班
	ConflictBackToBack         ConflictType = "back_to_back"        // 连班
	ConflictWeekendCap         ConflictType = "weekend_cap"         // 超过周末上限
	ConflictDepartmentMismatch ConflictType = "department_mismatch" // 班次科室与人员科室不符
	ConflictUnavailable        ConflictType = "unavailable"         // 不可值班日被排班
)

// Conflict 冲突信息
type Conflict struct {
	Type     ConflictType `json:"type"`
	Severity string       `json:"severity"` // error/warning
	StaffID  uuid.UUID    `json:"staff_id"`
	Date     string       `json:"date,omitempty"`
	Message  string       `json:"message"`
}

// DetectorConfig 检测器配置
type DetectorConfig struct {
	WeekendCap          int  // 每人每月周末班次上限
	CheckUnavailability bool // 是否检查不可值班日
}

// DefaultDetectorConfig 返回默认配置
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		WeekendCap:          2,
		CheckUnavailability: true,
	}
}

// ConflictDetector 冲突检测器
// 对已完成的值班表做不变式校验，仅用于事后审计，不参与生成过程。
type ConflictDetector struct {
	config     *DetectorConfig
	normalizer *department.Normalizer
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(config *DetectorConfig, n *department.Normalizer) *ConflictDetector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	if n == nil {
		n = department.NewNormalizer(department.Config{})
	}
	return &ConflictDetector{config: config, normalizer: n}
}

// DetectAll 检测所有冲突
func (d *ConflictDetector) DetectAll(shifts []*model.GeneratedShift, staff map[uuid.UUID]*model.StaffMember) []Conflict {
	var conflicts []Conflict

	byStaff := make(map[uuid.UUID][]*model.GeneratedShift)
	for _, sh := range shifts {
		byStaff[sh.StaffID] = append(byStaff[sh.StaffID], sh)
	}

	// 遍历顺序确定化
	ids := make([]uuid.UUID, 0, len(byStaff))
	for id := range byStaff {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		own := byStaff[id]
		m := staff[id]

		conflicts = append(conflicts, d.detectDoubleBooking(id, own)...)
		conflicts = append(conflicts, d.detectBackToBack(id, own)...)
		conflicts = append(conflicts, d.detectWeekendCap(id, own)...)

		if m != nil {
			conflicts = append(conflicts, d.detectDepartmentMismatch(m, own)...)
			if d.config.CheckUnavailability {
				conflicts = append(conflicts, d.detectUnavailable(m, own)...)
			}
		}
	}

	return conflicts
}

// detectDoubleBooking 检测同日多班
func (d *ConflictDetector) detectDoubleBooking(id uuid.UUID, shifts []*model.GeneratedShift) []Conflict {
	var conflicts []Conflict
	byDate := make(map[string]int)
	for _, sh := range shifts {
		byDate[sh.Date]++
	}

	dates := sortedDates(byDate)
	for _, date := range dates {
		if byDate[date] > 1 {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictDoubleBooking,
				Severity: "error",
				StaffID:  id,
				Date:     date,
				Message:  fmt.Sprintf("同一人员在 %s 有 %d 个班次", date, byDate[date]),
			})
		}
	}
	return conflicts
}

// detectBackToBack 检测相邻日期连班
func (d *ConflictDetector) detectBackToBack(id uuid.UUID, shifts []*model.GeneratedShift) []Conflict {
	var conflicts []Conflict
	dates := make(map[string]bool, len(shifts))
	for _, sh := range shifts {
		dates[sh.Date] = true
	}

	for _, date := range sortedDateSet(dates) {
		next := model.NextDay(date)
		if dates[next] {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictBackToBack,
				Severity: "error",
				StaffID:  id,
				Date:     next,
				Message:  fmt.Sprintf("人员在 %s 与 %s 连续值班", date, next),
			})
		}
	}
	return conflicts
}

// detectWeekendCap 检测周末班次超限
func (d *ConflictDetector) detectWeekendCap(id uuid.UUID, shifts []*model.GeneratedShift) []Conflict {
	weekendCount := 0
	for _, sh := range shifts {
		if sh.IsWeekendShift() {
			weekendCount++
		}
	}

	if weekendCount > d.config.WeekendCap {
		return []Conflict{{
			Type:     ConflictWeekendCap,
			Severity: "error",
			StaffID:  id,
			Message:  fmt.Sprintf("周末班次 %d 个，超过上限 %d", weekendCount, d.config.WeekendCap),
		}}
	}
	return nil
}

// detectDepartmentMismatch 检测班次科室与人员科室不一致
func (d *ConflictDetector) detectDepartmentMismatch(m *model.StaffMember, shifts []*model.GeneratedShift) []Conflict {
	staffDept, ok := d.normalizer.NormalizeStaff(m)
	if !ok {
		return nil
	}

	var conflicts []Conflict
	for _, sh := range shifts {
		if sh.Department != staffDept {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictDepartmentMismatch,
				Severity: "error",
				StaffID:  m.ID,
				Date:     sh.Date,
				Message: fmt.Sprintf("班次科室 %s 与人员 %s 的科室 %s 不符",
					sh.Department, m.Name, staffDept),
			})
		}
	}
	return conflicts
}

// detectUnavailable 检测不可值班日被排班
// 全员不可用降级与预约都可能合法触发，报告为警告而不是错误。
func (d *ConflictDetector) detectUnavailable(m *model.StaffMember, shifts []*model.GeneratedShift) []Conflict {
	var conflicts []Conflict
	for _, sh := range shifts {
		if sh.Reserved {
			continue
		}
		if m.IsUnavailable(sh.Date) {
			conflicts = append(conflicts, Conflict{
				Type:     ConflictUnavailable,
				Severity: "warning",
				StaffID:  m.ID,
				Date:     sh.Date,
				Message:  fmt.Sprintf("人员 %s 在不可值班日 %s 被排班", m.Name, sh.Date),
			})
		}
	}
	return conflicts
}

// HasErrors 检查冲突列表中是否存在错误级冲突
func HasErrors(conflicts []Conflict) bool {
	for _, c := range conflicts {
		if c.Severity == "error" {
			return true
		}
	}
	return false
}

// sortedDates 返回计数表的有序键
func sortedDates(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedDateSet 返回集合的有序键
func sortedDateSet(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
