// Package generator 提供按月值班表生成引擎
package generator

import (
	"github.com/zhiban/zhiban/pkg/model"
)

// staffState 单次生成内某位人员的可变累计器
// 由一次引擎调用独占，运行开始时重置，绝不跨科室并行运行共享。
type staffState struct {
	member        *model.StaffMember
	shifts        int
	weekendShifts int

	// dates 已承诺（快照内已有）与本轮新生成的值班日期
	dates map[string]bool

	// unavailable 本月不可值班日期
	unavailable map[string]bool
}

// newStaffState 创建人员累计器
// 计数器以快照携带的月中结转值为基数，已有班次随后由引擎回放叠加。
func newStaffState(m *model.StaffMember) *staffState {
	s := &staffState{
		member:        m,
		shifts:        m.AssignedShifts,
		weekendShifts: m.AssignedWeekendShifts,
		dates:         make(map[string]bool),
		unavailable:   make(map[string]bool, len(m.UnavailableDates)),
	}

	// 上月末班日参与连班检查（跨月边界的休息规则）
	if m.LastAssignedDate != "" {
		s.dates[m.LastAssignedDate] = true
	}

	for _, d := range m.UnavailableDates {
		s.unavailable[d] = true
	}

	return s
}

// addShift 记录一次值班并更新计数器
func (s *staffState) addShift(date string, isWeekend bool) {
	s.dates[date] = true
	s.shifts++
	if isWeekend {
		s.weekendShifts++
	}
}

// hasShiftOn 检查当日是否已有班次
func (s *staffState) hasShiftOn(date string) bool {
	return s.dates[date]
}

// restViolated 检查是否与前后一天的班次相邻（禁止连班，双向检查）
func (s *staffState) restViolated(date string) bool {
	return s.dates[model.PreviousDay(date)] || s.dates[model.NextDay(date)]
}
