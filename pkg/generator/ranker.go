package generator

import (
	"sort"
)

// rankEligible 按负载升序排列合格人员
//
// 周末主序为周末班次数、次序为总班次数；工作日仅按总班次数。
// 使用稳定排序，平局保持输入顺序，保证给定相同输入时结果可复现。
// 引擎总是选取排序结果的第一个。
func rankEligible(states []*staffState, isWeekend bool) []*staffState {
	ranked := make([]*staffState, len(states))
	copy(ranked, states)

	sort.SliceStable(ranked, func(i, j int) bool {
		if isWeekend && ranked[i].weekendShifts != ranked[j].weekendShifts {
			return ranked[i].weekendShifts < ranked[j].weekendShifts
		}
		return ranked[i].shifts < ranked[j].shifts
	})

	return ranked
}
