package generator

import (
	"testing"
)

func TestRankEligible_Weekday(t *testing.T) {
	heavy := makeState("heavy")
	heavy.shifts = 5
	light := makeState("light")
	light.shifts = 2

	ranked := rankEligible([]*staffState{heavy, light}, false)

	if ranked[0] != light {
		t.Error("Weekday ranking should put the lighter load first")
	}
}

func TestRankEligible_WeekendPrimaryKey(t *testing.T) {
	// 周末主序为周末班次数，即便总班次更多
	fewWeekends := makeState("few")
	fewWeekends.shifts = 6
	fewWeekends.weekendShifts = 0

	manyWeekends := makeState("many")
	manyWeekends.shifts = 2
	manyWeekends.weekendShifts = 2

	ranked := rankEligible([]*staffState{manyWeekends, fewWeekends}, true)

	if ranked[0] != fewWeekends {
		t.Error("Weekend ranking should order by weekend shifts before total shifts")
	}

	// 同样的两人在工作日按总班次排序
	ranked = rankEligible([]*staffState{manyWeekends, fewWeekends}, false)
	if ranked[0] != manyWeekends {
		t.Error("Weekday ranking should order by total shifts only")
	}
}

func TestRankEligible_WeekendTieBreak(t *testing.T) {
	a := makeState("A")
	a.weekendShifts = 1
	a.shifts = 3
	b := makeState("B")
	b.weekendShifts = 1
	b.shifts = 1

	ranked := rankEligible([]*staffState{a, b}, true)

	if ranked[0] != b {
		t.Error("Equal weekend counts should fall back to total shifts")
	}
}

func TestRankEligible_StableOnFullTie(t *testing.T) {
	first := makeState("first")
	second := makeState("second")
	third := makeState("third")

	ranked := rankEligible([]*staffState{first, second, third}, true)

	// 完全平局保持输入顺序，保证结果可复现
	if ranked[0] != first || ranked[1] != second || ranked[2] != third {
		t.Error("Full tie should preserve input order")
	}
}

func TestRankEligible_DoesNotMutateInput(t *testing.T) {
	a := makeState("A")
	a.shifts = 9
	b := makeState("B")

	input := []*staffState{a, b}
	rankEligible(input, false)

	if input[0] != a || input[1] != b {
		t.Error("Ranking should not reorder the caller's slice")
	}
}
