package generator

// eligibleStates 返回指定日期合法可排的人员子集
//
// 人员合格的条件（全部满足）：
//  1. 当日不在其不可值班日期内
//  2. 当日没有已有或本轮新生成的班次
//  3. 前后一天均无班次（禁止连班）
//  4. 周末时，其周末班次数未达上限
//
// 降级规则：若当日全员都被标记不可值班，统一降级为
// "当日无班次即可"，避免整月被永久卡死；降级对全员一致生效，
// 而不是逐人判断。
func eligibleStates(states []*staffState, date string, isWeekend bool, weekendCap int) []*staffState {
	if len(states) == 0 {
		return nil
	}

	allUnavailable := true
	for _, s := range states {
		if !s.unavailable[date] {
			allUnavailable = false
			break
		}
	}

	eligible := make([]*staffState, 0, len(states))
	for _, s := range states {
		if allUnavailable {
			if !s.hasShiftOn(date) {
				eligible = append(eligible, s)
			}
			continue
		}

		if s.unavailable[date] {
			continue
		}
		if s.hasShiftOn(date) {
			continue
		}
		if s.restViolated(date) {
			continue
		}
		if isWeekend && s.weekendShifts >= weekendCap {
			continue
		}

		eligible = append(eligible, s)
	}

	return eligible
}
