package generator

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/errors"
	"github.com/zhiban/zhiban/pkg/logger"
	"github.com/zhiban/zhiban/pkg/model"
)

// DefaultWeekendCap 每人每月周末班次上限
const DefaultWeekendCap = 2

// Options 生成选项
type Options struct {
	WeekendCap int             `json:"weekend_cap"`
	ShiftType  model.ShiftType `json:"shift_type"`
}

// DefaultOptions 返回默认生成选项
func DefaultOptions() Options {
	return Options{
		WeekendCap: DefaultWeekendCap,
		ShiftType:  model.ShiftType24h,
	}
}

// normalized 填充零值选项
func (o Options) normalized() Options {
	if o.WeekendCap <= 0 {
		o.WeekendCap = DefaultWeekendCap
	}
	if o.ShiftType == "" {
		o.ShiftType = model.ShiftType24h
	}
	return o
}

// DepartmentInput 单科室生成输入
// 人员与已有班次均已按科室过滤，引擎运行期间视为不可变快照。
type DepartmentInput struct {
	HospitalID uuid.UUID
	Department model.Department
	Year       int
	Month      time.Month
	Staff      []*model.StaffMember
	Existing   []*model.ExistingShift
	Options    Options
}

// DepartmentResult 单科室生成结果
type DepartmentResult struct {
	Shifts []*model.GeneratedShift `json:"shifts"`
	Stats  model.DepartmentStats   `json:"stats"`
}

// Engine 值班生成引擎
// 对一个科室的一个自然月做逐日推进：先兑现预约，再周末优先贪心填充，
// 最后填充工作日；无人可排的日期记入统计而不是报错。
type Engine struct {
	logger *logger.GeneratorLogger
}

// NewEngine 创建生成引擎
func NewEngine() *Engine {
	return &Engine{
		logger: logger.NewGeneratorLogger(),
	}
}

// shiftNamespace 生成班次ID的命名空间
// ID 由 医院+科室+日期+类型 派生，相同输入重放时产出完全一致。
var shiftNamespace = uuid.MustParse("8f1c9a52-304e-4f3b-9d27-61b5ce0d7a14")

// shiftID 派生确定性班次ID
func shiftID(hospitalID uuid.UUID, dept model.Department, date string, shiftType model.ShiftType) uuid.UUID {
	key := fmt.Sprintf("%s/%s/%s/%s", hospitalID, dept, date, shiftType)
	return uuid.NewSHA1(shiftNamespace, []byte(key))
}

// Run 生成单科室单月的值班表
// 唯一的致命错误是预约撞班（数据完整性问题）；其余异常均作为
// 诊断信息进入统计结果。
func (e *Engine) Run(ctx context.Context, in *DepartmentInput) (*DepartmentResult, error) {
	if in.Month < time.January || in.Month > time.December {
		return nil, errors.InvalidMonth(in.Year, int(in.Month))
	}

	opts := in.Options.normalized()
	dates := model.MonthDates(in.Year, in.Month)

	result := &DepartmentResult{
		Shifts: make([]*model.GeneratedShift, 0, len(dates)),
		Stats: model.DepartmentStats{
			Department:      in.Department,
			Enabled:         true,
			DaysInMonth:     len(dates),
			ShiftsNeeded:    len(dates),
			UnassignedDates: make([]string, 0),
		},
	}

	// 人员累计器：回放本月已有班次，派生运行计数
	states := make([]*staffState, 0, len(in.Staff))
	stateByID := make(map[uuid.UUID]*staffState, len(in.Staff))
	for _, m := range in.Staff {
		s := newStaffState(m)
		states = append(states, s)
		stateByID[m.ID] = s
	}

	// existingHolder 已有班次的占用人；generated 本轮新生成的占用
	existingHolder := make(map[string]uuid.UUID)
	generated := make(map[string]bool)
	for _, ex := range in.Existing {
		if !model.InMonth(ex.Date, in.Year, in.Month) {
			continue
		}
		existingHolder[ex.Date] = ex.StaffID
		if s, ok := stateByID[ex.StaffID]; ok {
			s.addShift(ex.Date, model.IsWeekend(ex.Date))
		}
	}

	if len(in.Staff) == 0 {
		result.Stats.Diagnostics = append(result.Stats.Diagnostics,
			fmt.Sprintf("科室 %s 无在册人员", in.Department))
	}

	// 阶段1：兑现预约
	// 预约代表既有承诺，不经过合格性过滤；撞班是唯一致命错误。
	for _, s := range states {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		for _, date := range s.member.ReservedDates {
			if !model.InMonth(date, in.Year, in.Month) {
				continue
			}

			if holder, ok := existingHolder[date]; ok {
				if holder == s.member.ID {
					// 预约已由既有班次兑现
					continue
				}
				reason := "该日期已有他人班次"
				result.Stats.Diagnostics = append(result.Stats.Diagnostics,
					fmt.Sprintf("人员 %s 在 %s 的预约未被采纳: %s", s.member.Name, date, reason))
				e.logger.ReservationSkipped(string(in.Department), s.member.Name, date, reason)
				continue
			}

			if generated[date] {
				return nil, errors.ScheduleConflict(s.member.Name, date, "预约与本轮已生成的班次重复")
			}

			isWeekend := model.IsWeekend(date)
			result.Shifts = append(result.Shifts, &model.GeneratedShift{
				ID:         shiftID(in.HospitalID, in.Department, date, opts.ShiftType),
				HospitalID: in.HospitalID,
				StaffID:    s.member.ID,
				StaffName:  s.member.Name,
				Department: in.Department,
				Date:       date,
				Type:       opts.ShiftType,
				Reserved:   true,
			})
			generated[date] = true
			s.addShift(date, isWeekend)
		}
	}

	// 预约兑现后的候选日快照
	covered := make(map[string]bool, len(existingHolder)+len(generated))
	for d := range existingHolder {
		covered[d] = true
	}
	for d := range generated {
		covered[d] = true
	}
	candidates := model.BuildCandidateDays(in.Year, in.Month, covered)

	// 阶段2：周末优先贪心填充
	// 周末合格性最紧（上限更低、休息规则相同），趁多数人未达上限
	// 先填周末，把约束更松的工作日留到最后。
	for _, cd := range candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !cd.IsWeekend || cd.Covered {
			continue
		}
		e.fillDay(in, opts, states, cd.Date, true, result)
	}

	// 阶段3：工作日填充（升序）
	for _, cd := range candidates {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if cd.IsWeekend || cd.Covered {
			continue
		}
		e.fillDay(in, opts, states, cd.Date, false, result)
	}

	sort.Strings(result.Stats.UnassignedDates)
	sort.Slice(result.Shifts, func(i, j int) bool {
		return result.Shifts[i].Date < result.Shifts[j].Date
	})

	result.Stats.ShiftsGenerated = len(result.Shifts)
	e.logger.DepartmentDone(string(in.Department), result.Stats.ShiftsGenerated, len(result.Stats.UnassignedDates))

	return result, nil
}

// fillDay 为单个未覆盖日期挑选值班人
func (e *Engine) fillDay(
	in *DepartmentInput,
	opts Options,
	states []*staffState,
	date string,
	isWeekend bool,
	result *DepartmentResult,
) {
	eligible := eligibleStates(states, date, isWeekend, opts.WeekendCap)
	if len(eligible) == 0 {
		result.Stats.UnassignedDates = append(result.Stats.UnassignedDates, date)
		e.logger.UnassignedDate(string(in.Department), date)
		return
	}

	pick := rankEligible(eligible, isWeekend)[0]
	result.Shifts = append(result.Shifts, &model.GeneratedShift{
		ID:         shiftID(in.HospitalID, in.Department, date, opts.ShiftType),
		HospitalID: in.HospitalID,
		StaffID:    pick.member.ID,
		StaffName:  pick.member.Name,
		Department: in.Department,
		Date:       date,
		Type:       opts.ShiftType,
	})
	pick.addShift(date, isWeekend)
}
