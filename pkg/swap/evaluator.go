// Package swap 提供值班换班推荐功能
package swap

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
)

// Context 换班评估上下文
// 一个科室一个月的只读快照：花名册与当前值班表。
type Context struct {
	Staff  []*model.StaffMember
	Shifts []*model.GeneratedShift

	WeekendCap int

	shiftsByStaff map[uuid.UUID][]*model.GeneratedShift
	shiftsByDate  map[string]*model.GeneratedShift
}

// NewContext 创建换班评估上下文
func NewContext(staff []*model.StaffMember, shifts []*model.GeneratedShift, weekendCap int) *Context {
	ctx := &Context{
		Staff:         staff,
		Shifts:        shifts,
		WeekendCap:    weekendCap,
		shiftsByStaff: make(map[uuid.UUID][]*model.GeneratedShift),
		shiftsByDate:  make(map[string]*model.GeneratedShift),
	}
	if ctx.WeekendCap <= 0 {
		ctx.WeekendCap = 2
	}
	for _, s := range shifts {
		ctx.shiftsByStaff[s.StaffID] = append(ctx.shiftsByStaff[s.StaffID], s)
		ctx.shiftsByDate[s.Date] = s
	}
	return ctx
}

// StaffShifts 返回某人当前的全部班次
func (c *Context) StaffShifts(staffID uuid.UUID) []*model.GeneratedShift {
	return c.shiftsByStaff[staffID]
}

// ShiftOn 返回某日期的班次
func (c *Context) ShiftOn(date string) *model.GeneratedShift {
	return c.shiftsByDate[date]
}

// Request 换班请求
// TargetDate 为空表示接班（目标人员接下源班次），否则为互换。
type Request struct {
	SourceShift *model.GeneratedShift
	Target      *model.StaffMember
	TargetDate  string
}

// Issue 换班问题
type Issue struct {
	Severity string `json:"severity"` // error/warning
	Message  string `json:"message"`
}

// Evaluation 换班评估结果
type Evaluation struct {
	Feasible bool    `json:"feasible"`
	Score    float64 `json:"score"` // 0-100
	Issues   []Issue `json:"issues,omitempty"`
}

// Evaluator 换班评估器
// 套用与生成引擎相同的硬性规则：当日一班、禁止连班、周末上限，
// 不可值班日作为警告而不是硬性阻断。
type Evaluator struct{}

// NewEvaluator 创建换班评估器
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate 评估一次换班
func (e *Evaluator) Evaluate(ctx *Context, req *Request) *Evaluation {
	eval := &Evaluation{Feasible: true, Score: 100}

	if req.SourceShift == nil || req.Target == nil {
		eval.Feasible = false
		eval.Score = 0
		eval.Issues = append(eval.Issues, Issue{Severity: "error", Message: "换班请求不完整"})
		return eval
	}
	if req.SourceShift.StaffID == req.Target.ID {
		eval.Feasible = false
		eval.Score = 0
		eval.Issues = append(eval.Issues, Issue{Severity: "error", Message: "不能与本人换班"})
		return eval
	}

	e.checkTakeover(ctx, req.Target, req.SourceShift.Date, req.TargetDate, eval)

	// 互换时源人员同样要能接下目标日期
	if req.TargetDate != "" {
		targetShift := ctx.ShiftOn(req.TargetDate)
		if targetShift == nil || targetShift.StaffID != req.Target.ID {
			eval.Feasible = false
			eval.Issues = append(eval.Issues, Issue{
				Severity: "error",
				Message:  fmt.Sprintf("目标人员在 %s 没有班次可供互换", req.TargetDate),
			})
			return eval
		}
		source := e.findStaff(ctx, req.SourceShift.StaffID)
		if source != nil {
			e.checkTakeover(ctx, source, req.TargetDate, req.SourceShift.Date, eval)
		}
	}

	e.scoreBalance(ctx, req, eval)
	return eval
}

// checkTakeover 检查某人能否接下指定日期的班次
// releasedDate 是此次换班中该人让出的日期，检查时视为空闲。
func (e *Evaluator) checkTakeover(ctx *Context, m *model.StaffMember, date, releasedDate string, eval *Evaluation) {
	own := make(map[string]bool)
	weekendCount := 0
	for _, s := range ctx.StaffShifts(m.ID) {
		if s.Date == releasedDate {
			continue
		}
		own[s.Date] = true
		if s.IsWeekendShift() {
			weekendCount++
		}
	}
	if m.LastAssignedDate != "" {
		own[m.LastAssignedDate] = true
	}

	if own[date] {
		eval.Feasible = false
		eval.Issues = append(eval.Issues, Issue{
			Severity: "error",
			Message:  fmt.Sprintf("%s 在 %s 已有班次", m.Name, date),
		})
	}
	if own[model.PreviousDay(date)] || own[model.NextDay(date)] {
		eval.Feasible = false
		eval.Issues = append(eval.Issues, Issue{
			Severity: "error",
			Message:  fmt.Sprintf("%s 接班 %s 会形成连班", m.Name, date),
		})
	}
	if model.IsWeekend(date) && weekendCount >= ctx.WeekendCap {
		eval.Feasible = false
		eval.Issues = append(eval.Issues, Issue{
			Severity: "error",
			Message:  fmt.Sprintf("%s 的周末班次已达上限 %d", m.Name, ctx.WeekendCap),
		})
	}
	if m.IsUnavailable(date) {
		eval.Score -= 30
		eval.Issues = append(eval.Issues, Issue{
			Severity: "warning",
			Message:  fmt.Sprintf("%s 在 %s 标记为不可值班", m.Name, date),
		})
	}
}

// scoreBalance 按负载变化打分：换班后负载更均衡得分更高
func (e *Evaluator) scoreBalance(ctx *Context, req *Request, eval *Evaluation) {
	if !eval.Feasible {
		eval.Score = 0
		return
	}

	sourceLoad := len(ctx.StaffShifts(req.SourceShift.StaffID))
	targetLoad := len(ctx.StaffShifts(req.Target.ID))

	// 接班把一个班次从源移到目标；互换不改变双方总数
	if req.TargetDate == "" {
		before := sourceLoad - targetLoad
		after := (sourceLoad - 1) - (targetLoad + 1)
		if abs(after) > abs(before) {
			eval.Score -= 20
			eval.Issues = append(eval.Issues, Issue{
				Severity: "warning",
				Message:  "接班会加大双方负载差距",
			})
		}
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
}

// findStaff 按ID查找人员
func (e *Evaluator) findStaff(ctx *Context, id uuid.UUID) *model.StaffMember {
	for _, m := range ctx.Staff {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
