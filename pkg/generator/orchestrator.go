package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/department"
	"github.com/zhiban/zhiban/pkg/errors"
	"github.com/zhiban/zhiban/pkg/logger"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/policy"
)

// Snapshot 目录服务在生成开始时提供的只读快照
type Snapshot struct {
	Staff    []*model.StaffMember   `json:"staff"`
	Existing []*model.ExistingShift `json:"existing"`
}

// Orchestrator 多科室编排器
// 对一个医院的一个自然月，按固定科室枚举逐科室调用生成引擎，
// 各科室状态彼此独立，可并行执行，合并结果保证确定性。
type Orchestrator struct {
	engine     *Engine
	normalizer *department.Normalizer
	registry   *policy.Registry
	logger     *logger.GeneratorLogger
	opts       Options
	workers    int
}

// NewOrchestrator 创建多科室编排器
func NewOrchestrator(n *department.Normalizer, r *policy.Registry, opts Options) *Orchestrator {
	return &Orchestrator{
		engine:     NewEngine(),
		normalizer: n,
		registry:   r,
		logger:     logger.NewGeneratorLogger(),
		opts:       opts.normalized(),
		workers:    4,
	}
}

// SetWorkers 设置科室并行度
func (o *Orchestrator) SetWorkers(workers int) {
	if workers > 0 {
		o.workers = workers
	}
}

// deptJob 单科室生成任务
type deptJob struct {
	index int // 在启用科室序列中的位置，用于确定性写回
	input *DepartmentInput
}

// Generate 为医院生成目标月份的完整值班表
// 返回全部新生成班次（按科室枚举序、科室内按日期升序）和汇总统计。
func (o *Orchestrator) Generate(
	ctx context.Context,
	hospitalID uuid.UUID,
	year int,
	month time.Month,
	snap *Snapshot,
) ([]*model.GeneratedShift, *model.GenerationStats, error) {
	start := time.Now()

	if month < time.January || month > time.December {
		return nil, nil, errors.InvalidMonth(year, int(month))
	}
	if snap == nil {
		snap = &Snapshot{}
	}

	hp := o.registry.Resolve(hospitalID)
	days := model.DaysInMonth(year, month)

	o.logger.StartRun(hospitalID.String(), len(model.AllDepartments()), len(snap.Staff), days)

	// 人员按归一化科室分组；无法归类者不进入任何科室的候选池
	staffByDept := make(map[model.Department][]*model.StaffMember)
	staffDept := make(map[uuid.UUID]model.Department, len(snap.Staff))
	var globalDiags []string
	for _, s := range snap.Staff {
		d, ok := o.normalizer.NormalizeStaff(s)
		if !ok {
			globalDiags = append(globalDiags,
				fmt.Sprintf("人员 %s 的科室标签 '%s' 无法归类", s.Name, s.Department))
			continue
		}
		staffByDept[d] = append(staffByDept[d], s)
		staffDept[s.ID] = d
	}

	// 已有班次按科室分组：记录自带科室优先，缺失时按值班人标签推断
	existingByDept := make(map[model.Department][]*model.ExistingShift)
	for _, ex := range snap.Existing {
		rd := o.resolveShiftDepartment(ex, staffDept)
		if rd.Department == model.DeptUnresolved {
			globalDiags = append(globalDiags,
				fmt.Sprintf("已有班次 %s (%s) 无法确定科室归属", ex.ID, ex.Date))
			continue
		}
		existingByDept[rd.Department] = append(existingByDept[rd.Department], ex)
	}

	// 组装科室任务（固定枚举顺序）；停用科室记零值统计，不计入覆盖核算
	stats := &model.GenerationStats{
		HospitalID:      hospitalID,
		Year:            year,
		Month:           month,
		DaysInMonth:     days,
		UnassignedDates: make([]string, 0),
		Departments:     make([]model.DepartmentStats, 0, len(model.AllDepartments())),
	}

	jobs := make([]deptJob, 0, len(model.AllDepartments()))
	jobIndex := make(map[model.Department]int)
	for _, d := range model.AllDepartments() {
		dp := hp.For(d)
		if !dp.Enabled {
			continue
		}

		opts := o.opts
		opts.ShiftType = dp.ShiftType

		jobIndex[d] = len(jobs)
		jobs = append(jobs, deptJob{
			index: len(jobs),
			input: &DepartmentInput{
				HospitalID: hospitalID,
				Department: d,
				Year:       year,
				Month:      month,
				Staff:      staffByDept[d],
				Existing:   existingByDept[d],
				Options:    opts,
			},
		})
	}

	results, err := o.runJobs(ctx, jobs)
	if err != nil {
		return nil, nil, err
	}

	// 确定性合并：按科室枚举序拼接班次，未排日期取并集后排序去重
	shifts := make([]*model.GeneratedShift, 0)
	unassignedSets := make([][]string, 0, len(results))
	for _, d := range model.AllDepartments() {
		idx, enabled := jobIndex[d]
		if !enabled {
			stats.Departments = append(stats.Departments, model.DepartmentStats{
				Department:      d,
				Enabled:         false,
				DaysInMonth:     days,
				UnassignedDates: make([]string, 0),
			})
			continue
		}

		res := results[idx]
		shifts = append(shifts, res.Shifts...)
		unassignedSets = append(unassignedSets, res.Stats.UnassignedDates)

		stats.ShiftsNeeded += res.Stats.ShiftsNeeded
		stats.ShiftsGenerated += res.Stats.ShiftsGenerated
		stats.Departments = append(stats.Departments, res.Stats)
	}
	stats.UnassignedDates = model.MergeUnassigned(unassignedSets...)

	// 跨科室诊断（无法归类的人员/班次）单独挂在 unassigned 条目下
	if len(globalDiags) > 0 {
		stats.Departments = append(stats.Departments, model.DepartmentStats{
			Department:      model.DeptUnresolved,
			DaysInMonth:     days,
			UnassignedDates: make([]string, 0),
			Diagnostics:     globalDiags,
		})
	}

	if stats.ShiftsNeeded > 0 {
		stats.FillRate = float64(stats.ShiftsGenerated) / float64(stats.ShiftsNeeded) * 100
	}
	stats.Duration = time.Since(start)

	o.logger.RunComplete(hospitalID.String(), stats.Duration, stats.ShiftsGenerated, len(stats.UnassignedDates))

	return shifts, stats, nil
}

// runJobs 并行执行科室任务
// 每个科室只访问自己的人员子集，结果按索引写回，完成顺序不影响输出。
func (o *Orchestrator) runJobs(ctx context.Context, jobs []deptJob) ([]*DepartmentResult, error) {
	results := make([]*DepartmentResult, len(jobs))
	errs := make([]error, len(jobs))

	workers := o.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	jobChan := make(chan deptJob, len(jobs))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobChan {
				res, err := o.engine.Run(ctx, job.input)
				results[job.index] = res
				errs[job.index] = err
			}
		}()
	}

	for _, job := range jobs {
		jobChan <- job
	}
	close(jobChan)
	wg.Wait()

	// 错误按科室枚举序报告，保证同样输入报同一个错误
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// resolveShiftDepartment 确定已有班次的科室归属
// 两步查找：班次自带科室优先（显式），否则按值班人标签推断，
// 并用来源标记区分，避免无声掩盖缺失数据。
func (o *Orchestrator) resolveShiftDepartment(
	ex *model.ExistingShift,
	staffDept map[uuid.UUID]model.Department,
) model.ResolvedDepartment {
	if ex.Department != "" && ex.Department.IsCanonical() {
		return model.ResolvedDepartment{Department: ex.Department, Source: model.SourceExplicit}
	}
	if d, ok := staffDept[ex.StaffID]; ok {
		return model.ResolvedDepartment{Department: d, Source: model.SourceInferred}
	}
	return model.ResolvedDepartment{Department: model.DeptUnresolved, Source: model.SourceInferred}
}
