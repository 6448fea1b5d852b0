// Package stats 提供值班表统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/zhiban/zhiban/pkg/model"
)

// StaffTotal 单人值班统计
type StaffTotal struct {
	StaffID       string  `json:"staff_id"`
	StaffName     string  `json:"staff_name"`
	TotalShifts   int     `json:"total_shifts"`
	WeekendShifts int     `json:"weekend_shifts"`
	Deviation     float64 `json:"deviation"` // 与平均值的偏差百分比
}

// FairnessReport 公平性报告
// 事后只读分析，绝不反馈到进行中的生成过程。
type FairnessReport struct {
	StaffTotals []StaffTotal `json:"staff_totals"`

	Mean     float64 `json:"mean"`     // 人均总班次
	Variance float64 `json:"variance"` // 总班次总体方差
	StdDev   float64 `json:"std_dev"`

	ShiftGini   float64 `json:"shift_gini"`   // 总班次基尼系数
	WeekendGini float64 `json:"weekend_gini"` // 周末班次基尼系数

	// FairnessScore 有界公平性评分：方差为零时100，否则 max(0, 100 - 方差*10)
	FairnessScore float64 `json:"fairness_score"`
}

// Auditor 公平性审计器
type Auditor struct{}

// NewAuditor 创建公平性审计器
func NewAuditor() *Auditor {
	return &Auditor{}
}

// Audit 对已完成的值班表计算公平性报告
// 总班次与周末班次均按人统计；未排到任何班次的在册人员也计入，
// 其总数为零同样拉低平均值。
func (a *Auditor) Audit(shifts []*model.GeneratedShift, staff []*model.StaffMember) *FairnessReport {
	if len(staff) == 0 {
		return &FairnessReport{
			StaffTotals:   make([]StaffTotal, 0),
			FairnessScore: 100,
		}
	}

	totals := make([]StaffTotal, 0, len(staff))
	index := make(map[string]int, len(staff))
	for i, m := range staff {
		index[m.ID.String()] = i
		totals = append(totals, StaffTotal{
			StaffID:   m.ID.String(),
			StaffName: m.Name,
		})
	}

	for _, sh := range shifts {
		i, ok := index[sh.StaffID.String()]
		if !ok {
			continue
		}
		totals[i].TotalShifts++
		if sh.IsWeekendShift() {
			totals[i].WeekendShifts++
		}
	}

	counts := make([]float64, len(totals))
	weekendCounts := make([]float64, len(totals))
	for i, t := range totals {
		counts[i] = float64(t.TotalShifts)
		weekendCounts[i] = float64(t.WeekendShifts)
	}

	mean := calculateMean(counts)
	variance := calculateVariance(counts, mean)

	for i := range totals {
		if mean > 0 {
			totals[i].Deviation = (float64(totals[i].TotalShifts) - mean) / mean * 100
		}
	}

	// 按总班次降序展示，平局保持花名册顺序
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalShifts > totals[j].TotalShifts
	})

	score := 100.0
	if variance > 0 {
		score = math.Max(0, 100-variance*10)
	}

	return &FairnessReport{
		StaffTotals:   totals,
		Mean:          mean,
		Variance:      variance,
		StdDev:        math.Sqrt(variance),
		ShiftGini:     calculateGini(counts),
		WeekendGini:   calculateGini(weekendCounts),
		FairnessScore: score,
	}
}

// calculateMean 计算平均值
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateVariance 计算总体方差
func calculateVariance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// calculateGini 计算基尼系数
func calculateGini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range sorted {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}

	gini = gini / (float64(n) * sum)
	return math.Max(0, math.Min(1, gini))
}
