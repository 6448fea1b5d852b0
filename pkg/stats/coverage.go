// Package stats 提供值班表统计分析功能
package stats

import (
	"time"

	"github.com/zhiban/zhiban/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	TotalDays       int     `json:"total_days"`       // 核算总日数（日数 × 启用科室数）
	CoveredDays     int     `json:"covered_days"`     // 已覆盖日数
	OverallCoverage float64 `json:"overall_coverage"` // 整体覆盖率 (%)

	WeekendCoverage float64 `json:"weekend_coverage"` // 周末覆盖率 (%)
	WeekdayCoverage float64 `json:"weekday_coverage"` // 工作日覆盖率 (%)

	// DepartmentCoverage 各科室覆盖率 (%)
	DepartmentCoverage map[model.Department]float64 `json:"department_coverage"`

	// UncoveredDates 全院未覆盖日期（任一启用科室未排即计入）
	UncoveredDates []string `json:"uncovered_dates"`
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 根据生成统计与班次列表计算覆盖率
func (c *CoverageAnalyzer) Analyze(shifts []*model.GeneratedShift, genStats *model.GenerationStats) *CoverageMetrics {
	metrics := &CoverageMetrics{
		DepartmentCoverage: make(map[model.Department]float64),
		UncoveredDates:     make([]string, 0),
	}
	if genStats == nil {
		metrics.OverallCoverage = 100
		return metrics
	}

	metrics.TotalDays = genStats.ShiftsNeeded
	metrics.UncoveredDates = append(metrics.UncoveredDates, genStats.UnassignedDates...)

	for _, ds := range genStats.Departments {
		if !ds.Enabled {
			continue
		}
		if ds.ShiftsNeeded > 0 {
			covered := ds.ShiftsNeeded - len(ds.UnassignedDates)
			metrics.CoveredDays += covered
			metrics.DepartmentCoverage[ds.Department] = float64(covered) / float64(ds.ShiftsNeeded) * 100
		}
	}

	if metrics.TotalDays > 0 {
		metrics.OverallCoverage = float64(metrics.CoveredDays) / float64(metrics.TotalDays) * 100
	} else {
		metrics.OverallCoverage = 100
	}

	metrics.WeekendCoverage, metrics.WeekdayCoverage = c.splitCoverage(genStats)

	return metrics
}

// splitCoverage 分别计算周末与工作日覆盖率
func (c *CoverageAnalyzer) splitCoverage(genStats *model.GenerationStats) (weekend, weekday float64) {
	weekendTotal, weekdayTotal := 0, 0
	for _, d := range model.MonthDates(genStats.Year, genStats.Month) {
		if model.IsWeekend(d) {
			weekendTotal++
		} else {
			weekdayTotal++
		}
	}

	enabled := 0
	weekendMissed, weekdayMissed := 0, 0
	for _, ds := range genStats.Departments {
		if !ds.Enabled {
			continue
		}
		enabled++
		for _, d := range ds.UnassignedDates {
			if model.IsWeekend(d) {
				weekendMissed++
			} else {
				weekdayMissed++
			}
		}
	}

	weekend, weekday = 100, 100
	if n := weekendTotal * enabled; n > 0 {
		weekend = float64(n-weekendMissed) / float64(n) * 100
	}
	if n := weekdayTotal * enabled; n > 0 {
		weekday = float64(n-weekdayMissed) / float64(n) * 100
	}
	return weekend, weekday
}

// MonthWindow 返回目标月份的起止日期（报表展示用）
func MonthWindow(year int, month time.Month) (string, string) {
	dates := model.MonthDates(year, month)
	if len(dates) == 0 {
		return "", ""
	}
	return dates[0], dates[len(dates)-1]
}
