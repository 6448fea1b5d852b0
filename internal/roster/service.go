// Package roster 提供值班表生成的应用服务
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/internal/metrics"
	"github.com/zhiban/zhiban/internal/repository"
	"github.com/zhiban/zhiban/pkg/generator"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/stats"
)

// Service 值班表应用服务
// 组装流程：取快照 -> 生成 -> 持久化 -> 公平性上报。
// 生成引擎本身无任何I/O，全部输入在开始前一次取齐。
type Service struct {
	orchestrator *generator.Orchestrator
	rosterRepo   *repository.RosterRepository
	staffRepo    *repository.StaffRepository
	auditor      *stats.Auditor
}

// NewService 创建应用服务
func NewService(
	orch *generator.Orchestrator,
	rosterRepo *repository.RosterRepository,
	staffRepo *repository.StaffRepository,
) *Service {
	return &Service{
		orchestrator: orch,
		rosterRepo:   rosterRepo,
		staffRepo:    staffRepo,
		auditor:      stats.NewAuditor(),
	}
}

// GenerateResult 一次生成的完整产出
type GenerateResult struct {
	Shifts   []*model.GeneratedShift `json:"shifts"`
	Stats    *model.GenerationStats  `json:"stats"`
	Fairness *stats.FairnessReport   `json:"fairness"`
}

// GenerateMonth 为医院生成并持久化目标月份的值班表
// 超时或取消发生在持久化之前时不产生任何部分写入。
func (s *Service) GenerateMonth(ctx context.Context, hospitalID uuid.UUID, year int, month time.Month) (*GenerateResult, error) {
	start := time.Now()
	reg := metrics.GetRegistry()

	staff, err := s.staffRepo.ListByHospital(ctx, hospitalID)
	if err != nil {
		reg.GetCounter("zhiban_generation_total").Inc(hospitalID.String(), "error")
		return nil, fmt.Errorf("加载人员快照失败: %w", err)
	}

	existing, err := s.rosterRepo.ListMonthShifts(ctx, hospitalID, year, month)
	if err != nil {
		reg.GetCounter("zhiban_generation_total").Inc(hospitalID.String(), "error")
		return nil, fmt.Errorf("加载已有班次失败: %w", err)
	}

	snap := &generator.Snapshot{
		Staff:    staff,
		Existing: existing,
	}

	shifts, genStats, err := s.orchestrator.Generate(ctx, hospitalID, year, month, snap)
	if err != nil {
		reg.GetCounter("zhiban_generation_total").Inc(hospitalID.String(), "error")
		return nil, err
	}

	if err := s.rosterRepo.SaveGenerated(ctx, shifts); err != nil {
		reg.GetCounter("zhiban_generation_total").Inc(hospitalID.String(), "error")
		return nil, fmt.Errorf("持久化生成班次失败: %w", err)
	}

	fairness := s.auditor.Audit(shifts, staff)

	hid := hospitalID.String()
	reg.GetCounter("zhiban_generation_total").Inc(hid, "success")
	reg.GetHistogram("zhiban_generation_duration_seconds").Observe(time.Since(start).Seconds(), hid)
	reg.GetGauge("zhiban_unassigned_dates").Set(float64(len(genStats.UnassignedDates)), hid)
	reg.GetGauge("zhiban_fill_rate").Set(genStats.FillRate, hid)
	reg.GetGauge("zhiban_fairness_score").Set(fairness.FairnessScore, hid)

	return &GenerateResult{
		Shifts:   shifts,
		Stats:    genStats,
		Fairness: fairness,
	}, nil
}
