// Package repository 提供数据访问层
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/stats"
)

// RosterRepository 值班存储仓储
// 生成班次按 (医院, 科室, 日期, 类型) 幂等覆盖，重复生成以最新一次为准。
type RosterRepository struct {
	db DB
}

// NewRosterRepository 创建值班存储仓储
func NewRosterRepository(db DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// UpsertShift 写入单个生成班次（存在即覆盖）
func (r *RosterRepository) UpsertShift(ctx context.Context, shift *model.GeneratedShift) error {
	query := `
		INSERT INTO oncall_shifts (
			id, hospital_id, staff_id, staff_name, department, date, type, reserved, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (hospital_id, department, date, type) DO UPDATE SET
			staff_id = EXCLUDED.staff_id,
			staff_name = EXCLUDED.staff_name,
			reserved = EXCLUDED.reserved,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		shift.ID, shift.HospitalID, shift.StaffID, shift.StaffName,
		shift.Department, shift.Date, shift.Type, shift.Reserved, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("写入生成班次失败: %w", err)
	}

	return nil
}

// SaveGenerated 批量写入生成班次
// 至少一次语义：失败的班次返回错误由调用方重放，重放因幂等覆盖而安全。
func (r *RosterRepository) SaveGenerated(ctx context.Context, shifts []*model.GeneratedShift) error {
	for _, shift := range shifts {
		if err := r.UpsertShift(ctx, shift); err != nil {
			return err
		}
	}
	return nil
}

// ListMonthShifts 查询医院目标月份的已有值班记录
func (r *RosterRepository) ListMonthShifts(ctx context.Context, hospitalID uuid.UUID, year int, month time.Month) ([]*model.ExistingShift, error) {
	startDate, endDate := stats.MonthWindow(year, month)

	query := `
		SELECT id, hospital_id, staff_id, COALESCE(department, ''), date, type
		FROM oncall_shifts
		WHERE hospital_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
		ORDER BY date, department
	`

	rows, err := r.db.QueryContext(ctx, query, hospitalID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("查询已有班次失败: %w", err)
	}
	defer rows.Close()

	var shifts []*model.ExistingShift
	for rows.Next() {
		shift := &model.ExistingShift{}
		if err := rows.Scan(
			&shift.ID, &shift.HospitalID, &shift.StaffID,
			&shift.Department, &shift.Date, &shift.Type,
		); err != nil {
			return nil, fmt.Errorf("扫描班次记录失败: %w", err)
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历班次记录失败: %w", err)
	}

	return shifts, nil
}

// DeleteShift 删除班次（软删除）
func (r *RosterRepository) DeleteShift(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE oncall_shifts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("删除班次失败: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("获取影响行数失败: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("班次 %s 不存在", id)
	}

	return nil
}
