// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
)

// StaffRepository 医护人员仓储
type StaffRepository struct {
	db DB
}

// NewStaffRepository 创建医护人员仓储
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Create 创建人员
func (r *StaffRepository) Create(ctx context.Context, m *model.StaffMember) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	unavailableJSON, _ := json.Marshal(m.UnavailableDates)
	reservedJSON, _ := json.Marshal(m.ReservedDates)

	query := `
		INSERT INTO staff_members (
			id, hospital_id, name, title, department,
			unavailable_dates, reserved_dates, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.HospitalID, m.Name, m.Title, m.Department,
		unavailableJSON, reservedJSON, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("创建人员失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取人员
func (r *StaffRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StaffMember, error) {
	query := `
		SELECT id, hospital_id, name, title, department,
			unavailable_dates, reserved_dates, created_at, updated_at
		FROM staff_members
		WHERE id = $1 AND deleted_at IS NULL
	`

	m, err := scanStaff(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询人员失败: %w", err)
	}

	return m, nil
}

// ListByHospital 列出医院全部在册人员（稳定排序，保证生成结果可复现）
func (r *StaffRepository) ListByHospital(ctx context.Context, hospitalID uuid.UUID) ([]*model.StaffMember, error) {
	query := `
		SELECT id, hospital_id, name, title, department,
			unavailable_dates, reserved_dates, created_at, updated_at
		FROM staff_members
		WHERE hospital_id = $1 AND deleted_at IS NULL
		ORDER BY name, id
	`

	rows, err := r.db.QueryContext(ctx, query, hospitalID)
	if err != nil {
		return nil, fmt.Errorf("查询人员列表失败: %w", err)
	}
	defer rows.Close()

	var members []*model.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("扫描人员记录失败: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历人员记录失败: %w", err)
	}

	return members, nil
}

// Update 更新人员
func (r *StaffRepository) Update(ctx context.Context, m *model.StaffMember) error {
	m.UpdatedAt = time.Now()

	unavailableJSON, _ := json.Marshal(m.UnavailableDates)
	reservedJSON, _ := json.Marshal(m.ReservedDates)

	query := `
		UPDATE staff_members SET
			name = $2, title = $3, department = $4,
			unavailable_dates = $5, reserved_dates = $6, updated_at = $7
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.Title, m.Department,
		unavailableJSON, reservedJSON, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("更新人员失败: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("获取影响行数失败: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("人员 %s 不存在", m.ID)
	}

	return nil
}

// scanStaff 扫描单条人员记录
func scanStaff(s Scanner) (*model.StaffMember, error) {
	m := &model.StaffMember{}
	var unavailableJSON, reservedJSON []byte

	err := s.Scan(
		&m.ID, &m.HospitalID, &m.Name, &m.Title, &m.Department,
		&unavailableJSON, &reservedJSON, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(unavailableJSON) > 0 {
		json.Unmarshal(unavailableJSON, &m.UnavailableDates)
	}
	if len(reservedJSON) > 0 {
		json.Unmarshal(reservedJSON, &m.ReservedDates)
	}

	return m, nil
}
