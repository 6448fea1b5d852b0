// Package policy 提供医院级科室值班策略
package policy

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
)

var (
	// ErrInvalidPolicy 策略无效
	ErrInvalidPolicy = errors.New("无效的医院策略")
)

// DepartmentPolicy 单科室策略
type DepartmentPolicy struct {
	Enabled   bool            `json:"enabled"`
	ShiftType model.ShiftType `json:"shift_type"`
}

// DefaultDepartmentPolicy 默认策略：启用，标准24小时值班
func DefaultDepartmentPolicy() DepartmentPolicy {
	return DepartmentPolicy{
		Enabled:   true,
		ShiftType: model.ShiftType24h,
	}
}

// HospitalPolicy 医院策略：规范科室 -> 覆盖项
// 只读参考数据，引擎不修改。
type HospitalPolicy struct {
	HospitalID  uuid.UUID                             `json:"hospital_id"`
	Name        string                                `json:"name,omitempty"`
	Departments map[model.Department]DepartmentPolicy `json:"departments,omitempty"`
}

// For 返回指定科室的策略，未显式配置时返回默认策略
func (p *HospitalPolicy) For(dept model.Department) DepartmentPolicy {
	if p == nil || p.Departments == nil {
		return DefaultDepartmentPolicy()
	}
	if dp, ok := p.Departments[dept]; ok {
		return dp
	}
	return DefaultDepartmentPolicy()
}

// EnabledDepartments 返回该医院启用的规范科室（按固定枚举顺序）
func (p *HospitalPolicy) EnabledDepartments() []model.Department {
	enabled := make([]model.Department, 0)
	for _, d := range model.AllDepartments() {
		if p.For(d).Enabled {
			enabled = append(enabled, d)
		}
	}
	return enabled
}

// Registry 医院策略注册表
// 并发安全；策略在构造/注册时传入，避免包级可变状态。
type Registry struct {
	policies map[uuid.UUID]*HospitalPolicy
	mu       sync.RWMutex
}

// NewRegistry 创建策略注册表
func NewRegistry(policies ...*HospitalPolicy) *Registry {
	r := &Registry{
		policies: make(map[uuid.UUID]*HospitalPolicy),
	}
	for _, p := range policies {
		if p != nil && p.HospitalID != uuid.Nil {
			r.policies[p.HospitalID] = p
		}
	}
	return r
}

// Register 注册医院策略
func (r *Registry) Register(p *HospitalPolicy) error {
	if p == nil || p.HospitalID == uuid.Nil {
		return ErrInvalidPolicy
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.policies[p.HospitalID] = p
	return nil
}

// Resolve 返回指定医院的策略
// 未注册的医院返回全科室默认启用的策略，排班引擎调用前必须先经过这里。
func (r *Registry) Resolve(hospitalID uuid.UUID) *HospitalPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.policies[hospitalID]; ok {
		return p
	}
	return &HospitalPolicy{HospitalID: hospitalID}
}

// List 列出所有已注册的医院策略
func (r *Registry) List() []*HospitalPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*HospitalPolicy, 0, len(r.policies))
	for _, p := range r.policies {
		result = append(result, p)
	}
	return result
}

// Remove 移除医院策略
func (r *Registry) Remove(hospitalID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.policies, hospitalID)
}
