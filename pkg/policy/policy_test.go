package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
)

func TestHospitalPolicy_For(t *testing.T) {
	p := &HospitalPolicy{
		HospitalID: uuid.New(),
		Departments: map[model.Department]DepartmentPolicy{
			model.DeptRadiologie: {Enabled: false},
			model.DeptATI:        {Enabled: true, ShiftType: model.ShiftTypeNight},
		},
	}

	// 显式覆盖
	if dp := p.For(model.DeptRadiologie); dp.Enabled {
		t.Error("radiologie should be disabled")
	}
	if dp := p.For(model.DeptATI); dp.ShiftType != model.ShiftTypeNight {
		t.Errorf("ati shift type = %s, expected night", dp.ShiftType)
	}

	// 未配置科室回落到默认
	dp := p.For(model.DeptInterne)
	if !dp.Enabled || dp.ShiftType != model.ShiftType24h {
		t.Errorf("Unconfigured department should get default policy, got %+v", dp)
	}

	// nil策略全部默认
	var nilPolicy *HospitalPolicy
	if dp := nilPolicy.For(model.DeptInterne); !dp.Enabled {
		t.Error("Nil policy should default to enabled")
	}
}

func TestHospitalPolicy_EnabledDepartments(t *testing.T) {
	p := &HospitalPolicy{
		HospitalID: uuid.New(),
		Departments: map[model.Department]DepartmentPolicy{
			model.DeptRadiologie: {Enabled: false},
			model.DeptLaborator:  {Enabled: false},
		},
	}

	enabled := p.EnabledDepartments()
	if len(enabled) != 4 {
		t.Fatalf("Expected 4 enabled departments, got %d", len(enabled))
	}

	// 保持固定枚举顺序
	expected := []model.Department{model.DeptInterne, model.DeptChirurgie, model.DeptPediatrie, model.DeptATI}
	for i, d := range expected {
		if enabled[i] != d {
			t.Errorf("Enabled[%d] = %s, expected %s", i, enabled[i], d)
		}
	}
}

func TestRegistry_Resolve(t *testing.T) {
	hid := uuid.New()
	p := &HospitalPolicy{
		HospitalID: hid,
		Departments: map[model.Department]DepartmentPolicy{
			model.DeptPediatrie: {Enabled: false},
		},
	}
	r := NewRegistry(p)

	got := r.Resolve(hid)
	if got.For(model.DeptPediatrie).Enabled {
		t.Error("Registered policy should disable pediatrie")
	}

	// 未注册的医院获得全启用默认策略
	other := r.Resolve(uuid.New())
	if other == nil {
		t.Fatal("Resolve should never return nil")
	}
	if len(other.EnabledDepartments()) != 6 {
		t.Errorf("Unknown hospital should have all 6 departments enabled, got %d", len(other.EnabledDepartments()))
	}
}

func TestRegistry_RegisterRemove(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(nil); err == nil {
		t.Error("Registering nil policy should fail")
	}
	if err := r.Register(&HospitalPolicy{}); err == nil {
		t.Error("Registering policy without hospital ID should fail")
	}

	hid := uuid.New()
	if err := r.Register(&HospitalPolicy{HospitalID: hid}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(r.List()) != 1 {
		t.Errorf("Expected 1 registered policy, got %d", len(r.List()))
	}

	r.Remove(hid)
	if len(r.List()) != 0 {
		t.Errorf("Expected 0 policies after remove, got %d", len(r.List()))
	}
}
