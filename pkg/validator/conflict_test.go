package validator

import (
	"testing"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
)

func makeStaff(name, dept string) *model.StaffMember {
	return &model.StaffMember{
		BaseModel:  model.NewBaseModel(),
		Name:       name,
		Department: dept,
	}
}

func staffMap(members ...*model.StaffMember) map[uuid.UUID]*model.StaffMember {
	m := make(map[uuid.UUID]*model.StaffMember, len(members))
	for _, s := range members {
		m[s.ID] = s
	}
	return m
}

func shiftOn(m *model.StaffMember, dept model.Department, date string) *model.GeneratedShift {
	return &model.GeneratedShift{
		ID:         uuid.New(),
		StaffID:    m.ID,
		StaffName:  m.Name,
		Department: dept,
		Date:       date,
	}
}

func filterType(conflicts []Conflict, t ConflictType) []Conflict {
	var out []Conflict
	for _, c := range conflicts {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func TestDetectAll_CleanSchedule(t *testing.T) {
	a := makeStaff("A", "interne")
	detector := NewConflictDetector(nil, nil)

	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptInterne, "2026-11-02"),
		shiftOn(a, model.DeptInterne, "2026-11-04"),
	}, staffMap(a))

	if len(conflicts) != 0 {
		t.Errorf("Clean schedule should have no conflicts, got %v", conflicts)
	}
}

func TestDetectDoubleBooking(t *testing.T) {
	a := makeStaff("A", "interne")
	detector := NewConflictDetector(nil, nil)

	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptInterne, "2026-11-02"),
		shiftOn(a, model.DeptInterne, "2026-11-02"),
	}, staffMap(a))

	found := filterType(conflicts, ConflictDoubleBooking)
	if len(found) != 1 {
		t.Fatalf("Expected 1 double booking conflict, got %d", len(found))
	}
	if found[0].Severity != "error" {
		t.Errorf("Double booking severity = %s, expected error", found[0].Severity)
	}
	if found[0].Date != "2026-11-02" {
		t.Errorf("Conflict date = %s, expected 2026-11-02", found[0].Date)
	}
}

func TestDetectBackToBack(t *testing.T) {
	a := makeStaff("A", "interne")
	detector := NewConflictDetector(nil, nil)

	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptInterne, "2026-11-02"),
		shiftOn(a, model.DeptInterne, "2026-11-03"),
	}, staffMap(a))

	found := filterType(conflicts, ConflictBackToBack)
	if len(found) != 1 {
		t.Fatalf("Expected 1 back-to-back conflict, got %d", len(found))
	}
	if found[0].Date != "2026-11-03" {
		t.Errorf("Conflict date = %s, expected 2026-11-03", found[0].Date)
	}
}

func TestDetectWeekendCap(t *testing.T) {
	a := makeStaff("A", "interne")
	detector := NewConflictDetector(&DetectorConfig{WeekendCap: 2}, nil)

	// 3个周末班超过上限2
	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptInterne, "2026-11-01"),
		shiftOn(a, model.DeptInterne, "2026-11-07"),
		shiftOn(a, model.DeptInterne, "2026-11-14"),
	}, staffMap(a))

	found := filterType(conflicts, ConflictWeekendCap)
	if len(found) != 1 {
		t.Fatalf("Expected 1 weekend cap conflict, got %d", len(found))
	}
}

func TestDetectDepartmentMismatch(t *testing.T) {
	a := makeStaff("A", "interne")
	detector := NewConflictDetector(nil, nil)

	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptChirurgie, "2026-11-02"),
	}, staffMap(a))

	found := filterType(conflicts, ConflictDepartmentMismatch)
	if len(found) != 1 {
		t.Fatalf("Expected 1 department mismatch, got %d", len(found))
	}
}

func TestDetectDepartmentMismatch_UnresolvedStaffSkipped(t *testing.T) {
	// 人员自身科室无法归类时不报科室不符
	a := makeStaff("A", "medic")
	detector := NewConflictDetector(nil, nil)

	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptInterne, "2026-11-02"),
	}, staffMap(a))

	if found := filterType(conflicts, ConflictDepartmentMismatch); len(found) != 0 {
		t.Errorf("Unresolved staff department should not produce mismatch, got %v", found)
	}
}

func TestDetectUnavailable(t *testing.T) {
	a := makeStaff("A", "interne")
	a.UnavailableDates = []string{"2026-11-02", "2026-11-04"}
	detector := NewConflictDetector(nil, nil)

	reserved := shiftOn(a, model.DeptInterne, "2026-11-04")
	reserved.Reserved = true

	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptInterne, "2026-11-02"),
		reserved,
	}, staffMap(a))

	found := filterType(conflicts, ConflictUnavailable)
	// 预约班次豁免，只有自动分配的那个算
	if len(found) != 1 {
		t.Fatalf("Expected 1 unavailable conflict, got %d", len(found))
	}
	if found[0].Date != "2026-11-02" {
		t.Errorf("Conflict date = %s, expected 2026-11-02", found[0].Date)
	}
	// 降级与预约都可能合法触发，只是警告
	if found[0].Severity != "warning" {
		t.Errorf("Unavailable severity = %s, expected warning", found[0].Severity)
	}
}

func TestDetectUnavailable_Disabled(t *testing.T) {
	a := makeStaff("A", "interne")
	a.UnavailableDates = []string{"2026-11-02"}
	detector := NewConflictDetector(&DetectorConfig{WeekendCap: 2, CheckUnavailability: false}, nil)

	conflicts := detector.DetectAll([]*model.GeneratedShift{
		shiftOn(a, model.DeptInterne, "2026-11-02"),
	}, staffMap(a))

	if found := filterType(conflicts, ConflictUnavailable); len(found) != 0 {
		t.Errorf("Unavailability check disabled, got %v", found)
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors([]Conflict{{Severity: "warning"}}) {
		t.Error("Warnings alone should not count as errors")
	}
	if !HasErrors([]Conflict{{Severity: "warning"}, {Severity: "error"}}) {
		t.Error("Error severity should be detected")
	}
	if HasErrors(nil) {
		t.Error("Empty conflict list should have no errors")
	}
}
