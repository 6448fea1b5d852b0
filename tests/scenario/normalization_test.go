// Package scenario 提供场景测试
package scenario

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/department"
	"github.com/zhiban/zhiban/pkg/generator"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/policy"
)

// TestMessyRosterNormalization 测试真实花名册的标签归一化
// 同一科室的标签可能混用缩写、大小写与变音符号，归一化后应合流到同一候选池
func TestMessyRosterNormalization(t *testing.T) {
	n := department.NewNormalizer(department.Config{})

	labels := map[string]model.Department{
		"Laborator":          model.DeptLaborator,
		"lab":                model.DeptLaborator,
		"LABORATOR":          model.DeptLaborator,
		"analize":            model.DeptLaborator,
		"Medicina Internă":   model.DeptInterne,
		"interne":            model.DeptInterne,
		"A.T.I.":             model.DeptATI,
		"Terapie Intensivă":  model.DeptATI,
		"chirurgie generală": model.DeptChirurgie,
		"rtg":                model.DeptRadiologie,
	}

	for raw, expected := range labels {
		got, ok := n.Normalize(raw)
		if !ok || got != expected {
			t.Errorf("标签 %q 归一化为 (%s, %v), 期望 %s", raw, got, ok, expected)
		}
	}
}

// TestRoleWordsNeverScheduled 测试职称词人员不参与排班
func TestRoleWordsNeverScheduled(t *testing.T) {
	hospitalID := uuid.New()

	// 花名册里有人把职称填进了科室栏
	roster := []*model.StaffMember{
		newStaff(hospitalID, "Dr. Ionescu", "interne"),
		newStaff(hospitalID, "Dr. Popa", "interne"),
		newStaff(hospitalID, "Dr. Radu", "interne"),
		newStaff(hospitalID, "Dr. Greșit", "medic"),
		newStaff(hospitalID, "As. Moldovan", "asistenta"),
	}

	orch := generator.NewOrchestrator(department.NewNormalizer(department.Config{}), policy.NewRegistry(), generator.DefaultOptions())
	shifts, genStats, err := orch.Generate(context.Background(), hospitalID, 2026, time.November, &generator.Snapshot{Staff: roster})
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	for _, s := range shifts {
		if s.StaffName == "Dr. Greșit" || s.StaffName == "As. Moldovan" {
			t.Errorf("职称词人员 %s 不应被排班 (%s)", s.StaffName, s.Date)
		}
	}

	// 无法归类的人员记入 unassigned 诊断条目
	last := genStats.Departments[len(genStats.Departments)-1]
	if last.Department != model.DeptUnresolved {
		t.Fatalf("期望末位为unassigned诊断条目, 实际%s", last.Department)
	}
	if len(last.Diagnostics) != 2 {
		t.Errorf("期望2条归类诊断, 实际%d: %v", len(last.Diagnostics), last.Diagnostics)
	}

	t.Logf("归类诊断: %v", last.Diagnostics)
}

// TestCustomSynonymConfiguration 测试医院自定义同义词
func TestCustomSynonymConfiguration(t *testing.T) {
	hospitalID := uuid.New()

	// 本院习惯把ATI写作"reanimare"
	n := department.NewNormalizer(department.Config{
		ExtraSynonyms: map[string]model.Department{
			"reanimare": model.DeptATI,
		},
	})

	roster := []*model.StaffMember{
		newStaff(hospitalID, "Dr. Ene", "Reanimare"),
		newStaff(hospitalID, "Dr. Vlad", "reanimare"),
		newStaff(hospitalID, "Dr. Neagu", "ati"),
	}

	orch := generator.NewOrchestrator(n, policy.NewRegistry(), generator.DefaultOptions())
	shifts, _, err := orch.Generate(context.Background(), hospitalID, 2026, time.November, &generator.Snapshot{Staff: roster})
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}

	// 三人合流到同一候选池：每人都有班次
	byStaff := make(map[string]int)
	for _, s := range shifts {
		if s.Department != model.DeptATI {
			t.Errorf("意外的科室班次: %s", s.Department)
		}
		byStaff[s.StaffName]++
	}
	if len(byStaff) != 3 {
		t.Errorf("期望3人都有班次, 实际%d人", len(byStaff))
	}

	t.Logf("自定义同义词生效, 各人班次: %v", byStaff)
}
