package department

import (
	"testing"

	"github.com/zhiban/zhiban/pkg/model"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(Config{})

	tests := []struct {
		name     string
		raw      string
		expected model.Department
		ok       bool
	}{
		{name: "规范名原样通过", raw: "interne", expected: model.DeptInterne, ok: true},
		{name: "大小写折叠", raw: "Laborator", expected: model.DeptLaborator, ok: true},
		{name: "缩写lab", raw: "lab", expected: model.DeptLaborator, ok: true},
		{name: "缩写chir", raw: "chir", expected: model.DeptChirurgie, ok: true},
		{name: "带空白", raw: "  Pediatrie  ", expected: model.DeptPediatrie, ok: true},
		{name: "点号分隔缩写", raw: "A.T.I.", expected: model.DeptATI, ok: true},
		{name: "变音符号", raw: "Radiologíe", expected: model.DeptRadiologie, ok: true},
		{name: "多词同义词", raw: "Terapie Intensivă", expected: model.DeptATI, ok: true},
		{name: "职称词被拒绝", raw: "medic", expected: model.DeptUnresolved, ok: false},
		{name: "职称词doctor", raw: "Doctor", expected: model.DeptUnresolved, ok: false},
		{name: "空标签", raw: "", expected: model.DeptUnresolved, ok: false},
		{name: "纯空白", raw: "   ", expected: model.DeptUnresolved, ok: false},
		{name: "未知标签", raw: "cardiologie", expected: model.DeptUnresolved, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Normalize(tt.raw)
			if got != tt.expected || ok != tt.ok {
				t.Errorf("Normalize(%q) = (%s, %v), expected (%s, %v)", tt.raw, got, ok, tt.expected, tt.ok)
			}
		})
	}
}

func TestNormalizer_ExtraSynonyms(t *testing.T) {
	n := NewNormalizer(Config{
		ExtraSynonyms: map[string]model.Department{
			"Urgențe": model.DeptATI,
		},
	})

	// 附加同义词折叠后生效
	got, ok := n.Normalize("urgente")
	if !ok || got != model.DeptATI {
		t.Errorf("Normalize(urgente) = (%s, %v), expected (ati, true)", got, ok)
	}

	// 内置表不受影响
	got, ok = n.Normalize("lab")
	if !ok || got != model.DeptLaborator {
		t.Errorf("Normalize(lab) = (%s, %v), expected (laborator, true)", got, ok)
	}
}

func TestNormalizer_ExtraRoleWords(t *testing.T) {
	n := NewNormalizer(Config{
		ExtraRoleWords: []string{"Brancardier"},
	})

	got, ok := n.Normalize("brancardier")
	if ok || got != model.DeptUnresolved {
		t.Errorf("Extra role word should be rejected, got (%s, %v)", got, ok)
	}
}

func TestNormalizer_NormalizeStaff(t *testing.T) {
	n := NewNormalizer(Config{})

	s := &model.StaffMember{Name: "Dr. Popescu", Department: "Chirurgie Generală"}
	got, ok := n.NormalizeStaff(s)
	if !ok || got != model.DeptChirurgie {
		t.Errorf("NormalizeStaff = (%s, %v), expected (chirurgie, true)", got, ok)
	}

	s = &model.StaffMember{Name: "Asistenta Ionescu", Department: "asistenta"}
	got, ok = n.NormalizeStaff(s)
	if ok || got != model.DeptUnresolved {
		t.Errorf("Role word label should resolve to unassigned, got (%s, %v)", got, ok)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "  Medicina   Internă ", expected: "medicina interna"},
		{raw: "A.T.I.", expected: "a t i"},
		{raw: "chirurgie-generala", expected: "chirurgie generala"},
		{raw: "ȘȚĂÎ", expected: "stai"},
		{raw: "", expected: ""},
	}

	for _, tt := range tests {
		if got := fold(tt.raw); got != tt.expected {
			t.Errorf("fold(%q) = %q, expected %q", tt.raw, got, tt.expected)
		}
	}
}
