// Package department 提供科室标签归一化
package department

import (
	"strings"

	"github.com/zhiban/zhiban/pkg/logger"
	"github.com/zhiban/zhiban/pkg/model"
)

// Config 归一化配置
// 同义词表作为显式配置传入，不使用包级可变状态，
// 以便多医院/多租户并发评估时互不污染。
type Config struct {
	// ExtraSynonyms 附加同义词（折叠后的标签 -> 规范科室），覆盖内置表
	ExtraSynonyms map[string]model.Department

	// ExtraRoleWords 附加职称词（这些词不是科室，显式归类为 unresolved）
	ExtraRoleWords []string
}

// Normalizer 科室标签归一化器
// Normalize 为纯函数且全量覆盖：任何输入都返回结果，从不报错。
type Normalizer struct {
	synonyms  map[string]model.Department
	roleWords map[string]bool
	logger    *logger.GeneratorLogger
}

// 内置同义词表：各规范科室的已知拼写与缩写（均为折叠后形式）
var builtinSynonyms = map[string]model.Department{
	// 内科
	"interne":          model.DeptInterne,
	"medicina interna": model.DeptInterne,
	"medicala":         model.DeptInterne,
	"int":              model.DeptInterne,

	// 外科
	"chirurgie":          model.DeptChirurgie,
	"chirurgie generala": model.DeptChirurgie,
	"chir":               model.DeptChirurgie,

	// 儿科
	"pediatrie": model.DeptPediatrie,
	"ped":       model.DeptPediatrie,
	"copii":     model.DeptPediatrie,

	// 麻醉与重症监护
	"ati":               model.DeptATI,
	"a t i":             model.DeptATI,
	"terapie intensiva": model.DeptATI,
	"anestezie":         model.DeptATI,

	// 检验科
	"laborator": model.DeptLaborator,
	"lab":       model.DeptLaborator,
	"labor":     model.DeptLaborator,
	"analize":   model.DeptLaborator,

	// 放射科
	"radiologie": model.DeptRadiologie,
	"radiologia": model.DeptRadiologie,
	"rtg":        model.DeptRadiologie,
	"imagistica": model.DeptRadiologie,
}

// 内置职称词：被误填为科室的职位名称，显式拒绝而不是猜测归属
var builtinRoleWords = []string{
	"medic",
	"doctor",
	"dr",
	"asistent",
	"asistenta",
	"rezident",
	"infirmier",
	"infirmiera",
	"nurse",
	"sef sectie",
}

// NewNormalizer 创建归一化器
func NewNormalizer(cfg Config) *Normalizer {
	n := &Normalizer{
		synonyms:  make(map[string]model.Department, len(builtinSynonyms)),
		roleWords: make(map[string]bool, len(builtinRoleWords)),
		logger:    logger.NewGeneratorLogger(),
	}

	for k, v := range builtinSynonyms {
		n.synonyms[k] = v
	}
	for k, v := range cfg.ExtraSynonyms {
		n.synonyms[fold(k)] = v
	}

	for _, w := range builtinRoleWords {
		n.roleWords[w] = true
	}
	for _, w := range cfg.ExtraRoleWords {
		n.roleWords[fold(w)] = true
	}

	return n
}

// Normalize 将自由文本科室标签映射为规范科室
// 第二个返回值表示是否成功归类；失败时返回 DeptUnresolved 并记录诊断日志。
func (n *Normalizer) Normalize(raw string) (model.Department, bool) {
	folded := fold(raw)
	if folded == "" {
		return model.DeptUnresolved, false
	}

	// 职称词不是科室，显式拒绝
	if n.roleWords[folded] {
		n.logger.UnresolvedDepartment("", raw)
		return model.DeptUnresolved, false
	}

	// 折叠后已是规范名时原样返回
	if d := model.Department(folded); d.IsCanonical() {
		return d, true
	}

	if d, ok := n.synonyms[folded]; ok {
		return d, true
	}

	n.logger.UnresolvedDepartment("", raw)
	return model.DeptUnresolved, false
}

// NormalizeStaff 归一化某位人员的科室标签，失败时带人员名记录诊断
func (n *Normalizer) NormalizeStaff(s *model.StaffMember) (model.Department, bool) {
	folded := fold(s.Department)
	if folded == "" || n.roleWords[folded] {
		n.logger.UnresolvedDepartment(s.Name, s.Department)
		return model.DeptUnresolved, false
	}
	if d := model.Department(folded); d.IsCanonical() {
		return d, true
	}
	if d, ok := n.synonyms[folded]; ok {
		return d, true
	}
	n.logger.UnresolvedDepartment(s.Name, s.Department)
	return model.DeptUnresolved, false
}

// diacriticMap 变音符号折叠表（覆盖罗马尼亚语及常见西欧字符）
var diacriticMap = map[rune]rune{
	'ă': 'a', 'â': 'a', 'á': 'a', 'à': 'a', 'ä': 'a',
	'î': 'i', 'í': 'i', 'ì': 'i', 'ï': 'i',
	'ș': 's', 'ş': 's',
	'ț': 't', 'ţ': 't',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
}

// fold 折叠标签：小写、去变音符号、标点转空格、压缩空白
func fold(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if m, ok := diacriticMap[r]; ok {
			r = m
		}
		switch r {
		case '.', ',', '-', '_', '/':
			r = ' '
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
