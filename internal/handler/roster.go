package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/internal/roster"
	"github.com/zhiban/zhiban/pkg/department"
	"github.com/zhiban/zhiban/pkg/generator"
	"github.com/zhiban/zhiban/pkg/logger"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/stats"
	"github.com/zhiban/zhiban/pkg/validator"
)

// RosterHandler 值班表处理器
// service 可为空（未配置数据库时），此时生成端点要求请求自带人员快照。
type RosterHandler struct {
	orchestrator *generator.Orchestrator
	normalizer   *department.Normalizer
	service      *roster.Service
	auditor      *stats.Auditor
}

// NewRosterHandler 创建值班表处理器
func NewRosterHandler(orch *generator.Orchestrator, n *department.Normalizer, svc *roster.Service) *RosterHandler {
	return &RosterHandler{
		orchestrator: orch,
		normalizer:   n,
		service:      svc,
		auditor:      stats.NewAuditor(),
	}
}

// GenerateRequest 值班生成请求
// Staff/Existing 为空且 Persist 为真时从数据库加载快照。
type GenerateRequest struct {
	HospitalID string                 `json:"hospital_id"`
	Year       int                    `json:"year"`
	Month      int                    `json:"month"`
	Staff      []*model.StaffMember   `json:"staff,omitempty"`
	Existing   []*model.ExistingShift `json:"existing,omitempty"`
	Persist    bool                   `json:"persist,omitempty"`
}

// GenerateResponse 值班生成响应
type GenerateResponse struct {
	Success  bool                    `json:"success"`
	Shifts   []*model.GeneratedShift `json:"shifts"`
	Stats    *model.GenerationStats  `json:"stats"`
	Fairness *stats.FairnessReport   `json:"fairness,omitempty"`
}

// Generate 生成值班表
// POST /api/v1/roster/generate
func (h *RosterHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendBadRequest(w, "请求体解析失败: "+err.Error())
		return
	}

	hospitalID, err := uuid.Parse(req.HospitalID)
	if err != nil {
		sendBadRequest(w, "hospital_id 格式非法")
		return
	}

	logger.Info().
		Str("hospital_id", req.HospitalID).
		Int("year", req.Year).
		Int("month", req.Month).
		Int("staff", len(req.Staff)).
		Bool("persist", req.Persist).
		Msg("接收值班生成请求")

	// 持久化路径：快照从数据库加载，结果写回值班存储
	if req.Persist && h.service != nil {
		result, err := h.service.GenerateMonth(r.Context(), hospitalID, req.Year, time.Month(req.Month))
		if err != nil {
			sendError(w, err)
			return
		}
		sendJSON(w, http.StatusOK, GenerateResponse{
			Success:  true,
			Shifts:   result.Shifts,
			Stats:    result.Stats,
			Fairness: result.Fairness,
		})
		return
	}

	// 无状态路径：快照由请求体提供
	snap := &generator.Snapshot{Staff: req.Staff, Existing: req.Existing}
	shifts, genStats, err := h.orchestrator.Generate(r.Context(), hospitalID, req.Year, time.Month(req.Month), snap)
	if err != nil {
		sendError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, GenerateResponse{
		Success:  true,
		Shifts:   shifts,
		Stats:    genStats,
		Fairness: h.auditor.Audit(shifts, req.Staff),
	})
}

// ValidateRequest 值班表校验请求
type ValidateRequest struct {
	Shifts     []*model.GeneratedShift `json:"shifts"`
	Staff      []*model.StaffMember    `json:"staff"`
	WeekendCap int                     `json:"weekend_cap,omitempty"`
}

// ValidateResponse 值班表校验响应
type ValidateResponse struct {
	Success   bool                 `json:"success"`
	Valid     bool                 `json:"valid"`
	Conflicts []validator.Conflict `json:"conflicts"`
}

// Validate 校验值班表
// POST /api/v1/roster/validate
func (h *RosterHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendBadRequest(w, "请求体解析失败: "+err.Error())
		return
	}

	cfg := validator.DefaultDetectorConfig()
	if req.WeekendCap > 0 {
		cfg.WeekendCap = req.WeekendCap
	}

	staffByID := make(map[uuid.UUID]*model.StaffMember, len(req.Staff))
	for _, m := range req.Staff {
		staffByID[m.ID] = m
	}

	detector := validator.NewConflictDetector(cfg, h.normalizer)
	conflicts := detector.DetectAll(req.Shifts, staffByID)
	if conflicts == nil {
		conflicts = make([]validator.Conflict, 0)
	}

	sendJSON(w, http.StatusOK, ValidateResponse{
		Success:   true,
		Valid:     !validator.HasErrors(conflicts),
		Conflicts: conflicts,
	})
}
