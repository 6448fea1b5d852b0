package handler

import (
	"encoding/json"
	"net/http"

	"github.com/zhiban/zhiban/pkg/logger"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/stats"
)

// StatsRequest 统计分析请求
type StatsRequest struct {
	Shifts   []*model.GeneratedShift `json:"shifts"`
	Staff    []*model.StaffMember    `json:"staff,omitempty"`
	GenStats *model.GenerationStats  `json:"gen_stats,omitempty"`
}

// FairnessResponse 公平性响应
type FairnessResponse struct {
	Success bool                  `json:"success"`
	Data    *stats.FairnessReport `json:"data"`
}

// CoverageResponse 覆盖率响应
type CoverageResponse struct {
	Success bool                   `json:"success"`
	Data    *stats.CoverageMetrics `json:"data"`
}

// FairnessHandler 公平性分析API
// POST /api/v1/stats/fairness
func FairnessHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendBadRequest(w, "请求体解析失败: "+err.Error())
		return
	}

	logger.Debug().
		Int("shifts", len(req.Shifts)).
		Int("staff", len(req.Staff)).
		Msg("接收公平性分析请求")

	report := stats.NewAuditor().Audit(req.Shifts, req.Staff)
	sendJSON(w, http.StatusOK, FairnessResponse{Success: true, Data: report})
}

// CoverageHandler 覆盖率分析API
// POST /api/v1/stats/coverage
func CoverageHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req StatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendBadRequest(w, "请求体解析失败: "+err.Error())
		return
	}

	metrics := stats.NewCoverageAnalyzer().Analyze(req.Shifts, req.GenStats)
	sendJSON(w, http.StatusOK, CoverageResponse{Success: true, Data: metrics})
}
