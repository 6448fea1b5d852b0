package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/swap"
)

// SwapRequest 换班推荐请求
type SwapRequest struct {
	Shifts     []*model.GeneratedShift `json:"shifts"`
	Staff      []*model.StaffMember    `json:"staff"`
	StaffID    string                  `json:"staff_id"`
	Date       string                  `json:"date"`
	WeekendCap int                     `json:"weekend_cap,omitempty"`
	MaxResults int                     `json:"max_results,omitempty"`
}

// SwapResponse 换班推荐响应
type SwapResponse struct {
	Success         bool                  `json:"success"`
	Recommendations []swap.Recommendation `json:"recommendations"`
}

// SwapHandler 换班推荐API
// POST /api/v1/roster/swap
func SwapHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendBadRequest(w, "请求体解析失败: "+err.Error())
		return
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		sendBadRequest(w, "staff_id 格式非法")
		return
	}

	ctx := swap.NewContext(req.Staff, req.Shifts, req.WeekendCap)

	var source *model.GeneratedShift
	for _, s := range ctx.StaffShifts(staffID) {
		if s.Date == req.Date {
			source = s
			break
		}
	}
	if source == nil {
		sendBadRequest(w, "指定人员在该日期没有班次")
		return
	}

	opts := swap.DefaultOptions()
	if req.MaxResults > 0 {
		opts.MaxRecommendations = req.MaxResults
	}

	recs := swap.NewRecommender().Recommend(ctx, source, opts)
	if recs == nil {
		recs = make([]swap.Recommendation, 0)
	}

	sendJSON(w, http.StatusOK, SwapResponse{Success: true, Recommendations: recs})
}
