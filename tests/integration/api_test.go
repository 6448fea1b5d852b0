package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/internal/handler"
	"github.com/zhiban/zhiban/internal/middleware"
	"github.com/zhiban/zhiban/pkg/department"
	"github.com/zhiban/zhiban/pkg/generator"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/policy"
)

// newTestMux 构建与生产配置一致的路由（无数据库）
func newTestMux() *http.ServeMux {
	normalizer := department.NewNormalizer(department.Config{})
	orch := generator.NewOrchestrator(normalizer, policy.NewRegistry(), generator.DefaultOptions())
	rosterHandler := handler.NewRosterHandler(orch, normalizer, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/roster/generate", rosterHandler.Generate)
	mux.HandleFunc("/api/v1/roster/validate", rosterHandler.Validate)
	mux.HandleFunc("/api/v1/roster/swap", handler.SwapHandler)
	mux.HandleFunc("/api/v1/stats/fairness", handler.FairnessHandler)
	mux.HandleFunc("/api/v1/stats/coverage", handler.CoverageHandler)
	return mux
}

func newStaff(hospitalID uuid.UUID, name, dept string) *model.StaffMember {
	return &model.StaffMember{
		BaseModel:  model.NewBaseModel(),
		HospitalID: hospitalID,
		Name:       name,
		Department: dept,
	}
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// TestRosterAPI_Generate 测试值班生成端点（无状态路径）
func TestRosterAPI_Generate(t *testing.T) {
	mux := newTestMux()
	hospitalID := uuid.New()

	request := handler.GenerateRequest{
		HospitalID: hospitalID.String(),
		Year:       2026,
		Month:      11,
		Staff: []*model.StaffMember{
			newStaff(hospitalID, "王医生", "interne"),
			newStaff(hospitalID, "李医生", "interne"),
			newStaff(hospitalID, "张医生", "interne"),
		},
	}

	rec := postJSON(t, mux, "/api/v1/roster/generate", request)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handler.GenerateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.Success {
		t.Error("Expected success=true")
	}
	if len(resp.Shifts) != 27 {
		t.Errorf("Expected 27 shifts, got %d", len(resp.Shifts))
	}
	if resp.Stats == nil || resp.Stats.ShiftsGenerated != 27 {
		t.Error("Stats.ShiftsGenerated mismatch")
	}
	if resp.Fairness == nil {
		t.Error("Expected fairness report in stateless response")
	}

	t.Logf("Generated %d shifts, fill rate %.1f%%", resp.Stats.ShiftsGenerated, resp.Stats.FillRate)
}

// TestRosterAPI_Generate_InvalidMonth 测试非法月份返回错误
func TestRosterAPI_Generate_InvalidMonth(t *testing.T) {
	mux := newTestMux()

	request := handler.GenerateRequest{
		HospitalID: uuid.New().String(),
		Year:       2026,
		Month:      13,
	}

	rec := postJSON(t, mux, "/api/v1/roster/generate", request)
	if rec.Code == http.StatusOK {
		t.Errorf("Expected error status for month 13, got %d", rec.Code)
	}

	t.Logf("Invalid month rejected with %d: %s", rec.Code, rec.Body.String())
}

// TestRosterAPI_Generate_MethodNotAllowed 测试非POST请求被拒绝
func TestRosterAPI_Generate_MethodNotAllowed(t *testing.T) {
	mux := newTestMux()

	req := httptest.NewRequest("GET", "/api/v1/roster/generate", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

// TestRosterAPI_Validate 测试值班表校验端点
func TestRosterAPI_Validate(t *testing.T) {
	mux := newTestMux()
	hospitalID := uuid.New()

	doctor := newStaff(hospitalID, "王医生", "interne")
	shift := func(date string) *model.GeneratedShift {
		return &model.GeneratedShift{
			ID:         uuid.New(),
			HospitalID: hospitalID,
			StaffID:    doctor.ID,
			StaffName:  doctor.Name,
			Department: model.DeptInterne,
			Date:       date,
			Type:       model.ShiftType24h,
		}
	}

	// 同一人同一天两个班次
	request := handler.ValidateRequest{
		Shifts: []*model.GeneratedShift{shift("2026-11-10"), shift("2026-11-10")},
		Staff:  []*model.StaffMember{doctor},
	}

	rec := postJSON(t, mux, "/api/v1/roster/validate", request)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp handler.ValidateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Valid {
		t.Error("Expected valid=false for double booking")
	}
	if len(resp.Conflicts) == 0 {
		t.Error("Expected conflicts for double booking")
	}

	t.Logf("Detected %d conflicts", len(resp.Conflicts))
}

// TestStatsAPI_Fairness 测试公平性统计端点
func TestStatsAPI_Fairness(t *testing.T) {
	mux := newTestMux()
	hospitalID := uuid.New()

	a := newStaff(hospitalID, "王医生", "interne")
	b := newStaff(hospitalID, "李医生", "interne")

	shifts := []*model.GeneratedShift{
		{ID: uuid.New(), HospitalID: hospitalID, StaffID: a.ID, StaffName: a.Name, Department: model.DeptInterne, Date: "2026-11-02", Type: model.ShiftType24h},
		{ID: uuid.New(), HospitalID: hospitalID, StaffID: a.ID, StaffName: a.Name, Department: model.DeptInterne, Date: "2026-11-07", Type: model.ShiftType24h},
		{ID: uuid.New(), HospitalID: hospitalID, StaffID: b.ID, StaffName: b.Name, Department: model.DeptInterne, Date: "2026-11-04", Type: model.ShiftType24h},
	}

	request := handler.StatsRequest{
		Shifts: shifts,
		Staff:  []*model.StaffMember{a, b},
	}

	rec := postJSON(t, mux, "/api/v1/stats/fairness", request)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp handler.FairnessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Data == nil {
		t.Fatal("Expected fairness data")
	}
	if resp.Data.Mean != 1.5 {
		t.Errorf("Expected mean 1.5, got %.2f", resp.Data.Mean)
	}
	if resp.Data.FairnessScore != 97.5 {
		t.Errorf("Expected fairness score 97.5, got %.2f", resp.Data.FairnessScore)
	}

	t.Logf("Fairness score: %.1f", resp.Data.FairnessScore)
}

// TestStatsAPI_Coverage 测试覆盖率统计端点
func TestStatsAPI_Coverage(t *testing.T) {
	mux := newTestMux()

	request := handler.StatsRequest{
		GenStats: &model.GenerationStats{
			HospitalID:      uuid.New(),
			Year:            2026,
			Month:           11,
			DaysInMonth:     30,
			ShiftsNeeded:    30,
			ShiftsGenerated: 27,
			UnassignedDates: []string{"2026-11-22", "2026-11-28", "2026-11-29"},
			Departments: []model.DepartmentStats{
				{
					Department:      model.DeptInterne,
					Enabled:         true,
					DaysInMonth:     30,
					ShiftsNeeded:    30,
					ShiftsGenerated: 27,
					UnassignedDates: []string{"2026-11-22", "2026-11-28", "2026-11-29"},
				},
			},
		},
	}

	rec := postJSON(t, mux, "/api/v1/stats/coverage", request)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp handler.CoverageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp.Data == nil {
		t.Fatal("Expected coverage data")
	}
	if resp.Data.OverallCoverage != 90 {
		t.Errorf("Expected overall coverage 90, got %.2f", resp.Data.OverallCoverage)
	}
	if resp.Data.WeekdayCoverage != 100 {
		t.Errorf("Expected weekday coverage 100, got %.2f", resp.Data.WeekdayCoverage)
	}
	// 未排的三天全部是周末
	expectedWeekend := float64(9-3) / 9 * 100
	if diff := resp.Data.WeekendCoverage - expectedWeekend; diff > 0.01 || diff < -0.01 {
		t.Errorf("Expected weekend coverage %.2f, got %.2f", expectedWeekend, resp.Data.WeekendCoverage)
	}

	t.Logf("Coverage: overall %.1f%%, weekend %.1f%%", resp.Data.OverallCoverage, resp.Data.WeekendCoverage)
}

// TestRosterAPI_Swap 测试换班推荐端点
func TestRosterAPI_Swap(t *testing.T) {
	mux := newTestMux()
	hospitalID := uuid.New()

	a := newStaff(hospitalID, "王医生", "interne")
	b := newStaff(hospitalID, "李医生", "interne")
	c := newStaff(hospitalID, "张医生", "interne")

	shifts := []*model.GeneratedShift{
		{ID: uuid.New(), HospitalID: hospitalID, StaffID: a.ID, StaffName: a.Name, Department: model.DeptInterne, Date: "2026-11-10", Type: model.ShiftType24h},
		{ID: uuid.New(), HospitalID: hospitalID, StaffID: b.ID, StaffName: b.Name, Department: model.DeptInterne, Date: "2026-11-20", Type: model.ShiftType24h},
	}

	request := handler.SwapRequest{
		Shifts:  shifts,
		Staff:   []*model.StaffMember{a, b, c},
		StaffID: a.ID.String(),
		Date:    "2026-11-10",
	}

	rec := postJSON(t, mux, "/api/v1/roster/swap", request)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handler.SwapResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(resp.Recommendations) == 0 {
		t.Fatal("Expected swap recommendations")
	}
	if resp.Recommendations[0].Rank != 1 {
		t.Errorf("Expected first recommendation rank 1, got %d", resp.Recommendations[0].Rank)
	}
	for i := 1; i < len(resp.Recommendations); i++ {
		if resp.Recommendations[i].Score > resp.Recommendations[i-1].Score {
			t.Error("Recommendations not sorted by score")
		}
	}

	t.Logf("Got %d recommendations, top: %s (%.0f)", len(resp.Recommendations),
		resp.Recommendations[0].SwapType, resp.Recommendations[0].Score)
}

// TestMiddleware_RequestID 测试请求ID中间件
func TestMiddleware_RequestID(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middleware.RequestID(inner)

	// 无请求头时自动生成
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected generated X-Request-ID header")
	}

	// 带请求头时透传
	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-12345")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-12345" {
		t.Errorf("Expected X-Request-ID passthrough, got %q", got)
	}
}
