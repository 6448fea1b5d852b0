package swap

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/zhiban/zhiban/pkg/model"
)

// Recommendation 换班推荐
type Recommendation struct {
	Target     *model.StaffMember `json:"target"`
	TargetDate string             `json:"target_date,omitempty"`
	SwapType   string             `json:"swap_type"` // take_over/exchange
	Score      float64            `json:"score"`
	Reason     string             `json:"reason"`
	Issues     []Issue            `json:"issues,omitempty"`
	Rank       int                `json:"rank"`
}

// Options 推荐选项
type Options struct {
	MaxRecommendations int
	AllowExchange      bool
	MinScore           float64
	Exclude            []uuid.UUID
}

// DefaultOptions 返回默认推荐选项
func DefaultOptions() *Options {
	return &Options{
		MaxRecommendations: 5,
		AllowExchange:      true,
		MinScore:           50,
	}
}

// Recommender 换班推荐器
// 为一个需要让出的班次寻找可行的接班人或互换对象，
// 按评估分数降序给出候选列表。
type Recommender struct {
	evaluator *Evaluator
}

// NewRecommender 创建换班推荐器
func NewRecommender() *Recommender {
	return &Recommender{evaluator: NewEvaluator()}
}

// Recommend 为指定班次推荐换班目标
func (r *Recommender) Recommend(ctx *Context, source *model.GeneratedShift, opts *Options) []Recommendation {
	if opts == nil {
		opts = DefaultOptions()
	}

	exclude := make(map[uuid.UUID]bool, len(opts.Exclude)+1)
	exclude[source.StaffID] = true
	for _, id := range opts.Exclude {
		exclude[id] = true
	}

	var candidates []Recommendation
	for _, m := range ctx.Staff {
		if exclude[m.ID] {
			continue
		}

		eval := r.evaluator.Evaluate(ctx, &Request{SourceShift: source, Target: m})
		if eval.Feasible && eval.Score >= opts.MinScore {
			candidates = append(candidates, Recommendation{
				Target:   m,
				SwapType: "take_over",
				Score:    eval.Score,
				Reason:   takeoverReason(eval),
				Issues:   eval.Issues,
			})
		}

		if opts.AllowExchange {
			candidates = append(candidates, r.exchangeCandidates(ctx, source, m, opts)...)
		}
	}

	// 分数降序，平局按姓名保证确定性
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Target.Name < candidates[j].Target.Name
	})

	if len(candidates) > opts.MaxRecommendations {
		candidates = candidates[:opts.MaxRecommendations]
	}
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates
}

// exchangeCandidates 评估与目标人员各班次的互换
func (r *Recommender) exchangeCandidates(
	ctx *Context,
	source *model.GeneratedShift,
	target *model.StaffMember,
	opts *Options,
) []Recommendation {
	var out []Recommendation
	for _, ts := range ctx.StaffShifts(target.ID) {
		if ts.Date == source.Date {
			continue
		}

		eval := r.evaluator.Evaluate(ctx, &Request{
			SourceShift: source,
			Target:      target,
			TargetDate:  ts.Date,
		})
		if !eval.Feasible || eval.Score < opts.MinScore {
			continue
		}

		out = append(out, Recommendation{
			Target:     target,
			TargetDate: ts.Date,
			SwapType:   "exchange",
			Score:      eval.Score,
			Reason:     fmt.Sprintf("与 %s 的班次互换", ts.Date),
			Issues:     eval.Issues,
		})
	}
	return out
}

// FindCover 为请假人员的某个班次找最佳接班人
func (r *Recommender) FindCover(ctx *Context, staffID uuid.UUID, date string) *Recommendation {
	var source *model.GeneratedShift
	for _, s := range ctx.StaffShifts(staffID) {
		if s.Date == date {
			source = s
			break
		}
	}
	if source == nil {
		return nil
	}

	recs := r.Recommend(ctx, source, &Options{
		MaxRecommendations: 1,
		MinScore:           40,
	})
	if len(recs) == 0 {
		return nil
	}
	return &recs[0]
}

// takeoverReason 生成接班推荐原因
func takeoverReason(eval *Evaluation) string {
	if len(eval.Issues) == 0 {
		return "无规则冲突，可直接接班"
	}
	return "可接班，存在少量提醒"
}
