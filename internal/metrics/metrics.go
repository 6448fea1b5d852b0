// Package metrics 提供Prometheus文本格式的监控指标
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Registry 指标注册表
type Registry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter 计数器
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge 仪表盘
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram 直方图
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

var (
	registry *Registry
	once     sync.Once
)

// GetRegistry 获取全局注册表
func GetRegistry() *Registry {
	once.Do(func() {
		registry = &Registry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		initDefaultMetrics()
	})
	return registry
}

// initDefaultMetrics 初始化默认指标
func initDefaultMetrics() {
	// 值班生成计数器
	registry.NewCounter("zhiban_generation_total", "值班生成次数", []string{"hospital_id", "status"})

	// 生成延迟直方图
	registry.NewHistogram("zhiban_generation_duration_seconds", "值班生成延迟",
		[]string{"hospital_id"},
		[]float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0})

	// 未排日期数
	registry.NewGauge("zhiban_unassigned_dates", "最近一次生成的未排日期数", []string{"hospital_id"})

	// 覆盖率
	registry.NewGauge("zhiban_fill_rate", "最近一次生成的覆盖率", []string{"hospital_id"})

	// 公平性评分
	registry.NewGauge("zhiban_fairness_score", "最近一次生成的公平性评分", []string{"hospital_id"})

	// 数据库连接池
	registry.NewGauge("zhiban_db_connections", "数据库连接数", []string{"state"})

	// HTTP请求
	registry.NewCounter("zhiban_http_requests_total", "HTTP请求数", []string{"method", "path", "status"})
	registry.NewHistogram("zhiban_http_request_duration_seconds", "HTTP请求延迟",
		[]string{"method", "path"},
		[]float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0})
}

// RecordRequest 记录一次HTTP请求
func RecordRequest(method, path string, status int, duration time.Duration) {
	r := GetRegistry()
	r.GetCounter("zhiban_http_requests_total").Inc(method, path, strconv.Itoa(status))
	r.GetHistogram("zhiban_http_request_duration_seconds").Observe(duration.Seconds(), method, path)
}

// NewCounter 创建计数器
func (r *Registry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := &Counter{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.counters[name] = counter
	return counter
}

// NewGauge 创建仪表盘
func (r *Registry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	gauge := &Gauge{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.gauges[name] = gauge
	return gauge
}

// NewHistogram 创建直方图
func (r *Registry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	histogram := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = histogram
	return histogram
}

// GetCounter 获取计数器
func (r *Registry) GetCounter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// GetGauge 获取仪表盘
func (r *Registry) GetGauge(name string) *Gauge {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gauges[name]
}

// GetHistogram 获取直方图
func (r *Registry) GetHistogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc 增加计数
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add 增加指定值
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Set 设置值
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Add 增加指定值
func (g *Gauge) Add(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] += value
}

// Observe 记录观测值
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)

	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}

	for i, bucket := range h.Buckets {
		if value <= bucket {
			h.counts[key][i]++
		}
	}
	h.counts[key][len(h.Buckets)]++ // +Inf bucket

	h.sums[key] += value
}

// labelKey 生成标签键
func labelKey(labels []string) string {
	return strings.Join(labels, ",")
}

// formatLabels 格式化标签对
func formatLabels(names []string, key string) string {
	if key == "" || len(names) == 0 {
		return ""
	}
	values := strings.Split(key, ",")
	pairs := make([]string, 0, len(names))
	for i, n := range names {
		if i < len(values) {
			pairs = append(pairs, fmt.Sprintf("%s=%q", n, values[i]))
		}
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

// withBucketLabel 拼装带 le 标签的直方图标签组
func withBucketLabel(names []string, key, le string) string {
	pairs := make([]string, 0, len(names)+1)
	if key != "" && len(names) > 0 {
		values := strings.Split(key, ",")
		for i, n := range names {
			if i < len(values) {
				pairs = append(pairs, fmt.Sprintf("%s=%q", n, values[i]))
			}
		}
	}
	pairs = append(pairs, fmt.Sprintf("le=%q", le))
	return "{" + strings.Join(pairs, ",") + "}"
}

// Handler 返回Prometheus文本格式的指标HTTP处理器
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, GetRegistry().Export())
	})
}

// Export 导出全部指标为Prometheus文本格式
func (r *Registry) Export() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder

	for _, name := range sortedKeys(r.counters) {
		c := r.counters[name]
		c.mu.RLock()
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s counter\n", c.Name, c.Help, c.Name)
		for _, key := range sortedValueKeys(c.values) {
			fmt.Fprintf(&b, "%s%s %g\n", c.Name, formatLabels(c.Labels, key), c.values[key])
		}
		c.mu.RUnlock()
	}

	for _, name := range sortedKeys(r.gauges) {
		g := r.gauges[name]
		g.mu.RLock()
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s gauge\n", g.Name, g.Help, g.Name)
		for _, key := range sortedValueKeys(g.values) {
			fmt.Fprintf(&b, "%s%s %g\n", g.Name, formatLabels(g.Labels, key), g.values[key])
		}
		g.mu.RUnlock()
	}

	for _, name := range sortedKeys(r.histograms) {
		h := r.histograms[name]
		h.mu.RLock()
		fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s histogram\n", h.Name, h.Help, h.Name)
		histKeys := make([]string, 0, len(h.counts))
		for key := range h.counts {
			histKeys = append(histKeys, key)
		}
		sort.Strings(histKeys)
		for _, key := range histKeys {
			counts := h.counts[key]
			labels := formatLabels(h.Labels, key)
			for i, bucket := range h.Buckets {
				fmt.Fprintf(&b, "%s_bucket%s %d\n", h.Name,
					withBucketLabel(h.Labels, key, fmt.Sprintf("%g", bucket)), counts[i])
			}
			fmt.Fprintf(&b, "%s_bucket%s %d\n", h.Name,
				withBucketLabel(h.Labels, key, "+Inf"), counts[len(h.Buckets)])
			fmt.Fprintf(&b, "%s_sum%s %g\n", h.Name, labels, h.sums[key])
			fmt.Fprintf(&b, "%s_count%s %d\n", h.Name, labels, counts[len(h.Buckets)])
		}
		h.mu.RUnlock()
	}

	return b.String()
}

// sortedKeys 返回映射的有序键
func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedValueKeys 返回值表的有序键
func sortedValueKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
