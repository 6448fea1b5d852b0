// ZhiBan 医院值班排班引擎服务
// 主程序入口

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zhiban/zhiban/internal/config"
	"github.com/zhiban/zhiban/internal/database"
	"github.com/zhiban/zhiban/internal/handler"
	"github.com/zhiban/zhiban/internal/metrics"
	"github.com/zhiban/zhiban/internal/middleware"
	"github.com/zhiban/zhiban/internal/repository"
	"github.com/zhiban/zhiban/internal/roster"
	"github.com/zhiban/zhiban/pkg/department"
	"github.com/zhiban/zhiban/pkg/generator"
	"github.com/zhiban/zhiban/pkg/logger"
	"github.com/zhiban/zhiban/pkg/model"
	"github.com/zhiban/zhiban/pkg/policy"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logFormat := "json"
	if cfg.IsDevelopment() {
		logFormat = "console"
	}
	logger.Init(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: logFormat,
	})

	// 打印版本信息
	fmt.Printf("ZhiBan 值班排班引擎 v%s\n", Version)
	fmt.Printf("Build: %s (%s)\n", BuildTime, GitCommit)
	fmt.Println()

	// 获取端口配置
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "7012"
	}

	// 核心组件
	normalizer := department.NewNormalizer(department.Config{})
	registry := policy.NewRegistry()
	orch := generator.NewOrchestrator(normalizer, registry, generator.Options{
		WeekendCap: cfg.Generator.WeekendCap,
		ShiftType:  model.ShiftType(cfg.Generator.DefaultShiftType),
	})
	orch.SetWorkers(cfg.Generator.Workers)

	// 数据库连接（可选：未配置时以无持久化模式运行）
	var rosterService *roster.Service
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Warn().Err(err).Msg("数据库连接失败，以无持久化模式运行")
		db = nil
	} else {
		defer db.Close()
		rosterService = roster.NewService(
			orch,
			repository.NewRosterRepository(db),
			repository.NewStaffRepository(db),
		)
	}

	// 创建处理器
	rosterHandler := handler.NewRosterHandler(orch, normalizer, rosterService)

	// 创建 HTTP 服务器
	mux := http.NewServeMux()

	// ========================================
	// 系统端点
	// ========================================

	// 健康检查端点
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.Health(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status":"degraded","service":"zhiban","database":"down"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"zhiban"}`))
	})

	// 版本信息端点
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","build_time":"%s","git_commit":"%s"}`, Version, BuildTime, GitCommit)
	})

	// ========================================
	// API v1 端点
	// ========================================

	// API 根路由
	mux.HandleFunc("/api/v1/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"message": "ZhiBan 值班排班引擎 API v1",
			"endpoints": {
				"roster": {
					"generate": "POST /api/v1/roster/generate",
					"validate": "POST /api/v1/roster/validate",
					"swap": "POST /api/v1/roster/swap"
				},
				"stats": {
					"fairness": "POST /api/v1/stats/fairness",
					"coverage": "POST /api/v1/stats/coverage"
				}
			}
		}`))
	})

	// 值班表生成 API
	mux.HandleFunc("/api/v1/roster/generate", rosterHandler.Generate)

	// 值班表验证 API
	mux.HandleFunc("/api/v1/roster/validate", rosterHandler.Validate)

	// 换班推荐 API
	mux.HandleFunc("/api/v1/roster/swap", handler.SwapHandler)

	// ========================================
	// 统计分析 API
	// ========================================

	// 公平性分析 API
	mux.HandleFunc("/api/v1/stats/fairness", handler.FairnessHandler)

	// 覆盖率分析 API
	mux.HandleFunc("/api/v1/stats/coverage", handler.CoverageHandler)

	// ========================================
	// 监控端点
	// ========================================

	// Prometheus 指标端点
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	// ========================================
	// 中间件
	// ========================================

	// 中间件执行顺序：recovery -> requestID -> rateLimit -> cors -> logging -> handler
	limiter := middleware.NewRateLimiter(100)
	h := middleware.Recovery(
		middleware.RequestID(
			middleware.RateLimit(limiter)(
				middleware.CORS(
					middleware.Logging(mux),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      h,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 启动服务器（非阻塞）
	go func() {
		logger.Info().
			Str("port", port).
			Str("version", Version).
			Str("env", cfg.App.Env).
			Str("url", fmt.Sprintf("http://localhost:%s", port)).
			Msg("服务器启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("服务器启动失败")
			os.Exit(1)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
		os.Exit(1)
	}

	logger.Info().Msg("服务器已关闭")
}
