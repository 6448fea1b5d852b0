// Package logger 提供统一的日志框架
package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level 日志级别
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config 日志配置
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init 初始化日志器
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel 解析日志级别
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 获取日志器
func Get() *zerolog.Logger {
	if logger.GetLevel() == zerolog.Disabled {
		Init(DefaultConfig())
	}
	return &logger
}

// WithContext 从上下文创建日志器
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Get().With().Logger()

	// 添加请求ID
	if reqID, ok := ctx.Value("request_id").(string); ok {
		l = l.With().Str("request_id", reqID).Logger()
	}

	// 添加医院ID
	if hospitalID, ok := ctx.Value("hospital_id").(string); ok {
		l = l.With().Str("hospital_id", hospitalID).Logger()
	}

	return &l
}

// Debug 记录调试日志
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info 记录信息日志
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn 记录警告日志
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error 记录错误日志
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal 记录致命错误日志
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError 添加错误信息
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// WithField 添加字段
func WithField(key string, value interface{}) *zerolog.Logger {
	l := Get().With().Interface(key, value).Logger()
	return &l
}

// GeneratorLogger 值班生成引擎专用日志器
type GeneratorLogger struct {
	base *zerolog.Logger
}

// NewGeneratorLogger 创建值班生成日志器
func NewGeneratorLogger() *GeneratorLogger {
	l := Get().With().Str("component", "generator").Logger()
	return &GeneratorLogger{base: &l}
}

// StartRun 记录生成开始
func (l *GeneratorLogger) StartRun(hospitalID string, departments, staff, days int) {
	l.base.Info().
		Str("hospital_id", hospitalID).
		Int("departments", departments).
		Int("staff", staff).
		Int("days", days).
		Msg("开始生成值班表")
}

// DepartmentDone 记录单科室生成完成
func (l *GeneratorLogger) DepartmentDone(dept string, generated, unassigned int) {
	l.base.Info().
		Str("department", dept).
		Int("generated", generated).
		Int("unassigned", unassigned).
		Msg("科室值班生成完成")
}

// UnassignedDate 记录无人可排的日期
func (l *GeneratorLogger) UnassignedDate(dept, date string) {
	l.base.Warn().
		Str("department", dept).
		Str("date", date).
		Msg("该日期无合格值班人")
}

// UnresolvedDepartment 记录无法归类的科室标签
func (l *GeneratorLogger) UnresolvedDepartment(staffName, rawLabel string) {
	l.base.Warn().
		Str("staff", staffName).
		Str("label", rawLabel).
		Msg("科室标签无法归类，相关人员不参与该科室排班")
}

// ReservationSkipped 记录被跳过的预约
func (l *GeneratorLogger) ReservationSkipped(dept, staffName, date, reason string) {
	l.base.Warn().
		Str("department", dept).
		Str("staff", staffName).
		Str("date", date).
		Str("reason", reason).
		Msg("预约未被采纳")
}

// RunComplete 记录生成完成
func (l *GeneratorLogger) RunComplete(hospitalID string, duration time.Duration, generated, unassigned int) {
	l.base.Info().
		Str("hospital_id", hospitalID).
		Dur("duration", duration).
		Int("generated", generated).
		Int("unassigned", unassigned).
		Msg("值班表生成完成")
}
