// Package errors 提供统一的错误处理框架
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code 错误码
type Code string

const (
	// 通用错误码
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// 值班生成相关
	CodeScheduleConflict     Code = "SCHEDULE_CONFLICT"      // 预约与已有班次冲突（致命）
	CodeNoEligibleStaff      Code = "NO_ELIGIBLE_STAFF"      // 某日期无合格值班人（诊断）
	CodeNoStaffForDepartment Code = "NO_STAFF_FOR_DEPT"      // 科室无在册人员（诊断）
	CodeUnresolvedDepartment Code = "UNRESOLVED_DEPARTMENT"  // 科室标签无法归类（诊断）
	CodeDepartmentDisabled   Code = "DEPARTMENT_DISABLED"    // 科室在该医院停用
	CodeInvalidMonth         Code = "INVALID_MONTH"          // 目标月份非法

	// 数据相关
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
	Cause      error                  `json:"-"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails 添加详细信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause 添加原因
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithField 添加字段
func (e *AppError) WithField(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// New 创建新错误
func New(code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code Code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// codeToHTTPStatus 错误码转HTTP状态码
func codeToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput, CodeInvalidMonth:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeScheduleConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeNoEligibleStaff, CodeNoStaffForDepartment:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Is 检查错误是否为特定类型
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode 获取错误码
func GetCode(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetHTTPStatus 获取HTTP状态码
func GetHTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// 预定义错误
var (
	ErrNotFound     = New(CodeNotFound, "资源不存在")
	ErrInvalidInput = New(CodeInvalidInput, "输入参数无效")
	ErrInternal     = New(CodeInternal, "内部错误")
	ErrTimeout      = New(CodeTimeout, "操作超时")
)

// InvalidInput 创建输入无效错误
func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("字段 '%s' 无效: %s", field, reason))
}

// InvalidMonth 创建目标月份非法错误
func InvalidMonth(year, month int) *AppError {
	return New(CodeInvalidMonth, fmt.Sprintf("目标月份非法: %d-%02d", year, month)).
		WithField("year", year).
		WithField("month", month)
}

// ScheduleConflict 创建值班冲突错误
// 预约与已有或本轮已生成的班次撞日时使用，指明冲突日期与人员。
func ScheduleConflict(staffName, date, details string) *AppError {
	return New(CodeScheduleConflict, fmt.Sprintf("人员 %s 在 %s 存在值班冲突: %s", staffName, date, details)).
		WithField("staff", staffName).
		WithField("date", date)
}

// UnresolvedDepartment 创建科室无法归类错误
func UnresolvedDepartment(label string) *AppError {
	return New(CodeUnresolvedDepartment, fmt.Sprintf("科室标签 '%s' 无法归类", label))
}

// NoStaffForDepartment 创建科室无人员错误
func NoStaffForDepartment(dept string) *AppError {
	return New(CodeNoStaffForDepartment, fmt.Sprintf("科室 %s 无在册人员", dept))
}
