// Package handler 提供HTTP请求处理器
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/zhiban/zhiban/pkg/errors"
)

// errorResponse 统一错误响应
type errorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// sendJSON 写出JSON响应
func sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// sendError 写出错误响应，状态码取自错误码映射
func sendError(w http.ResponseWriter, err error) {
	sendJSON(w, errors.GetHTTPStatus(err), errorResponse{
		Error:   true,
		Code:    string(errors.GetCode(err)),
		Message: err.Error(),
	})
}

// sendBadRequest 写出请求格式错误响应
func sendBadRequest(w http.ResponseWriter, message string) {
	sendJSON(w, http.StatusBadRequest, errorResponse{
		Error:   true,
		Code:    string(errors.CodeInvalidInput),
		Message: message,
	})
}
