// Package errors 提供统一的应用错误类型与错误响应处理
package errors

import (
	"errors"
	"time"

	"github.com/haierkeys/note-collab-service/internal/middleware"
	"github.com/haierkeys/note-collab-service/pkg/app"
	"github.com/haierkeys/note-collab-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError 统一应用错误结构体
// 包含错误码、消息、详情、追踪ID和时间戳
type AppError struct {
	// Code 错误码
	Code int `json:"code"`
	// Message 错误消息
	Message string `json:"message"`
	// Details 错误详情（可选）
	Details []string `json:"details,omitempty"`
	// TraceID 请求追踪ID
	TraceID string `json:"traceId,omitempty"`
	// Cause 原始错误（不序列化到JSON）
	Cause error `json:"-"`
	// Timestamp 错误发生时间
	Timestamp time.Time `json:"timestamp"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap 实现 errors.Unwrap 接口，支持错误链路追踪
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError 从 Code 对象创建 AppError
func NewAppError(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:      c.Code(),
		Message:   c.Msg(),
		Details:   c.Details(),
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// WithTraceID 设置 TraceID 并返回自身（链式调用）
func (e *AppError) WithTraceID(traceID string) *AppError {
	e.TraceID = traceID
	return e
}

// WithDetails 设置详情并返回自身（链式调用）
func (e *AppError) WithDetails(details ...string) *AppError {
	e.Details = details
	return e
}

// ErrorResponse 统一错误响应处理
// 服务层返回的错误为 *code.Code，按其错误码和 HTTP 状态码输出统一响应；
// 其它错误一律按服务器内部错误处理，避免泄露内部细节
func ErrorResponse(c *gin.Context, err error) {
	response := app.NewResponse(c)

	var appErr *AppError
	if errors.As(err, &appErr) {
		var codeErr *code.Code
		if errors.As(appErr.Cause, &codeErr) {
			response.ToResponse(codeErr.WithDetails(appErr.Details...))
			return
		}
		response.ToResponse(code.ErrorServerInternal.WithDetails(appErr.Message))
		return
	}

	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		response.ToResponse(codeErr)
		return
	}

	traceID := middleware.GetTraceIDFromGin(c)
	response.ToResponse(code.ErrorServerInternal.WithDetails(traceID))
}
