/**
 * @projectName: LiveTrack
 * @package: errorx
 * @className: error
 * @description: 业务错误类型
 * @version: 1.0
 */

package errorx

import (
	"fmt"

	"github.com/pkg/errors"
	"google.golang.org/grpc/status"
)

// BizError 业务错误，实现 error 接口
type BizError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error 实现 error 接口
func (e *BizError) Error() string {
	return fmt.Sprintf("BizError: code=%d, message=%s", e.Code, e.Message)
}

// GetCode 获取错误码
func (e *BizError) GetCode() int {
	return e.Code
}

// GetMessage 获取错误消息
func (e *BizError) GetMessage() string {
	return e.Message
}

// New 创建业务错误（使用默认消息）
func New(code int) *BizError {
	return &BizError{
		Code:    code,
		Message: GetMessage(code),
	}
}

// NewWithMessage 创建业务错误（自定义消息）
func NewWithMessage(code int, message string) *BizError {
	return &BizError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误，添加上下文信息
func Wrap(code int, err error) *BizError {
	if err == nil {
		return New(code)
	}
	return &BizError{
		Code:    code,
		Message: fmt.Sprintf("%s: %v", GetMessage(code), err),
	}
}

// Is 判断是否为特定错误码
func Is(err error, code int) bool {
	if err == nil {
		return false
	}
	if bizErr, ok := err.(*BizError); ok {
		return bizErr.Code == code
	}
	return false
}

// FromError 从 error 转换为 BizError
// 支持以下错误类型：
//  1. *BizError：直接返回
//  2. gRPC Status：解析 message 中的业务错误
//  3. 其他错误：返回内部错误（隐藏细节）
func FromError(err error) *BizError {
	if err == nil {
		return nil
	}

	// 获取原始错误（支持 errors.Wrap 包装的错误）
	causeErr := errors.Cause(err)

	// 1. 检查是否是本地 BizError
	if bizErr, ok := causeErr.(*BizError); ok {
		return bizErr
	}

	// 2. 检查是否是 gRPC Status
	if gstatus, ok := status.FromError(causeErr); ok {
		message := gstatus.Message()
		grpcCode := int(gstatus.Code())

		// 尝试解析 "BizError: code=xxx, message=xxx" 格式
		var bizCode int
		n, _ := fmt.Sscanf(message, "BizError: code=%d, message=", &bizCode)
		if n == 1 && IsValidCode(bizCode) {
			prefix := fmt.Sprintf("BizError: code=%d, message=", bizCode)
			bizMsg := GetMessage(bizCode)
			if len(message) > len(prefix) {
				bizMsg = message[len(prefix):]
			}
			return &BizError{
				Code:    bizCode,
				Message: bizMsg,
			}
		}

		// 如果 gRPC code 本身是业务错误码
		if IsValidCode(grpcCode) {
			return &BizError{
				Code:    grpcCode,
				Message: message,
			}
		}
	}

	// 3. 其他错误：返回内部错误，不暴露细节
	return &BizError{
		Code:    CodeInternalError,
		Message: "内部服务器错误",
	}
}

// ============ 常用错误快捷方法 ============

// ErrInternalError 内部错误
func ErrInternalError() *BizError {
	return New(CodeInternalError)
}

// ErrInvalidParams 参数错误
func ErrInvalidParams(msg string) *BizError {
	if msg == "" {
		return New(CodeInvalidParams)
	}
	return NewWithMessage(CodeInvalidParams, msg)
}

// ErrNotFound 资源不存在
func ErrNotFound() *BizError {
	return New(CodeNotFound)
}

// ErrServiceUnavailable 服务暂不可用
func ErrServiceUnavailable() *BizError {
	return New(CodeServiceUnavailable)
}

// ErrDBError 数据库错误
func ErrDBError(err error) *BizError {
	return Wrap(CodeDBError, err)
}

// ErrCacheError 缓存错误
func ErrCacheError(err error) *BizError {
	return Wrap(CodeCacheError, err)
}

// ============ 追踪服务相关错误 ============

// ErrActivityNotFound 活动不存在
func ErrActivityNotFound() *BizError {
	return New(CodeActivityNotFound)
}

// ErrActivityStatusInvalid 活动状态不允许此操作
func ErrActivityStatusInvalid() *BizError {
	return New(CodeActivityStatusInvalid)
}

// ErrSampleInvalid 定位采样数据无效
func ErrSampleInvalid(msg string) *BizError {
	if msg == "" {
		return New(CodeSampleInvalid)
	}
	return NewWithMessage(CodeSampleInvalid, msg)
}

// ErrStoreTimeout 持久化超时
func ErrStoreTimeout(err error) *BizError {
	return Wrap(CodeStoreTimeout, err)
}

// ErrIdentifierInvalid 标识符格式无效
func ErrIdentifierInvalid(msg string) *BizError {
	if msg == "" {
		return New(CodeIdentifierInvalid)
	}
	return NewWithMessage(CodeIdentifierInvalid, msg)
}

// ErrMessageNotFound 加油消息不存在
func ErrMessageNotFound() *BizError {
	return New(CodeMessageNotFound)
}
