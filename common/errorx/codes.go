/**
 * @projectName: LiveTrack
 * @package: errorx
 * @className: codes
 * @description: 统一错误码定义
 * @version: 1.0
 */

package errorx

// 错误码规范：
// 0       - 成功
// 1xxx    - 通用错误
// 3xxx    - 赛事追踪服务错误

const (
	CodeSuccess            = 0    // 成功
	CodeInternalError      = 1000 // 内部服务器错误
	CodeInvalidParams      = 1001 // 参数校验失败
	CodeUnauthorized       = 1002 // 未授权访问
	CodeForbidden          = 1003 // 禁止访问
	CodeNotFound           = 1004 // 资源不存在
	CodeTooManyRequests    = 1005 // 请求过于频繁
	CodeServiceUnavailable = 1006 // 服务暂不可用
	CodeTimeout            = 1007 // 请求超时
	CodeDBError            = 1008 // 数据库错误
	CodeCacheError         = 1009 // 缓存错误

	// 追踪服务 - 活动 3001-3099
	CodeActivityNotFound      = 3001 // 活动不存在
	CodeActivityStatusInvalid = 3002 // 活动状态不允许此操作
	CodeActivityEnded         = 3003 // 活动已结束或已取消

	// 追踪服务 - 定位采样 3101-3199
	CodeSampleInvalid     = 3101 // 定位采样数据无效
	CodeStoreTimeout      = 3102 // 持久化超时，稍后重试
	CodeIdentifierInvalid = 3103 // 标识符格式无效

	// 追踪服务 - 加油消息 3201-3299
	CodeMessageNotFound = 3201 // 加油消息不存在
	CodeMessageEmpty    = 3202 // 消息内容为空
)

// codeMessages 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:            "success",
	CodeInternalError:      "内部服务器错误",
	CodeInvalidParams:      "参数校验失败",
	CodeUnauthorized:       "未授权访问",
	CodeForbidden:          "禁止访问",
	CodeNotFound:           "资源不存在",
	CodeTooManyRequests:    "请求过于频繁，请稍后再试",
	CodeServiceUnavailable: "服务暂不可用",
	CodeTimeout:            "请求超时",
	CodeDBError:            "数据库错误",
	CodeCacheError:         "缓存错误",

	CodeActivityNotFound:      "活动不存在",
	CodeActivityStatusInvalid: "活动状态不允许此操作",
	CodeActivityEnded:         "活动已结束或已取消",

	CodeSampleInvalid:     "定位采样数据无效",
	CodeStoreTimeout:      "数据保存超时，请稍后重试",
	CodeIdentifierInvalid: "标识符格式无效",

	CodeMessageNotFound: "加油消息不存在",
	CodeMessageEmpty:    "消息内容不能为空",
}

// GetMessage 根据错误码获取默认消息
func GetMessage(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "未知错误"
}

// IsValidCode 判断是否为有效的业务错误码
// 用于区分业务错误码和 gRPC 系统错误码
func IsValidCode(code int) bool {
	_, exists := codeMessages[code]
	return exists
}
