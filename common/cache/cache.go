// Package cache 提供通用缓存工具
//
// 设计原则：
//   - Key 命名规范：{业务}:{模块}:{标识}，如 tracking:aggregate:act_b3f6h1j5n8r2
//   - 随机 TTL 防止缓存雪崩
package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/mathx"
)

const (
	// DefaultTTL 默认缓存过期时间（5 分钟）
	DefaultTTL = 5 * time.Minute

	// DefaultJitter 默认 TTL 抖动系数（±10%）
	DefaultJitter = 0.1
)

// unstable 随机数生成器，用于 TTL 抖动
var unstable = mathx.NewUnstable(DefaultJitter)

// RandomTTL 生成带抖动的 TTL，防止缓存雪崩
//
// 大量缓存设置相同 TTL 会在同一时间过期，请求同时穿透到 DB；
// 添加 ±10% 随机抖动使过期时间分散。
//
// 示例：
//
//	RandomTTL(5 * time.Minute) => 4.5min ~ 5.5min
func RandomTTL(base time.Duration) time.Duration {
	return unstable.AroundDuration(base)
}

// BuildKey 按命名规范拼接缓存 Key
//
// 示例：
//
//	BuildKey("tracking", "aggregate", activityID)
func BuildKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// BuildKeyf 带格式化的缓存 Key 拼接
func BuildKeyf(prefix string, format string, args ...interface{}) string {
	return prefix + fmt.Sprintf(format, args...)
}
