// Package persist 有界持久化调用封装
//
// 写路径（采样落库、消息落库）共用同一套防护：单次调用超时上限、
// 有限重试退避、熔断保护。存储持续故障时快速失败，不拖垮请求线程。
package persist

import (
	"context"
	"errors"
	"time"

	"github.com/zeromicro/go-zero/core/breaker"
	"github.com/zeromicro/go-zero/core/logx"

	"livetrack-platform/common/breakerx"
	"livetrack-platform/common/errorx"
)

const (
	// callTimeout 单次持久化调用的超时上限
	callTimeout = 3 * time.Second
	// callRetries 失败后的重试次数
	callRetries = 1
	// retryBackoff 重试前的退避时间
	retryBackoff = 200 * time.Millisecond
)

// Guard 持久化调用防护
type Guard struct {
	name string
	brk  breaker.Breaker
}

// NewGuard 创建持久化防护，name 用于熔断器与日志标识
func NewGuard(name string) *Guard {
	return &Guard{
		name: name,
		brk:  breakerx.NewSREBreaker(breakerx.SREConfig{Name: name}),
	}
}

// Do 执行一次持久化调用：熔断保护 + 超时上限 + 有限重试退避
func (g *Guard) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= callRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryBackoff)
		}

		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		lastErr = g.brk.DoCtx(callCtx, func() error {
			return fn(callCtx)
		})
		cancel()

		if lastErr == nil {
			return nil
		}
		logx.Errorf("[%s] 持久化失败(第%d次): %v", g.name, attempt+1, lastErr)
	}
	return lastErr
}

// Failure 将耗尽重试后的持久化错误映射为业务错误
// 超时单独报超时码，其余一律报服务暂不可用
func Failure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errorx.ErrStoreTimeout(err)
	}
	return errorx.Wrap(errorx.CodeServiceUnavailable, err)
}
