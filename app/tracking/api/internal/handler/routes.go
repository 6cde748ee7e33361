// ============================================================================
// 路由注册
// ============================================================================
//
// 功能说明：
//   集中管理追踪服务的所有 HTTP 路由：
//   - 活动生命周期：开始 / 完赛 / 取消 / 查询
//   - 定位采样上报
//   - 加油消息：发送 / 列表 / 拉取待播报 / 下发确认 / 播报确认
//
// 路由命名规范：
//   - RESTful 风格
//   - 资源名使用复数：/activities, /messages
//   - 动作使用 HTTP 方法：GET/POST/PUT/DELETE
//
// ============================================================================

package handler

import (
	"net/http"

	"livetrack-platform/app/tracking/api/internal/handler/activity"
	"livetrack-platform/app/tracking/api/internal/handler/message"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/common/middleware"

	"github.com/zeromicro/go-zero/rest"
)

// RegisterHandlers 注册所有路由
func RegisterHandlers(server *rest.Server, ctx *svc.ServiceContext) {
	// ==================== 全局中间件 ====================
	server.Use(middleware.TraceIDMiddleware)

	// ==================== 基础路由 ====================
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodGet,
				Path:    "/health",
				Handler: HealthHandler(ctx),
			},
		},
	)

	// ==================== 活动模块 ====================
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/activities",
				Handler: activity.StartActivityHandler(ctx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/activities/:activityId",
				Handler: activity.GetActivityHandler(ctx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/activities/:activityId/locations",
				Handler: activity.IngestLocationHandler(ctx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/activities/:activityId/finish",
				Handler: activity.FinishActivityHandler(ctx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/activities/:activityId/cancel",
				Handler: activity.CancelActivityHandler(ctx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/runners/:runnerId/activities",
				Handler: activity.ListActivityHandler(ctx),
			},
		},
	)

	// ==================== 加油消息模块 ====================
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/activities/:activityId/messages",
				Handler: message.SendMessageHandler(ctx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/activities/:activityId/messages",
				Handler: message.ListMessageHandler(ctx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/v1/activities/:activityId/messages/unannounced",
				Handler: message.UnannouncedMessageHandler(ctx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/activities/:activityId/messages/:messageId/announce",
				Handler: message.AnnounceMessageHandler(ctx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/v1/activities/:activityId/messages/:messageId/spoken",
				Handler: message.MarkSpokenHandler(ctx),
			},
		},
	)
}
