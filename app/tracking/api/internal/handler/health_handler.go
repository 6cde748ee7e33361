package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
)

// 健康检查
func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.OkJsonCtx(r.Context(), w, &types.HealthResp{
			Status:  "ok",
			Service: svcCtx.Config.Name,
		})
	}
}
