// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package activity

import (
	"net/http"

	"livetrack-platform/app/tracking/api/internal/logic/activity"
	"livetrack-platform/app/tracking/api/internal/svc"
	"livetrack-platform/app/tracking/api/internal/types"
	"github.com/zeromicro/go-zero/rest/httpx"
)

// 接收定位采样
func IngestLocationHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.IngestLocationReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}

		l := activity.NewIngestLocationLogic(r.Context(), svcCtx)
		resp, err := l.IngestLocation(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
